package migrate

import (
	"errors"
	"testing"

	"github.com/standardbeagle/cfgsync/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *document.Object {
	t.Helper()
	o, err := document.Parse([]byte(s))
	require.NoError(t, err)
	return o
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		dest      string
		additions []string
		identical []string
		conflicts []string
	}{
		{
			name:      "empty destination",
			source:    `{"serverA": {"port": 8080}}`,
			dest:      `{}`,
			additions: []string{"serverA"},
		},
		{
			name:      "addition and conflict",
			source:    `{"x": 1, "y": 2}`,
			dest:      `{"y": 3, "z": 4}`,
			additions: []string{"x"},
			conflicts: []string{"y"},
		},
		{
			name:      "null on both sides",
			source:    `{"debug": null}`,
			dest:      `{"debug": null}`,
			identical: []string{"debug"},
		},
		{
			name:      "object against scalar",
			source:    `{"a": {"port": 1}}`,
			dest:      `{"a": 1}`,
			conflicts: []string{"a"},
		},
		{
			name:      "nested key order is ignored",
			source:    `{"a": {"x": 1, "y": [1, 2]}}`,
			dest:      `{"a": {"y": [1, 2], "x": 1}}`,
			identical: []string{"a"},
		},
		{
			name:      "integers past float precision",
			source:    `{"id": 9007199254740993}`,
			dest:      `{"id": 9007199254740992}`,
			conflicts: []string{"id"},
		},
		{
			name:      "array order matters",
			source:    `{"a": [1, 2]}`,
			dest:      `{"a": [2, 1]}`,
			conflicts: []string{"a"},
		},
		{
			name:      "destination-only keys are not listed",
			source:    `{}`,
			dest:      `{"keep": true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compare(mustParse(t, tt.source), mustParse(t, tt.dest))

			want := func(s []string) []string {
				if s == nil {
					return []string{}
				}
				return s
			}
			assert.Equal(t, want(tt.additions), c.Additions)
			assert.Equal(t, want(tt.identical), c.Identical)
			assert.Equal(t, want(tt.conflicts), c.ConflictKeys())
		})
	}
}

func TestCompare_ConflictCarriesBothValues(t *testing.T) {
	c := Compare(mustParse(t, `{"y": 2}`), mustParse(t, `{"y": 3}`))
	require.Len(t, c.Conflicts, 1)
	assert.Equal(t, "y", c.Conflicts[0].Key)
	assert.True(t, document.Equal(document.Int(2), c.Conflicts[0].SourceValue))
	assert.True(t, document.Equal(document.Int(3), c.Conflicts[0].DestinationValue))
}

func TestMerge_Resolutions(t *testing.T) {
	src := mustParse(t, `{"x": 1, "y": 1}`)
	dst := mustParse(t, `{"y": 3, "z": 4}`)
	c := Compare(src, dst)

	tests := []struct {
		resolution Resolution
		want       string
	}{
		{Overwrite, `{"y": 1, "z": 4, "x": 1}`},
		{Keep, `{"y": 3, "z": 4, "x": 1}`},
		{Skip, `{"y": 3, "z": 4, "x": 1}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.resolution), func(t *testing.T) {
			merged, err := Merge(src, dst, c, map[string]Resolution{"y": tt.resolution})
			require.NoError(t, err)
			assert.True(t, document.Equal(document.ObjectValue(mustParse(t, tt.want)), document.ObjectValue(merged)),
				"got %s", document.Encode(merged))
		})
	}

	assert.Equal(t, []string{"y", "z"}, dst.Keys(), "destination is not modified")
}

func TestMerge_Unresolved(t *testing.T) {
	src := mustParse(t, `{"a": 1, "b": 1, "c": 1}`)
	dst := mustParse(t, `{"a": 2, "b": 2, "c": 2}`)
	c := Compare(src, dst)

	_, err := Merge(src, dst, c, map[string]Resolution{"b": Keep})
	var unresolved *UnresolvedConflictError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, []string{"a", "c"}, unresolved.Keys)
	assert.EqualError(t, err, "no resolution for conflicting keys: a, c")
}

func TestMerge_InvalidResolution(t *testing.T) {
	src := mustParse(t, `{"a": 1}`)
	dst := mustParse(t, `{"a": 2}`)

	_, err := Merge(src, dst, Compare(src, dst), map[string]Resolution{"a": "replace"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestParseResolution(t *testing.T) {
	r, err := ParseResolution(" Overwrite ")
	require.NoError(t, err)
	assert.Equal(t, Overwrite, r)

	_, err = ParseResolution("merge")
	assert.Error(t, err)
}

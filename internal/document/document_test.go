package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Object {
	t.Helper()
	obj, err := Parse([]byte(s))
	require.NoError(t, err)
	return obj
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	obj := mustParse(t, `{"zeta": 1, "alpha": {"b": true, "a": null}, "mid": [1, "two"]}`)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())

	alpha, ok := obj.Get("alpha")
	require.True(t, ok)
	nested, ok := alpha.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, nested.Keys())

	mid, _ := obj.Get("mid")
	items, ok := mid.AsArray()
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, KindNumber, items[0].Kind())
	s, _ := items[1].AsString()
	assert.Equal(t, "two", s)
}

func TestParse_AcceptsJSONC(t *testing.T) {
	obj := mustParse(t, `{
		// servers managed by the team
		"mcpServers": {
			"fs": {"command": "npx",}, /* trailing comma above */
		},
	}`)

	servers, found, err := obj.Section("mcpServers")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"fs"}, servers.Keys())
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t\n"} {
		obj, err := Parse([]byte(in))
		require.NoError(t, err)
		assert.Equal(t, 0, obj.Len())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"truncated", `{"a": 1`},
		{"garbage", `not json`},
		{"array at top level", `[1, 2]`},
		{"string at top level", `"x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			require.Error(t, err)
			var se *SyntaxError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"null vs null", `null`, `null`, true},
		{"same numbers", `1`, `1`, true},
		{"number literals by value", `1`, `1.0`, true},
		{"different numbers", `1`, `3`, false},
		{"integers beyond float precision", `9007199254740993`, `9007199254740992`, false},
		{"large integer vs exponent form", `9007199254740993`, `9.007199254740993e15`, true},
		{"decimals beyond float precision", `0.10000000000000000001`, `0.1`, false},
		{"huge exponents", `1e5000`, `1e5000`, true},
		{"string vs number", `"1"`, `1`, false},
		{"bool", `true`, `true`, true},
		{"bool differs", `true`, `false`, false},
		{"null vs false", `null`, `false`, false},
		{"arrays same order", `[1, 2]`, `[1, 2]`, true},
		{"arrays different order", `[1, 2]`, `[2, 1]`, false},
		{"arrays different length", `[1]`, `[1, 1]`, false},
		{"objects different key order", `{"a": 1, "b": 2}`, `{"b": 2, "a": 1}`, true},
		{"objects extra key", `{"a": 1}`, `{"a": 1, "b": 2}`, false},
		{"nested vs scalar", `{"port": 8080}`, `8080`, false},
		{"deep nesting", `{"a": {"b": [1, {"c": null}]}}`, `{"a": {"b": [1, {"c": null}]}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseValue([]byte(tt.a))
			require.NoError(t, err)
			b, err := ParseValue([]byte(tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.equal, Equal(a, b))
			assert.Equal(t, tt.equal, Equal(b, a), "equality must be symmetric")
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	in := `{"name":"demo","port":8080,"ratio":1.50,"tags":["a","b"],"html":"<b>&</b>","nested":{"z":null,"a":false}}`
	obj := mustParse(t, in)

	out := Encode(obj)
	assert.Equal(t, byte('\n'), out[len(out)-1])
	assert.Contains(t, string(out), `"ratio": 1.50`, "number literals are written as read")
	assert.Contains(t, string(out), `"<b>&</b>"`, "html is not escaped")

	again := mustParse(t, string(out))
	assert.True(t, Equal(ObjectValue(obj), ObjectValue(again)))
	assert.Equal(t, obj.Keys(), again.Keys())

	assert.True(t, json.Valid(out))
}

func TestEncode_EmptyDocument(t *testing.T) {
	assert.Equal(t, "{}\n", string(Encode(NewObject())))
}

func TestObject_SetKeepsPosition(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Int(1))
	obj.Set("b", Int(2))
	obj.Set("a", Int(3))

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, _ := obj.Get("a")
	n, _ := v.AsNumber()
	assert.Equal(t, "3", n)
}

func TestObject_CloneIsDeep(t *testing.T) {
	obj := mustParse(t, `{"servers": {"fs": {"args": ["x"]}}}`)
	c := obj.Clone()

	servers, _, err := c.Section("servers")
	require.NoError(t, err)
	servers.Set("extra", String("y"))

	orig, _, err := obj.Section("servers")
	require.NoError(t, err)
	assert.False(t, orig.Has("extra"))
}

func TestSection(t *testing.T) {
	obj := mustParse(t, `{"a": {"b": {"c": 1}}, "scalar": 5}`)

	sec, found, err := obj.Section("a.b")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"c"}, sec.Keys())

	_, found, err = obj.Section("a.missing")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = obj.Section("scalar")
	assert.Error(t, err)

	root, found, err := obj.Section("")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Same(t, obj, root)
}

func TestSetSection(t *testing.T) {
	obj := mustParse(t, `{"keep": true}`)
	sec := NewObject()
	sec.Set("fs", String("npx"))

	require.NoError(t, obj.SetSection("mcp.servers", sec))
	got, found, err := obj.Section("mcp.servers")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"fs"}, got.Keys())
	assert.True(t, obj.Has("keep"))

	whole := NewObject()
	whole.Set("only", Null())
	require.NoError(t, obj.SetSection("", whole))
	assert.Equal(t, []string{"only"}, obj.Keys())

	bad := mustParse(t, `{"x": 1}`)
	assert.Error(t, bad.SetSection("x.y", NewObject()))
}

func TestValue_JSONMarshal(t *testing.T) {
	v, err := ParseValue([]byte(`{"b": [1, null], "a": "s"}`))
	require.NoError(t, err)

	data, err := json.Marshal(struct {
		V Value `json:"v"`
	}{V: v})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v": {"b": [1, null], "a": "s"}}`, string(data))

	var back Value
	require.NoError(t, json.Unmarshal([]byte(`[true, 2]`), &back))
	assert.Equal(t, KindArray, back.Kind())
}

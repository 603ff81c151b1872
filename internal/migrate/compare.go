package migrate

import (
	"fmt"

	"github.com/standardbeagle/cfgsync/internal/document"
)

// Compare classifies every key of source against destination. Keys only in
// source are additions; keys in both are identical when deeply equal and
// conflicts otherwise. Keys only in destination are not listed: they are
// never touched. Order follows source.
func Compare(source, destination *document.Object) Comparison {
	c := Comparison{
		Additions: []string{},
		Identical: []string{},
		Conflicts: []Conflict{},
	}

	for _, key := range source.Keys() {
		sv, _ := source.Get(key)
		dv, ok := destination.Get(key)
		switch {
		case !ok:
			c.Additions = append(c.Additions, key)
		case document.Equal(sv, dv):
			c.Identical = append(c.Identical, key)
		default:
			c.Conflicts = append(c.Conflicts, Conflict{
				Key:              key,
				SourceValue:      sv,
				DestinationValue: dv,
			})
		}
	}
	return c
}

// Merge builds the section that results from applying source onto
// destination with the given resolutions. destination is not modified.
// Every conflict must have a resolution.
func Merge(source, destination *document.Object, c Comparison, resolutions map[string]Resolution) (*document.Object, error) {
	if missing := missingResolutions(c.Conflicts, resolutions); len(missing) > 0 {
		return nil, &UnresolvedConflictError{Keys: missing}
	}
	for _, conflict := range c.Conflicts {
		if r := resolutions[conflict.Key]; !r.Valid() {
			return nil, fmt.Errorf("key %q: invalid resolution %q: want overwrite, keep or skip", conflict.Key, r)
		}
	}

	merged := destination.Clone()
	for _, key := range c.Additions {
		v, _ := source.Get(key)
		merged.Set(key, v.Clone())
	}
	for _, conflict := range c.Conflicts {
		if resolutions[conflict.Key] == Overwrite {
			merged.Set(conflict.Key, conflict.SourceValue.Clone())
		}
	}
	return merged, nil
}

func missingResolutions(conflicts []Conflict, resolutions map[string]Resolution) []string {
	var missing []string
	for _, c := range conflicts {
		if _, ok := resolutions[c.Key]; !ok {
			missing = append(missing, c.Key)
		}
	}
	return missing
}

package migrate

import (
	"github.com/pmezard/go-difflib/difflib"
)

func unifiedDiff(path string, before, after []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path + " (migrated)",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

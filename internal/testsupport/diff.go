// Package testsupport holds helpers shared by the translator test suites.
package testsupport

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// AssertEqualLines fails the test with a unified diff when two multi-line
// strings differ, which reads far better than a single-line mismatch for
// emitted code.
func AssertEqualLines(t *testing.T, expected, actual string) {
	t.Helper()
	if expected == actual {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("failed to diff output: %v", err)
	}
	t.Errorf("output mismatch:\n%s", diff)
}

// Package invariants gates expensive consistency checks behind the
// "invariants" and "race" build tags.
package invariants

import "github.com/cockroachdb/errors"

// Check panics with an assertion failure if cond is false and invariant
// checking is enabled. The message is only formatted on failure.
func Check(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(errors.AssertionFailedf(format, args...))
	}
}

package rules

import "errors"

// Sentinel errors for structural and configuration problems. A rule that
// simply does not hold for a value is not an error; it evaluates to false.
var (
	ErrUnknownRule       = errors.New("unknown rule")
	ErrMalformedRule     = errors.New("malformed rule")
	ErrCapabilityMissing = errors.New("date parsing capability missing")
)

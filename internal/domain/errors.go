package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by storage lookups when no record exists.
var ErrNotFound = errors.New("not found")

// PediatricNotSupportedError rejects interpretation for patients below the
// minimum supported age. It gates the entire batch: when raised, zero
// results have been interpreted, even partially.
type PediatricNotSupportedError struct {
	Age    int
	MinAge int
}

// Error implements the error interface with the fixed, client-facing
// message naming the minimum supported age.
func (e *PediatricNotSupportedError) Error() string {
	return fmt.Sprintf("pediatric lab interpretation is not supported: this system is designed for adult patients only (age %d+)", e.MinAge)
}

// UnknownTestError indicates a test code absent from the registry. Callers
// are expected to pre-filter unknown codes into a warnings list before
// invoking the engine; the engine still fails loudly rather than guess.
type UnknownTestError struct {
	Code string
}

func (e *UnknownTestError) Error() string {
	return fmt.Sprintf("unknown test code %q: not present in the test registry", e.Code)
}

// UnsupportedConversionError indicates a unit with no registered conversion
// path for a test. Conversions are never approximated: the error names the
// offending unit and the supported alternatives.
type UnsupportedConversionError struct {
	TestCode string
	FromUnit string
	ToUnit   string
	// Supported lists the registered alternate units for the test, empty
	// when the test supports no conversions at all.
	Supported []string
}

func (e *UnsupportedConversionError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("unit conversion not supported for %s: expected unit %s, received %s",
			e.TestCode, e.ToUnit, e.FromUnit)
	}
	return fmt.Sprintf("cannot convert %s to %s for %s: supported units are %s, %s",
		e.FromUnit, e.ToUnit, e.TestCode, e.ToUnit, strings.Join(e.Supported, ", "))
}

// IsClientError reports whether the error should surface to the caller as a
// validation failure rather than an opaque internal fault.
func IsClientError(err error) bool {
	var pediatric *PediatricNotSupportedError
	var unknown *UnknownTestError
	var conversion *UnsupportedConversionError
	return errors.As(err, &pediatric) || errors.As(err, &unknown) || errors.As(err, &conversion)
}

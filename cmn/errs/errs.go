// Package errs provides the server's typed error taxonomy: wire errors,
// protocol violations, and not-found lookups, each matched by an Is*
// predicate rather than string comparison.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package errs

import "fmt"

type (
	// ErrMalformed is returned by the wire codec on underflow, an invalid
	// enum value, or a length exceeding a field's declared max_size.
	ErrMalformed struct{ what string }

	// ErrNetwork is returned by the packet stream on framing failures:
	// bad start/end tag, short header, unsupported protocol version.
	ErrNetwork struct{ what string }

	// ErrNotFound is returned by world-state lookups for unknown ids.
	ErrNotFound struct{ what string }

	// ErrDuplicateRegistration is returned when a GUID already has an
	// active connection.
	ErrDuplicateRegistration struct{ what string }
)

func NewMalformed(format string, a ...any) *ErrMalformed {
	return &ErrMalformed{fmt.Sprintf(format, a...)}
}

func (e *ErrMalformed) Error() string { return "malformed: " + e.what }

func NewNetwork(what string) *ErrNetwork { return &ErrNetwork{what} }

func (e *ErrNetwork) Error() string { return "network error: " + e.what }

func NewNotFound(format string, a ...any) *ErrNotFound {
	return &ErrNotFound{fmt.Sprintf(format, a...)}
}

func (e *ErrNotFound) Error() string { return e.what + " does not exist" }

func NewDuplicateRegistration(what string) *ErrDuplicateRegistration {
	return &ErrDuplicateRegistration{what}
}

func (e *ErrDuplicateRegistration) Error() string { return "duplicate registration: " + e.what }

func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

func IsMalformed(err error) bool {
	_, ok := err.(*ErrMalformed)
	return ok
}

func IsNetwork(err error) bool {
	_, ok := err.(*ErrNetwork)
	return ok
}

func IsDuplicateRegistration(err error) bool {
	_, ok := err.(*ErrDuplicateRegistration)
	return ok
}

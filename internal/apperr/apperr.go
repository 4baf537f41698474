// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error kinds the service layer reports to
// callers. Handlers map each kind to an HTTP status code; everything
// else is treated as an internal error.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrap them with context via Wrap, match with
// errors.Is.
var (
	// ErrNotFound means the referenced record does not exist or is
	// soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness rule was violated (duplicate name
	// on create or rename, delete blocked by live references).
	ErrConflict = errors.New("conflict")

	// ErrInvalidArgument means the caller supplied malformed input
	// (bad pagination, unknown sort key, negative price).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnavailable means the storage layer failed transiently; the
	// caller may retry.
	ErrUnavailable = errors.New("unavailable")
)

// Wrap attaches a human-readable message to an error kind.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is (or wraps) ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsInvalidArgument reports whether err is (or wraps) ErrInvalidArgument.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsUnavailable reports whether err is (or wraps) ErrUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

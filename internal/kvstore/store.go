// SPDX-License-Identifier: MPL-2.0

package kvstore

import (
	"context"
	"errors"
	"fmt"
)

const (
	// BackendMemory keeps values in process memory only.
	BackendMemory Backend = "memory"
	// BackendFile keeps values in a JSON document on disk.
	BackendFile Backend = "file"
	// BackendPostgres keeps values in a PostgreSQL table.
	BackendPostgres Backend = "postgres"
)

var (
	// ErrInvalidBackend is returned when a Backend value is not recognized.
	ErrInvalidBackend = errors.New("invalid storage backend")
	// ErrMissingLocation is returned when a backend lacks its path or DSN.
	ErrMissingLocation = errors.New("missing storage location")
)

type (
	// Store is the key-value persistence contract.
	//
	// Get reports ok=false for an absent key. Implementations never interpret
	// values; callers serialize and must tolerate corrupt data themselves.
	Store interface {
		Get(ctx context.Context, key string) (value string, ok bool, err error)
		Set(ctx context.Context, key, value string) error
		Delete(ctx context.Context, key string) error
		Close() error
	}

	// Backend selects a Store implementation.
	Backend string

	// InvalidBackendError is returned when a Backend value is not recognized.
	// It wraps ErrInvalidBackend for errors.Is() compatibility.
	InvalidBackendError struct {
		Value Backend
	}

	// Options selects and locates a backend for Open.
	Options struct {
		Backend Backend
		// Path is the JSON document used by BackendFile.
		Path string
		// DSN is the connection string used by BackendPostgres.
		DSN string
	}
)

// String returns the string representation of the Backend.
func (b Backend) String() string { return string(b) }

// IsValid returns whether the Backend is one of the defined backends.
func (b Backend) IsValid() (bool, []error) {
	switch b {
	case BackendMemory, BackendFile, BackendPostgres:
		return true, nil
	default:
		return false, []error{&InvalidBackendError{Value: b}}
	}
}

// Error implements the error interface for InvalidBackendError.
func (e *InvalidBackendError) Error() string {
	return fmt.Sprintf("invalid storage backend %q (valid: memory, file, postgres)", e.Value)
}

// Unwrap returns ErrInvalidBackend for errors.Is() compatibility.
func (e *InvalidBackendError) Unwrap() error { return ErrInvalidBackend }

// Open creates the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	if ok, errs := opts.Backend.IsValid(); !ok {
		return nil, errs[0]
	}

	switch opts.Backend {
	case BackendFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("%w: file backend needs a path", ErrMissingLocation)
		}
		return NewFile(opts.Path), nil
	case BackendPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("%w: postgres backend needs a dsn", ErrMissingLocation)
		}
		return OpenPostgres(ctx, opts.DSN)
	default:
		return NewMemory(), nil
	}
}

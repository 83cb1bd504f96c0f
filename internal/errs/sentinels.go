// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/transport layers.
var (
	// ErrNotFound indicates the requested entity or blob does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the request was rejected before anything was written
	// (bad input, dangling reference, bad pagination bounds).
	ErrValidation = errors.New("validation failed")

	// ErrBackendUnavailable indicates a storage backend failed for a reason other
	// than a missing key (network, permissions, server error).
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrDeliveryFailed indicates a broadcast could not be written to one observer.
	// It is handled inside the broadcaster and never reaches mutation callers.
	ErrDeliveryFailed = errors.New("delivery failed")
)

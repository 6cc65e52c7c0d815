// Package assistant holds the storefront chat pipeline: query expansion,
// catalog matching, reply composition and transcript recording.
package assistant

import "errors"

var (
	// ErrStoreUnavailable wraps any catalog or transcript store failure.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrMalformedUpstreamResponse marks a model reply without a usable
	// delimiter or JSON payload.
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")

	// ErrValidation marks a turn rejected before any stage ran.
	ErrValidation = errors.New("validation error")
)

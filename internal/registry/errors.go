package registry

import "errors"

// Domain errors for registry lookups.
//
// Use errors.Is() to check for these in calling code:
//
//	if errors.Is(err, registry.ErrUnavailable) {
//	    // degrade: treat this registry's contribution as empty
//	}
var (
	// ErrUnavailable is returned when the backing registry cannot be
	// reached (bridge disconnected, host platform down). Callers must
	// degrade rather than fail the evaluation.
	ErrUnavailable = errors.New("registry: unavailable")

	// ErrNotFound is returned when an entity or device ID is unknown.
	ErrNotFound = errors.New("registry: not found")
)

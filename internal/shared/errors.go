package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates a malformed or incomplete request payload.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated indicates a missing, malformed, expired or
	// unverifiable credential. Surfaced uniformly; the failing check is never
	// exposed over the wire.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the authenticated principal lacks the required
	// permission.
	ErrForbidden = errors.New("forbidden")
	// ErrPrivilegeEscalation indicates an attempt to grant a capability above
	// the requester's own maximum privilege level. It is a specialization of
	// ErrForbidden: errors.Is(err, ErrForbidden) holds.
	ErrPrivilegeEscalation = fmt.Errorf("%w: cannot assign permissions higher than your own", ErrForbidden)
	// ErrInvariant indicates a deployment precondition failed, such as the
	// no-access fallback role missing at role-delete time. Not retryable;
	// requires operator correction.
	ErrInvariant = errors.New("invariant violation")
)

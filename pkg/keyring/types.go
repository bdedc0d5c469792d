package keyring

import "errors"

// Identity is one entry in the serval keyring. SID and Identity are public
// keys and may be shared freely; DID and Name are mutable metadata.
type Identity struct {
	// SID is the Serval ID, 64 uppercase hex digits.
	SID string `json:"sid"`
	// Identity is the Serval Signing ID, 64 uppercase hex digits.
	Identity string `json:"identity"`
	// DID is the dialled identity (phone number) if set.
	DID string `json:"did"`
	// Name is a human-readable label if set.
	Name string `json:"name"`
}

// AddRequest carries the optional parameters for creating an identity.
type AddRequest struct {
	// PIN protects the new identity with a passphrase. The daemon caches
	// the passphrase so the identity starts out unlocked.
	PIN string
	// DID is 5-31 characters from 0123456789#*.
	DID string
	// Name is at most 63 UTF-8 bytes, printable, not surrounded by
	// whitespace.
	Name string
}

// UpdateRequest carries the mutable fields for an identity. The daemon
// resets any field omitted from a set request, so a nil field makes the
// client fetch the identity and re-send its current value; a pointer to the
// empty string omits the field, resetting it.
type UpdateRequest struct {
	PIN  string
	DID  *string
	Name *string
}

var (
	// ErrIdentityNotFound is returned when the daemon reports 404 for a
	// SID. The identity either does not exist or is locked; the daemon
	// does not distinguish the two cases.
	ErrIdentityNotFound = errors.New("keyring: identity not found or locked")
	// ErrUnauthorized is returned when the daemon rejects the configured
	// HTTP basic auth credentials.
	ErrUnauthorized = errors.New("keyring: unauthorized")
	// ErrInvalidRequest is returned when the daemon rejects a request as
	// malformed, or when client-side validation fails.
	ErrInvalidRequest = errors.New("keyring: invalid request")
	// ErrEndpointNotImplemented is returned by Lock: the lock endpoint
	// appears in the daemon's documentation but is not implemented.
	ErrEndpointNotImplemented = errors.New("keyring: endpoint not implemented by the daemon")
)

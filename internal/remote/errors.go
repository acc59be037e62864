package remote

import "errors"

// Sentinel errors returned by the remote store client. Anything else coming
// out of this package is a wrapped persistence failure (connectivity, bad
// status, undecodable body) to be surfaced through a store's error field.
var (
	// ErrUnauthorized is returned when the server rejects the bearer token.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrLoginTaken is returned by Register when the login already exists.
	ErrLoginTaken = errors.New("login already exists")

	// ErrBadCredentials is returned by Login on a wrong login/password pair.
	ErrBadCredentials = errors.New("invalid login or password")
)

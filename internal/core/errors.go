package core

import "errors"

// Domain errors surfaced to the request boundary. Handlers map these to
// stable HTTP statuses; everything else is treated as a server error.
var (
	// ErrDuplicateEmail indicates the email is already registered, under any provider.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email, missing password hash, and
	// hash mismatch alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers forged, malformed, and expired tokens alike.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthenticated indicates the request carried no resolvable identity.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden indicates the account has not verified its email.
	ErrForbidden = errors.New("email not verified")

	// ErrNotFound covers both absent entities and entities owned by another
	// user, so existence of other users' data never leaks.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded indicates the free-tier chat cap has been reached.
	ErrQuotaExceeded = errors.New("free tier chat limit reached")
)

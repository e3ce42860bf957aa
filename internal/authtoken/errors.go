package authtoken

import "errors"

var (
	// ErrInvalidToken is returned for every rejected verification: unknown
	// token, expired, already used, or purpose mismatch. Callers cannot tell
	// these apart; the distinguishing reason is only logged internally.
	ErrInvalidToken = errors.New("invalid token")

	// ErrStorageUnavailable wraps store failures. It is never folded into
	// ErrInvalidToken so callers can distinguish "rejected" from "unknown".
	ErrStorageUnavailable = errors.New("token storage unavailable")

	// ErrGenerationExhausted is returned when token generation keeps
	// colliding past the retry budget instead of overwriting a row.
	ErrGenerationExhausted = errors.New("token generation exhausted")
)

package model

// Error codes returned alongside 401 responses so clients can distinguish
// an expired token (refresh and retry) from a broken one (re-login).
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

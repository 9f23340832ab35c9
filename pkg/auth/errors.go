package auth

import (
	"fmt"
	"net/http"
)

// Error codes carried in the AuthError body.
const (
	CodeHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader = "invalid_header"
	CodeTokenExpired  = "token_expired"
	CodeInvalidClaims = "invalid_claims"
	CodeUnauthorized  = "unauthorized"
)

// AuthError is a denial produced by the Gate. It carries the HTTP status to
// respond with and serializes to {"code": ..., "description": ...}.
type AuthError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Description)
}

func newAuthError(status int, code, description string) *AuthError {
	return &AuthError{StatusCode: status, Code: code, Description: description}
}

var (
	errHeaderMissing     = newAuthError(http.StatusUnauthorized, CodeHeaderMissing, "Authorization header is expected.")
	errNotBearer         = newAuthError(http.StatusUnauthorized, CodeInvalidHeader, "Authorization header must be a bearer token.")
	errMalformedHeader   = newAuthError(http.StatusUnauthorized, CodeInvalidHeader, "Authorization malformed.")
	errKeyNotFound       = newAuthError(http.StatusBadRequest, CodeInvalidHeader, "Unable to find the appropriate key.")
	errTokenExpired      = newAuthError(http.StatusUnauthorized, CodeTokenExpired, "Token expired.")
	errIncorrectClaims   = newAuthError(http.StatusUnauthorized, CodeInvalidClaims, "Incorrect claims. Please, check the audience and issuer.")
	errUnparsableToken   = newAuthError(http.StatusBadRequest, CodeInvalidHeader, "Unable to parse authentication token.")
	errMissingPermission = newAuthError(http.StatusBadRequest, CodeInvalidClaims, "Permissions not included in JWT.")
	errPermissionDenied  = newAuthError(http.StatusForbidden, CodeUnauthorized, "Permission not found.")
)

package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeAccountInactive    = "ACCOUNT_INACTIVE"
	textCodeTokenExpired       = "TOKEN_EXPIRED"
	textCodeTokenMalformed     = "TOKEN_MALFORMED"
	textCodeTokenKindMismatch  = "TOKEN_KIND_MISMATCH"
	textCodeTokenNoSubject     = "TOKEN_NO_SUBJECT"
	textCodeUsernameTaken      = "USERNAME_TAKEN"
	textCodeEmailTaken         = "EMAIL_TAKEN"
	textCodeAdminRequired      = "ADMIN_REQUIRED"
	textCodeMissingBearer      = "MISSING_BEARER_TOKEN"
)

// ErrInvalidCredentials is returned when the user is unknown or the
// password does not match. The two cases are deliberately
// indistinguishable to callers.
var ErrInvalidCredentials = goerrors.New("incorrect username or password", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountInactive is returned when credentials check out but the
// account has been deactivated.
var ErrAccountInactive = goerrors.New("user account is deactivated", goerrors.CategoryAuth).
	WithTextCode(textCodeAccountInactive).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's expiry claim has passed.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers undecodable tokens, signature mismatches and
// missing required claims.
var ErrTokenMalformed = goerrors.New("token is invalid or malformed", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenKindMismatch is returned when an access token is presented
// where a refresh token is required, or vice versa.
var ErrTokenKindMismatch = goerrors.New("unexpected token type", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenKindMismatch).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenNoSubject is returned when the subject claim is absent or not
// a well-formed identifier.
var ErrTokenNoSubject = goerrors.New("token has no usable subject", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenNoSubject).
	WithCode(goerrors.CodeUnauthorized)

// ErrUsernameTaken is returned when registering with a username that is
// already present, regardless of the owning account's active flag.
var ErrUsernameTaken = goerrors.New("username already registered", goerrors.CategoryConflict).
	WithTextCode(textCodeUsernameTaken).
	WithCode(goerrors.CodeConflict)

// ErrEmailTaken is the email counterpart of ErrUsernameTaken.
var ErrEmailTaken = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(textCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// ErrAdminRequired distinguishes "you may not do this" from
// "who are you" failures.
var ErrAdminRequired = goerrors.New("admin access required", goerrors.CategoryAuthz).
	WithTextCode(textCodeAdminRequired).
	WithCode(goerrors.CodeForbidden)

// ErrMissingBearer is returned when the authorization header is absent
// or does not carry the Bearer scheme.
var ErrMissingBearer = goerrors.New("missing or invalid authorization header", goerrors.CategoryAuth).
	WithTextCode(textCodeMissingBearer).
	WithCode(goerrors.CodeUnauthorized)

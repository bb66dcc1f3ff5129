package sqlauth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("value should not be empty string")

// ErrMismatchedHashAndPassword is the error for a well formed hash that does
// not match the supplied password
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password")

// ErrEngineNotFound is returned when no engine is registered under the
// configured identifier. The attempt is never dispatched.
var ErrEngineNotFound = goerrors.New("sql engine not found", goerrors.CategoryOperation).
	WithTextCode("ENGINE_NOT_FOUND")

// ErrRegistrationDisabled blocks register/group commands when external
// authentication owns account creation.
var ErrRegistrationDisabled = goerrors.New("registration is disabled", goerrors.CategoryAuthz).
	WithTextCode("REGISTRATION_DISABLED").
	WithCode(goerrors.CodeForbidden)

// ErrEmailChangeDisabled blocks e-mail change commands when the external
// store owns the e-mail field.
var ErrEmailChangeDisabled = goerrors.New("e-mail changes are disabled", goerrors.CategoryAuthz).
	WithTextCode("EMAIL_CHANGE_DISABLED").
	WithCode(goerrors.CodeForbidden)

// IsVerifyError reports whether a comparison failure means the stored hash
// could not be parsed, as opposed to a well formed hash that simply did not
// match. The two classes resolve an attempt differently.
func IsVerifyError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrMismatchedHashAndPassword)
}

package sqlauth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. It returns nil on a match,
// ErrMismatchedHashAndPassword on a clean mismatch, and the primitive's own
// error when the hash cannot be parsed (bad prefix, bad cost, truncated
// salt). Callers separate the last class with IsVerifyError.
//
// No length or prefix short-circuit happens here; the primitive sees every
// comparison so we leak no more timing than bcrypt itself does.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

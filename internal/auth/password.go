package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("invalid credentials")

func HashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(plain, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// Operators checks the single configured operator account.
type Operators struct {
	user string
	hash string
}

func NewOperators(user, passwordHash string) *Operators {
	return &Operators{user: user, hash: passwordHash}
}

// Authenticate returns ErrBadCredentials for any mismatch, including when no
// operator password is configured.
func (o *Operators) Authenticate(user, password string) error {
	if o.hash == "" {
		return ErrBadCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(o.user)) == 1
	if err := VerifyPassword(password, o.hash); err != nil || !userOK {
		return ErrBadCredentials
	}
	return nil
}

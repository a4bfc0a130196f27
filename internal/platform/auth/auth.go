package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User is the session identity exposed to handlers after authentication.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Credential is one configured dashboard login. Password may be a bcrypt
// hash (recognized by its "$2" prefix) or a plain value; plain values are
// compared in constant time.
type Credential struct {
	Username string
	Password string
	Role     string
}

// Authenticator validates logins against an injected credential table. The
// dashboard has exactly two roles (admin, operador); the table comes from
// configuration, never from the hospital database.
type Authenticator struct {
	creds []Credential
}

func NewAuthenticator(creds []Credential) *Authenticator {
	return &Authenticator{creds: creds}
}

// Authenticate returns the matching user, or nil when the username is
// unknown, the stored password is empty, or the password does not match.
func (a *Authenticator) Authenticate(username, password string) *User {
	for _, c := range a.creds {
		if c.Username != username {
			continue
		}
		if c.Password == "" {
			return nil
		}
		if !passwordMatches(c.Password, password) {
			return nil
		}
		return &User{Username: c.Username, Role: c.Role}
	}
	return nil
}

func passwordMatches(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

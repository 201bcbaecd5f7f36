// Package auth holds the credential check used for passcodes and the admin
// secret. It is a plaintext comparison gate, kept behind one function so it
// can be replaced without touching callers.
package auth

// Func checks an attempt against a stored secret
type Func func(secret, attempt string) bool

// Authenticate reports whether attempt matches secret exactly (case-sensitive)
func Authenticate(secret, attempt string) bool {
	return secret == attempt
}

package service

// TokenSource mints opaque session tokens. A token proves an already
// authenticated session until the next login replaces it; there is no
// expiry or rotation.
type TokenSource interface {
	// NewSessionToken returns a fresh random token in UUID-v4 form.
	NewSessionToken() string
}

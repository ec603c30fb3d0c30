package domain

import "time"

// Identity is an authenticated principal as reported by the identity
// provider. Email is optional.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Credential is the password record behind an identity.
type Credential struct {
	IdentityID   string
	Email        string
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IdentityState is the signed-in identity of one client runtime as kept by
// the state store. It disappears on sign-out or once ExpiresAt passes.
type IdentityState struct {
	ClientID   string    `json:"client_id"`
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email,omitempty"`
	SignedInAt time.Time `json:"signed_in_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Identity returns the identity carried by the state.
func (s IdentityState) Identity() Identity {
	return Identity{ID: s.IdentityID, Email: s.Email}
}

// Expired reports whether the state is no longer usable at now.
func (s IdentityState) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

package session

import "time"

// Config drives session behavior.
type Config struct {
	Secret        string
	TTL           time.Duration
	EncryptionKey string
}

// Session binds a signed client token to the upstream bearer token it was issued for.
type Session struct {
	ID            string    `json:"id"`
	UpstreamToken string    `json:"upstreamToken"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Credentials are forwarded to the remote service and never stored.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthToken is the remote service's login response.
type AuthToken struct {
	Token string `json:"token"`
}

// LoginRequest captures login details.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the signed session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

package auth

import "time"

// User is the authenticated account row. Password holds the bcrypt hash and
// is never serialized.
type User struct {
	ID       int64   `json:"-"`
	Email    string  `json:"email"`
	Token    string  `json:"token,omitempty"`
	Username string  `json:"username"`
	Password []byte  `json:"-"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// Auth issues and verifies bearer tokens and manages request identity.
type Auth struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
}

func New(secret, issuer string, tokenTTL time.Duration) *Auth {
	return &Auth{
		secret:   []byte(secret),
		issuer:   issuer,
		tokenTTL: tokenTTL,
	}
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FeedScope is the scope claim carried by calendar feed tokens.
const FeedScope = "calendar:feed"

// FeedClaims represents the JWT payload for calendar feed tokens.
type FeedClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// FeedToken is the response payload for a newly issued feed token.
type FeedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

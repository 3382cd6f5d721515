package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// ErrInvalidToken is returned for any token that fails verification. The
// concrete reason (expired, bad signature, malformed) is logged but never
// surfaced to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens with a single shared secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec. The secret is loaded once at startup and never
// changes for the lifetime of the process.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Encode creates a signed token for the given user ID, expiring after the
// configured TTL.
func (c *Codec) Encode(userID string) (string, error) {
	return c.EncodeAt(userID, time.Now().Add(c.ttl))
}

// EncodeAt creates a signed token with an explicit expiration instant.
func (c *Codec) EncodeAt(userID string, expiresAt time.Time) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a token string and returns its claims. Expired, malformed
// or tampered tokens all yield ErrInvalidToken.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		log.Debug().Err(err).Msg("Token verification failed")
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Package auth issues and verifies the signed tokens handed out by /login.
//
// ────────────────────────────────────────────────────────────────────
// LEARNING NOTE: stateless tokens
// ────────────────────────────────────────────────────────────────────
// A JWT is HEADER.PAYLOAD.SIGNATURE. The payload carries the username
// plus issued-at and expiry; the signature is HMAC-SHA256 over the first
// two parts with a secret only this service knows. Verification is pure
// computation: no session table is consulted, so a token stays valid
// until its exp passes and cannot be revoked earlier.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenDuration is how long a login token stays valid.
const TokenDuration = time.Hour

// ErrInvalidToken wraps every verification failure: bad signature,
// unexpected algorithm, malformed input or expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims embedded in each token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed token for username that expires after
// TokenDuration.
func GenerateToken(username, secret string) (string, error) {
	now := time.Now()
	return GenerateTokenWithExpiry(username, secret, now, now.Add(TokenDuration))
}

// GenerateTokenWithExpiry creates a token with explicit iat/exp values.
// Tests use it to produce tokens that have already expired.
func GenerateTokenWithExpiry(username, secret string, iat, exp time.Time) (string, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(iat),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token string and returns the embedded claims.
// It rejects a wrong signature, an algorithm other than HMAC, and tokens
// whose exp has passed.
func ParseToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		// Guard against "alg:none" or RS256 tokens being passed to an HS256 server.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Credentials is the single username/password pair accepted by /login.
// The password is held only as a bcrypt hash.
type Credentials struct {
	username string
	hash     []byte
}

// NewCredentials hashes password once so each login costs one bcrypt compare.
func NewCredentials(username, password string) (*Credentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &Credentials{username: username, hash: hash}, nil
}

// Check reports whether username and password match the stored pair.
func (c *Credentials) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passOK := bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	return userOK && passOK
}

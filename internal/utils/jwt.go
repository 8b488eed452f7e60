package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA-256 hashing for stored refresh tokens
	"encoding/hex"  // hex encoding for digests
	"errors"        // sentinel matching on jwt parse failures
	"log"           // distinct logging per validation failure mode
	"time"          // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Token represents a signed HS256 JWT along with its expiry.  Both access
// and refresh tokens share this shape; they differ only in TTL.  The subject
// claim carries the username and a "roles" claim carries the user's roles.
type Token struct {
	Value string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs a short-lived HS256 JWT for a user.  The
// JWT includes standard claims: subject (sub), roles, expiration (exp) and
// issued at (iat).
func NewAccessToken(secret, username string, roles []string, ttlMin int) (Token, error) {
	return signToken(secret, username, roles, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken builds and signs a long-lived HS256 JWT used to obtain new
// access tokens without re-authentication.  Only its SHA-256 hash is stored
// server-side; see HashTokenRaw.
func NewRefreshToken(secret, username string, ttlDays int) (Token, error) {
	return signToken(secret, username, nil, time.Duration(ttlDays)*24*time.Hour)
}

func signToken(secret, username string, roles []string, ttl time.Duration) (Token, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub": username,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	if len(roles) > 0 {
		claims["roles"] = roles
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// ValidateToken checks the signature and expiry of a signed token.  The
// individual failure modes are logged distinctly but collapse to a single
// boolean for the caller, matching how the rest of the service treats
// credentials: a token is either usable or it is not.
func ValidateToken(secret, raw string) bool {
	if raw == "" {
		log.Printf("jwt: empty token")
		return false
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	switch {
	case err == nil && tok.Valid:
		return true
	case errors.Is(err, jwt.ErrTokenMalformed):
		log.Printf("jwt: malformed token: %v", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		log.Printf("jwt: expired token: %v", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		log.Printf("jwt: invalid signature: %v", err)
	default:
		log.Printf("jwt: token validation failed: %v", err)
	}
	return false
}

// UsernameFromToken extracts the subject claim from a signed token without
// re-checking expiry; callers are expected to ValidateToken first.
func UsernameFromToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sub, nil
}

// HashTokenRaw returns the SHA-256 hash of a signed refresh token as a hex
// string.  Storing only the hash prevents attackers from using stolen
// database rows to refresh sessions.
func HashTokenRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

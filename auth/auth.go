// Package auth verifies and mints bearer tokens for API callers.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	keyfunc "github.com/MicahParks/keyfunc"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	GroupAdmin   = "admin"
	GroupEditor  = "editor"
	GroupDisplay = "display"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoKey        = errors.New("no token secret or jwks url configured")
)

// User is the authenticated caller of a request.
type User struct {
	Name   string
	Groups mapset.Set[string]
}

// InGroup reports whether the user belongs to any of groups.
func (u *User) InGroup(groups ...string) bool {
	if u == nil || u.Groups == nil {
		return false
	}
	for _, g := range groups {
		if u.Groups.Contains(g) {
			return true
		}
	}
	return false
}

type Claims struct {
	Groups []string `json:"groups"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	issuer string
	jwks   *keyfunc.JWKS
}

// NewVerifier verifies HS256 tokens signed with secret. If jwksURL is set, tokens
// are verified against the remote key set instead.
func NewVerifier(secret, issuer, jwksURL string) (*Verifier, error) {
	v := &Verifier{secret: []byte(secret), issuer: issuer}
	if jwksURL == "" {
		if secret == "" {
			return nil, ErrNoKey
		}
		return v, nil
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval: 5 * time.Minute,
		RefreshErrorHandler: func(err error) {
			slog.Warn("failed to refresh jwks", "url", jwksURL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load jwks from %s: %w", jwksURL, err)
	}
	v.jwks = jwks
	return v, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if v.jwks != nil {
		return v.jwks.Keyfunc(token)
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return v.secret, nil
}

// Verify parses and validates a token and returns the user it names.
func (v *Verifier) Verify(tokenString string) (*User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrUnauthorized, claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}

	return &User{
		Name:   claims.Subject,
		Groups: mapset.NewSet(claims.Groups...),
	}, nil
}

func (v *Verifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// Mint signs an HS256 token for user. A zero ttl produces a token that never expires.
func Mint(secret, issuer, user string, groups []string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoKey
	}
	now := time.Now()
	claims := Claims{
		Groups: groups,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user,
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

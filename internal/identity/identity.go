// internal/identity/identity.go
//
// Signed player cookies.
// Responsibilities:
//   - Derive an HS256 signing key from a configured secret (HKDF-SHA256),
//     or generate a random per-process key when none is configured.
//   - Issue JWTs whose subject is the player ID.
//   - Parse and verify tokens, rejecting other algorithms and expired tokens.
//   - Read/write the cookie that carries the token.
package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "numguess player cookie v1"

// ErrInvalidToken covers missing, malformed, expired or forged tokens.
var ErrInvalidToken = errors.New("invalid player token")

// DeriveKey stretches secret into a 32-byte signing key.
// An empty secret yields a random key, so cookies only survive until restart.
func DeriveKey(secret string) ([]byte, error) {
	key := make([]byte, 32)
	if secret == "" {
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		return key, nil
	}
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Issuer signs and verifies player tokens and manages the cookie.
type Issuer struct {
	key        []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// Config configures an Issuer.
type Config struct {
	Key        []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// NewIssuer returns an Issuer, defaulting TTL to 30 days and the cookie name
// to guess_player.
func NewIssuer(cfg Config) *Issuer {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "guess_player"
	}
	return &Issuer{
		key:        cfg.Key,
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		now:        time.Now,
	}
}

// Issue returns a token for playerID and its expiry.
func (i *Issuer) Issue(playerID string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   playerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(i.key)
	return ss, exp, err
}

// Parse verifies token and returns the player ID.
func (i *Issuer) Parse(token string) (string, error) {
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return i.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// PlayerID reads and verifies the player cookie.
func (i *Issuer) PlayerID(r *http.Request) (string, error) {
	c, err := r.Cookie(i.cookieName)
	if err != nil || c.Value == "" {
		return "", ErrInvalidToken
	}
	return i.Parse(c.Value)
}

// SetCookie issues a token for playerID and writes it as the player cookie.
func (i *Issuer) SetCookie(w http.ResponseWriter, playerID string) error {
	token, exp, err := i.Issue(playerID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     i.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
	return nil
}

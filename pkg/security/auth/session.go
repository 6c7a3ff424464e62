package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// devSecret is the out-of-the-box secret for local development. Running with
// it behind a secure cookie (the production signal we have) draws a warning.
const devSecret = "dev-secret-change-me"

var (
	// ErrNoSession means the request carried no session cookie.
	ErrNoSession = errors.New("no session")
	// ErrInvalidSession means the cookie was present but did not verify.
	ErrInvalidSession = errors.New("invalid session")
)

// SessionClaims is the JWT payload for a logged-in user.
type SessionClaims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Config holds session manager settings.
type Config struct {
	Secret       string
	CookieName   string
	CookieSecure bool
	TTL          time.Duration
}

// Manager issues and verifies session tokens and manages the session cookie.
type Manager struct {
	secret       []byte
	cookieName   string
	cookieSecure bool
	ttl          time.Duration
	logger       *slog.Logger
}

// NewManager creates a session manager. An empty secret falls back to the
// development default with a warning; pairing that default with a secure
// cookie is treated as a misconfigured production deployment and also
// warned about loudly.
func NewManager(cfg Config) (*Manager, error) {
	logger := slog.Default().With("component", "auth")

	secret := cfg.Secret
	if secret == "" {
		secret = devSecret
		logger.Warn("session secret not set, using development default")
	}
	if secret == devSecret && cfg.CookieSecure {
		logger.Warn("development session secret in use with secure cookies, set a real secret")
	}

	if cfg.CookieName == "" {
		return nil, fmt.Errorf("cookie name must not be empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", cfg.TTL)
	}

	return &Manager{
		secret:       []byte(secret),
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
		ttl:          cfg.TTL,
		logger:       logger,
	}, nil
}

// Issue signs a session token for the given identity.
func (m *Manager) Issue(email string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email:   email,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token.
func (m *Manager) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// FromRequest resolves the session claims from the request's cookie.
func (m *Manager) FromRequest(r *http.Request) (*SessionClaims, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	return m.Verify(cookie.Value)
}

// SetCookie writes the session cookie for a signed token.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snapgram/internal/core/apperr"
	sessionPort "snapgram/internal/ports/session"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
)

const (
	CookieName = "token"
	TTL        = 24 * time.Hour
	issuer     = "snapgram"
)

var errUnauthenticated = apperr.New(apperr.ErrUnauthorized, "Unauthenticated user!")

// Claims what the middleware learns from a verified token.
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// Manager signs, verifies and revokes session tokens.
type Manager struct {
	key     []byte
	revoked sessionPort.RevocationStore
	now     func() time.Time
}

func NewManager(key []byte, revoked sessionPort.RevocationStore) *Manager {
	return &Manager{key: key, revoked: revoked, now: time.Now}
}

// Issue signs an HS256 token for userID valid for TTL.
func (m *Manager) Issue(userID string) (string, time.Time, error) {
	expiresAt := m.now().Add(TTL)
	claims := &jwt.StandardClaims{
		Id:        uuid.Must(uuid.NewV4()).String(),
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  m.now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (m *Manager) parse(raw string) (*jwt.StandardClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.StandardClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil || !token.Valid {
		return nil, errUnauthenticated
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || claims.Subject == "" || claims.Id == "" {
		return nil, errUnauthenticated
	}
	return claims, nil
}

// Verify checks signature, expiry and revocation.
func (m *Manager) Verify(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, errUnauthenticated
	}
	claims, err := m.parse(raw)
	if err != nil {
		return nil, err
	}

	revoked, err := m.revoked.IsRevoked(ctx, claims.Id)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, errUnauthenticated
	}

	return &Claims{
		UserID:    claims.Subject,
		TokenID:   claims.Id,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

// Revoke blocks raw until it expires. Invalid or already expired tokens need nothing.
func (m *Manager) Revoke(ctx context.Context, raw string) error {
	claims, err := m.parse(raw)
	if errors.Is(err, apperr.ErrUnauthorized) {
		return nil
	}
	if err != nil {
		return err
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}
	return m.revoked.Revoke(ctx, claims.Id, ttl)
}

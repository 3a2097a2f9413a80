package jwt

import (
	"testing"
	"time"

	"company-news/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(now time.Time) *HMACService {
	s := NewHMACService(config.JWTConfig{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
	})
	s.now = func() time.Time { return now }
	return s
}

func TestHMACService_AccessAndRefresh(t *testing.T) {
	now := time.Now()
	s := newTestService(now)
	id := uuid.New()

	access, err := s.GenerateAccessToken(id, "editor@example.com")
	require.NoError(t, err)
	claims, err := s.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "editor@example.com", claims.Email)
	assert.False(t, s.IsRefreshToken(claims))

	refresh, err := s.GenerateRefreshToken(id)
	require.NoError(t, err)
	claims, err = s.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, s.IsRefreshToken(claims))
}

func TestHMACService_Expired(t *testing.T) {
	now := time.Now()
	s := newTestService(now)

	tok, err := s.GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(time.Hour) }
	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHMACService_RejectsForeignSecret(t *testing.T) {
	other := NewHMACService(config.JWTConfig{
		AccessSecret: "x", RefreshSecret: "y",
		AccessExpiresIn: time.Minute, RefreshExpiresIn: time.Minute,
	})
	tok, err := other.GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)

	_, err = newTestService(time.Now()).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

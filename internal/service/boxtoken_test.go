package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/artistdb/internal/domain"
)

const fiveYears = 5 * 365 * 24 * time.Hour

func newTokenService(t *testing.T, now *time.Time) *BoxTokenService {
	t.Helper()
	s, err := NewBoxTokenService("test-secret", fiveYears)
	require.NoError(t, err)
	return s.WithClock(func() time.Time { return *now })
}

func TestBoxTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	s := newTokenService(t, &now)

	token, err := s.Generate(ctx, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	assert.NoError(t, s.Verify(ctx, token, 7))
	assert.ErrorIs(t, s.Verify(ctx, token, 8), domain.ErrInvalidToken)
}

func TestBoxTokenExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	s := newTokenService(t, &now)

	token, err := s.Generate(ctx, 7)
	require.NoError(t, err)

	now = now.Add(fiveYears - time.Hour)
	assert.NoError(t, s.Verify(ctx, token, 7))

	now = now.Add(2 * time.Hour)
	assert.ErrorIs(t, s.Verify(ctx, token, 7), domain.ErrTokenExpired)
}

func TestBoxTokenRejectsForeignKey(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	other, err := NewBoxTokenService("another-secret", fiveYears)
	require.NoError(t, err)
	token, err := other.WithClock(func() time.Time { return now }).Generate(ctx, 7)
	require.NoError(t, err)

	s := newTokenService(t, &now)
	assert.ErrorIs(t, s.Verify(ctx, token, 7), domain.ErrInvalidToken)
	assert.ErrorIs(t, s.Verify(ctx, "", 7), domain.ErrInvalidToken)
	assert.ErrorIs(t, s.Verify(ctx, "not-a-token", 7), domain.ErrInvalidToken)
}

func TestNewBoxTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewBoxTokenService("", fiveYears)
	assert.Error(t, err)
}

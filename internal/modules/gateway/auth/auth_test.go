package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/internal/modules/gateway/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateToken("host-a", domain.RoleHost)
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	id, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "host-a", id.HostID)
	require.Equal(t, domain.RoleHost, id.Role)
	require.NoError(t, id.Authorize())
	require.False(t, id.IsAdmin())
}

func TestTokenWrongSecretRejected(t *testing.T) {
	svc := auth.NewTokenService("secret-one", time.Hour)
	other := auth.NewTokenService("secret-two", time.Hour)

	token, _, err := svc.GenerateToken("host-a", domain.RoleHost)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := auth.NewTokenService("test-secret", -time.Minute)

	token, _, err := svc.GenerateToken("host-a", domain.RoleHost)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestAdminRoleSurvivesRoundTrip(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)

	token, _, err := svc.GenerateToken("admin-1", domain.RoleAdmin)
	require.NoError(t, err)

	id, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.True(t, id.IsAdmin())
}

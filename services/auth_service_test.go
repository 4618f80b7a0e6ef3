package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery"

func newAuthFixture(t *testing.T) (*fakeUserRepo, AuthService) {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	users := newFakeUserRepo(
		models.User{ID: 1, Email: "goalie@example.com", PasswordHash: hash, IsActive: true},
		models.User{ID: 2, Email: "retired@example.com", PasswordHash: hash},
	)
	return users, NewAuthService(users, "test-secret", time.Hour, discardLogger())
}

func TestAuthService_ObtainTokenReusesKey(t *testing.T) {
	users, svc := newAuthFixture(t)
	ctx := context.Background()
	creds := LoginInput{Email: " goalie@example.com ", Password: testPassword}

	first, err := svc.ObtainToken(ctx, creds)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Key)
	assert.Equal(t, 1, first.UserID)

	second, err := svc.ObtainToken(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, 1, users.tokensCreated)

	user, err := svc.UserForToken(ctx, first.Key)
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
}

func TestAuthService_ObtainTokenRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   LoginInput
		wantErr error
	}{
		{"wrong password", LoginInput{Email: "goalie@example.com", Password: "nope"}, ErrAuthInvalidCredentials},
		{"unknown email", LoginInput{Email: "nobody@example.com", Password: testPassword}, ErrAuthInvalidCredentials},
		{"inactive user", LoginInput{Email: "retired@example.com", Password: testPassword}, ErrAuthInactiveUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, svc := newAuthFixture(t)

			_, err := svc.ObtainToken(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, users.tokensCreated)
		})
	}
}

func TestAuthService_RevokeToken(t *testing.T) {
	users, svc := newAuthFixture(t)
	ctx := context.Background()
	creds := LoginInput{Email: "goalie@example.com", Password: testPassword}

	token, err := svc.ObtainToken(ctx, creds)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(ctx, 1))
	_, err = svc.UserForToken(ctx, token.Key)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	assert.ErrorIs(t, svc.RevokeToken(ctx, 1), ErrNotFound)

	fresh, err := svc.ObtainToken(ctx, creds)
	require.NoError(t, err)
	assert.NotEqual(t, token.Key, fresh.Key)
	assert.Equal(t, 2, users.tokensCreated)
}

func TestAuthService_UserForTokenInactiveUser(t *testing.T) {
	users, svc := newAuthFixture(t)
	users.tokens[2] = &models.APIToken{Key: "stale-key", UserID: 2}

	_, err := svc.UserForToken(context.Background(), "stale-key")
	assert.ErrorIs(t, err, ErrAuthInactiveUser)
}

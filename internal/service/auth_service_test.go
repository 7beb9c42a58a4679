package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAuthService(t *testing.T, cfg AuthConfig) (*AuthService, *stores, *auth.TokenManager) {
	st := newStores(t)
	tokens := auth.NewTokenManager("test-secret-of-sufficient-length", "sensorhub", time.Hour)
	svc := NewAuthService(st.users, st.keys, tokens, auth.LocalVerifier{}, cfg, logger.Nop())
	svc.now = fixedNow
	return svc, st, tokens
}

func userWithPassword(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := auth.HashSecret(password)
	require.NoError(t, err)
	return &models.User{ID: "u-1", Username: "alice", TenantID: "acme", Role: string(auth.RoleTenantAdmin), PasswordHash: hash}
}

func TestAuthService_Login(t *testing.T) {
	svc, st, tokens := newAuthService(t, AuthConfig{})
	ctx := context.Background()

	st.users.EXPECT().GetByUsername(ctx, "alice").Return(userWithPassword(t, "s3cret"), nil)

	resp, err := svc.Login(ctx, &models.LoginRequest{Username: " alice ", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "acme", resp.TenantID)

	p, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.Subject)
	assert.Equal(t, auth.RoleTenantAdmin, p.Role)
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown_user", func(t *testing.T) {
		svc, st, _ := newAuthService(t, AuthConfig{})
		st.users.EXPECT().GetByUsername(ctx, "bob").Return(nil, repository.ErrNotFound)
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "bob", Password: "x"})
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("wrong_password", func(t *testing.T) {
		svc, st, _ := newAuthService(t, AuthConfig{})
		st.users.EXPECT().GetByUsername(ctx, "alice").Return(userWithPassword(t, "s3cret"), nil)
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "guess"})
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("store_down", func(t *testing.T) {
		svc, st, _ := newAuthService(t, AuthConfig{})
		st.users.EXPECT().GetByUsername(ctx, "alice").Return(nil, errors.New("conn refused"))
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "x"})
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	})

	t.Run("missing_fields", func(t *testing.T) {
		svc, _, _ := newAuthService(t, AuthConfig{})
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "alice"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("totp_required_not_enrolled", func(t *testing.T) {
		svc, st, _ := newAuthService(t, AuthConfig{RequireTOTP: true})
		st.users.EXPECT().GetByUsername(ctx, "alice").Return(userWithPassword(t, "s3cret"), nil)
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "s3cret"})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})
}

func TestAuthService_LoginWithTOTP(t *testing.T) {
	svc, st, _ := newAuthService(t, AuthConfig{})
	ctx := context.Background()

	key, err := auth.GenerateTOTP("SensorHub", "alice")
	require.NoError(t, err)
	user := userWithPassword(t, "s3cret")
	user.TOTPSecret = key.Secret()

	st.users.EXPECT().GetByUsername(ctx, "alice").Return(user, nil).Times(2)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "s3cret", TOTPCode: "000000"})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	code, err := auth.TOTPCode(key.Secret(), time.Now())
	require.NoError(t, err)
	_, err = svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "s3cret", TOTPCode: code})
	assert.NoError(t, err)
}

func TestAuthService_EnrollTOTP(t *testing.T) {
	svc, st, _ := newAuthService(t, AuthConfig{TOTPIssuer: "Hub"})
	ctx := context.Background()
	caller := &auth.Principal{Subject: "u-1", TenantID: "acme", Role: auth.RoleTenantAdmin}

	st.users.EXPECT().GetByUsername(ctx, "alice").Return(userWithPassword(t, "s3cret"), nil).Times(2)
	st.users.EXPECT().SetTOTPSecret(ctx, "u-1", gomock.Any()).Return(nil)

	resp, err := svc.EnrollTOTP(ctx, caller, &models.LoginRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Secret)
	assert.True(t, strings.HasPrefix(resp.URL, "otpauth://totp/Hub:alice"))

	_, err = svc.EnrollTOTP(ctx, acmeAdmin, &models.LoginRequest{Username: "alice", Password: "s3cret"})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err), "cannot enroll someone else")
}

func TestAuthService_APIKeys(t *testing.T) {
	svc, st, _ := newAuthService(t, AuthConfig{})
	ctx := context.Background()

	var stored *models.APIKey
	st.keys.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, k *models.APIKey) error {
		stored = k
		return nil
	})

	resp, err := svc.CreateAPIKey(ctx, acmeAdmin, &models.CreateAPIKeyRequest{Name: "gateway-1"})
	require.NoError(t, err)

	id, secret, err := auth.SplitAPIKey(resp.Key)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, id)
	assert.Equal(t, "acme", stored.TenantID)
	assert.True(t, auth.CompareSecret(stored.SecretHash, secret))

	_, err = svc.CreateAPIKey(ctx, acmeViewer, &models.CreateAPIKeyRequest{Name: "x"})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = svc.CreateAPIKey(ctx, platformAdmin, &models.CreateAPIKeyRequest{Name: "x"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	st.keys.EXPECT().Revoke(ctx, "acme", "k-9", testNow).Return(repository.ErrNotFound)
	err = svc.RevokeAPIKey(ctx, acmeAdmin, "k-9")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	st.keys.EXPECT().List(ctx, "acme").Return([]models.APIKey{{ID: resp.ID}}, nil)
	keys, err := svc.ListAPIKeys(ctx, acmeAdmin)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

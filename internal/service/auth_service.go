package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
)

type AuthConfig struct {
	TOTPIssuer  string
	RequireTOTP bool
}

type AuthService struct {
	users    repository.UserStore
	keys     repository.APIKeyStore
	tokens   *auth.TokenManager
	verifier auth.PasswordVerifier
	cfg      AuthConfig
	log      *logger.Logger
	now      func() time.Time
}

func NewAuthService(
	users repository.UserStore,
	keys repository.APIKeyStore,
	tokens *auth.TokenManager,
	verifier auth.PasswordVerifier,
	cfg AuthConfig,
	log *logger.Logger,
) *AuthService {
	if cfg.TOTPIssuer == "" {
		cfg.TOTPIssuer = "SensorHub"
	}
	return &AuthService{
		users:    users,
		keys:     keys,
		tokens:   tokens,
		verifier: verifier,
		cfg:      cfg,
		log:      log.WithComponent("auth"),
		now:      time.Now,
	}
}

var errBadLogin = apperror.Unauthorized("invalid username or password")

// Login checks the password, and the TOTP code when the user enrolled one or
// the deployment requires it, then issues a session token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperror.Validation("username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Login failed for unknown user %q", username)
			return nil, errBadLogin
		}
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load user")
	}

	if err := s.verifier.Verify(ctx, user, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.log.Warn("Login failed for user %q", username)
			return nil, errBadLogin
		}
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to verify credentials")
	}

	if user.TOTPSecret != "" {
		if req.TOTPCode == "" || !auth.ValidateTOTP(req.TOTPCode, user.TOTPSecret) {
			s.log.Warn("Invalid TOTP code for user %q", username)
			return nil, apperror.Unauthorized("invalid or missing one-time code")
		}
	} else if s.cfg.RequireTOTP {
		return nil, apperror.Forbidden("two-factor enrollment is required for this account")
	}

	role := auth.Role(user.Role)
	if !role.Valid() || role == auth.RoleIngest {
		return nil, apperror.Forbidden("account role %q cannot sign in", user.Role)
	}

	token, expiresAt, err := s.tokens.Issue(auth.Principal{
		Subject:  user.ID,
		TenantID: user.TenantID,
		Role:     role,
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to issue token")
	}

	s.log.Info("User %q signed in", username)
	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		TenantID:  user.TenantID,
		Role:      user.Role,
	}, nil
}

// EnrollTOTP creates a new TOTP secret for the calling user and returns it
// with its provisioning URL. The password is checked again and any previous
// secret is replaced.
func (s *AuthService) EnrollTOTP(ctx context.Context, p *auth.Principal, req *models.LoginRequest) (*models.TOTPEnrollResponse, error) {
	if p.APIKeyID != "" {
		return nil, apperror.Forbidden("api keys cannot enroll two-factor")
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errBadLogin
		}
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load user")
	}
	if user.ID != p.Subject {
		return nil, apperror.Forbidden("two-factor can only be enrolled for yourself")
	}
	if err := s.verifier.Verify(ctx, user, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, errBadLogin
		}
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to verify credentials")
	}

	key, err := auth.GenerateTOTP(s.cfg.TOTPIssuer, user.Username)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to generate secret")
	}

	if err := s.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, storeError(err, "failed to save two-factor secret")
	}

	s.log.Info("User %q enrolled two-factor", user.Username)
	return &models.TOTPEnrollResponse{Secret: key.Secret(), URL: key.URL()}, nil
}

func requireKeyAdmin(p *auth.Principal) error {
	if !p.CanManage() {
		return apperror.Forbidden("only administrators can manage api keys")
	}
	if p.TenantID == "" {
		return apperror.Validation("api keys belong to a tenant")
	}
	return nil
}

// CreateAPIKey mints an ingest key for the caller's tenant. The plain key is
// only part of this response.
func (s *AuthService) CreateAPIKey(ctx context.Context, p *auth.Principal, req *models.CreateAPIKeyRequest) (*models.CreateAPIKeyResponse, error) {
	if err := requireKeyAdmin(p); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	gen, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to generate api key")
	}

	key := &models.APIKey{
		ID:         gen.ID,
		TenantID:   p.TenantID,
		Name:       name,
		SecretHash: gen.Hash,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, storeError(err, "failed to create api key")
	}

	s.log.Info("API key %s (%s) created for tenant %s", key.ID, name, key.TenantID)
	return &models.CreateAPIKeyResponse{
		ID:     key.ID,
		Name:   name,
		Key:    gen.Key,
		Notice: "Store this key now. It cannot be shown again.",
	}, nil
}

func (s *AuthService) ListAPIKeys(ctx context.Context, p *auth.Principal) ([]models.APIKey, error) {
	if err := requireKeyAdmin(p); err != nil {
		return nil, err
	}
	keys, err := s.keys.List(ctx, p.TenantID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to list api keys")
	}
	return keys, nil
}

func (s *AuthService) RevokeAPIKey(ctx context.Context, p *auth.Principal, id string) error {
	if err := requireKeyAdmin(p); err != nil {
		return err
	}
	if err := s.keys.Revoke(ctx, p.TenantID, id, s.now().UTC()); err != nil {
		return storeError(err, "api key %s not found", id)
	}
	s.log.Info("API key %s revoked for tenant %s", id, p.TenantID)
	return nil
}

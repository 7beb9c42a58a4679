package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/repository"
)

// Authenticator resolves the request principal from a bearer token or an
// API key header.
type Authenticator struct {
	tokens       *auth.TokenManager
	keys         repository.APIKeyStore
	apiKeyHeader string
	log          *logger.Logger
}

func NewAuthenticator(tokens *auth.TokenManager, keys repository.APIKeyStore, apiKeyHeader string, log *logger.Logger) *Authenticator {
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	return &Authenticator{
		tokens:       tokens,
		keys:         keys,
		apiKeyHeader: apiKeyHeader,
		log:          log,
	}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

var (
	errMissingCredentials = errors.New("Authorization header or API key required")
	errBadAuthorization   = errors.New("Invalid authorization format")
	errBadToken           = errors.New("Invalid or expired token")
	errBadAPIKey          = errors.New("Invalid API key")
)

func (a *Authenticator) authenticate(r *http.Request) (*auth.Principal, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return nil, errBadAuthorization
		}
		return a.parseToken(strings.TrimSpace(token))
	}

	if key := r.Header.Get(a.apiKeyHeader); key != "" {
		return a.verifyAPIKey(r.Context(), key)
	}

	return nil, errMissingCredentials
}

func (a *Authenticator) parseToken(token string) (*auth.Principal, error) {
	p, err := a.tokens.Parse(token)
	if err != nil {
		a.log.Debug("Rejected token: %v", err)
		return nil, errBadToken
	}
	return p, nil
}

func (a *Authenticator) verifyAPIKey(ctx context.Context, key string) (*auth.Principal, error) {
	id, secret, err := auth.SplitAPIKey(key)
	if err != nil {
		return nil, errBadAPIKey
	}

	stored, err := a.keys.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			a.log.Error("Failed to load api key %s: %v", id, err)
		}
		return nil, errBadAPIKey
	}
	if stored.RevokedAt != nil || !auth.CompareSecret(stored.SecretHash, secret) {
		return nil, errBadAPIKey
	}

	if err := a.keys.Touch(ctx, id, time.Now().UTC()); err != nil {
		a.log.Warn("Failed to record api key use %s: %v", id, err)
	}

	return &auth.Principal{
		Subject:  "apikey:" + stored.Name,
		TenantID: stored.TenantID,
		Role:     auth.RoleIngest,
		APIKeyID: stored.ID,
	}, nil
}

// Principal authenticates a raw bearer token, for transports such as the
// websocket upgrade that cannot send headers from a browser.
func (a *Authenticator) Principal(token string) (*auth.Principal, error) {
	return a.parseToken(token)
}

// RequireRole answers 403 unless the principal holds one of roles.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, errMissingCredentials.Error())
				return
			}
			if !p.Can(roles...) {
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SharedSecret guards machine endpoints such as cron triggers. The secret is
// read from header or, failing that, the "secret" query parameter.
func SharedSecret(header, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(header)
			if got == "" {
				got = r.URL.Query().Get("secret")
			}

			if secret == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				writeError(w, http.StatusUnauthorized, "Invalid or missing cron secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(logger.Config{Level: logger.INFO, Mode: logger.MINIMAL, Output: &buf})
	require.NoError(t, err)

	var seen string
	r := mux.NewRouter()
	r.Use(RequestLogger(log))
	r.HandleFunc("/devices/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/devices/abc", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	id := rec.Header().Get(RequestIDHeader)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, seen)
	assert.Contains(t, buf.String(), "GET /devices/abc 418")

	// A valid incoming id is propagated.
	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/devices/abc", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Header().Get(RequestIDHeader))
}

func TestRecovery_HidesPanicValue(t *testing.T) {
	h := Recovery(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("db password is hunter2")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

type denyAfter struct{ n int }

func (d *denyAfter) Allow(string) bool {
	d.n--
	return d.n >= 0
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(&denyAfter{n: 1})(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.test"}, []string{"GET", "POST"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST", rec.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSharedSecret(t *testing.T) {
	h := SharedSecret("X-Cron-Secret", "s3cret")(okHandler)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{name: "header", header: "s3cret", want: http.StatusOK},
		{name: "query", query: "?secret=s3cret", want: http.StatusOK},
		{name: "missing", want: http.StatusUnauthorized},
		{name: "wrong", header: "nope", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cron"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("X-Cron-Secret", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	SharedSecret("X-Cron-Secret", "")(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cron", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "an unset secret never authorizes")
}

func TestAuthenticator(t *testing.T) {
	ctrl := gomock.NewController(t)
	keys := repository.NewMockAPIKeyStore(ctrl)
	tokens := auth.NewTokenManager("0123456789abcdef", "sensorhub", time.Hour)
	a := NewAuthenticator(tokens, keys, "X-API-Key", logger.Nop())

	generated, err := auth.GenerateAPIKey()
	require.NoError(t, err)
	revoked := time.Now()

	token, _, err := tokens.Issue(auth.Principal{Subject: "u-1", TenantID: "acme", Role: auth.RoleViewer})
	require.NoError(t, err)

	var got *auth.Principal
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
	}))

	tests := []struct {
		name     string
		setup    func(req *http.Request)
		want     int
		wantRole auth.Role
	}{
		{
			name:  "no credentials",
			setup: func(*http.Request) {},
			want:  http.StatusUnauthorized,
		},
		{
			name:     "bearer token",
			setup:    func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) },
			want:     http.StatusOK,
			wantRole: auth.RoleViewer,
		},
		{
			name:  "basic scheme",
			setup: func(req *http.Request) { req.Header.Set("Authorization", "Basic abc") },
			want:  http.StatusUnauthorized,
		},
		{
			name: "valid api key",
			setup: func(req *http.Request) {
				keys.EXPECT().GetByID(gomock.Any(), generated.ID).
					Return(&models.APIKey{ID: generated.ID, TenantID: "acme", Name: "gw", SecretHash: generated.Hash}, nil)
				keys.EXPECT().Touch(gomock.Any(), generated.ID, gomock.Any()).Return(errors.New("ignored"))
				req.Header.Set("X-API-Key", generated.Key)
			},
			want:     http.StatusOK,
			wantRole: auth.RoleIngest,
		},
		{
			name: "revoked api key",
			setup: func(req *http.Request) {
				keys.EXPECT().GetByID(gomock.Any(), generated.ID).
					Return(&models.APIKey{ID: generated.ID, TenantID: "acme", SecretHash: generated.Hash, RevokedAt: &revoked}, nil)
				req.Header.Set("X-API-Key", generated.Key)
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "unknown api key",
			setup: func(req *http.Request) {
				keys.EXPECT().GetByID(gomock.Any(), generated.ID).Return(nil, repository.ErrNotFound)
				req.Header.Set("X-API-Key", generated.Key)
			},
			want: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				require.NotNil(t, got)
				assert.Equal(t, tt.wantRole, got.Role)
				assert.Equal(t, "acme", got.TenantID)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(auth.RoleTenantAdmin, auth.RolePlatformAdmin)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), &auth.Principal{TenantID: "acme", Role: auth.RoleViewer}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), &auth.Principal{TenantID: "acme", Role: auth.RoleTenantAdmin}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

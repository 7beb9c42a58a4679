package auth

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"SensorHubAPI/internal/config"
	"SensorHubAPI/internal/models"

	"github.com/go-ldap/ldap/v3"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// PasswordVerifier checks a user's password.
type PasswordVerifier interface {
	Verify(ctx context.Context, user *models.User, password string) error
}

// HashSecret returns the bcrypt hash stored for passwords and API key secrets.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CompareSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// LocalVerifier compares against the bcrypt hash kept on the user row.
type LocalVerifier struct{}

func (LocalVerifier) Verify(_ context.Context, user *models.User, password string) error {
	if user.PasswordHash == "" || !CompareSecret(user.PasswordHash, password) {
		return ErrInvalidCredentials
	}
	return nil
}

// LDAPVerifier authenticates with a simple bind as the user's DN.
type LDAPVerifier struct {
	cfg  config.LDAPConfig
	dial func(addr string, opts ...ldap.DialOpt) (ldapConn, error)
}

type ldapConn interface {
	StartTLS(*tls.Config) error
	Bind(username, password string) error
	Close() error
}

func NewLDAPVerifier(cfg config.LDAPConfig) *LDAPVerifier {
	return &LDAPVerifier{
		cfg: cfg,
		dial: func(addr string, opts ...ldap.DialOpt) (ldapConn, error) {
			return ldap.DialURL(addr, opts...)
		},
	}
}

func (v *LDAPVerifier) Verify(_ context.Context, user *models.User, password string) error {
	// An empty password would be an unauthenticated bind and always succeed.
	if password == "" {
		return ErrInvalidCredentials
	}

	timeout := v.cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	conn, err := v.dial(v.cfg.URL, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
	if err != nil {
		return fmt.Errorf("failed to connect to ldap: %w", err)
	}
	defer conn.Close()

	if v.cfg.StartTLS {
		host := v.cfg.URL
		if u, err := url.Parse(v.cfg.URL); err == nil {
			host = u.Hostname()
		}
		if err := conn.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return fmt.Errorf("failed to start tls: %w", err)
		}
	}

	dn := fmt.Sprintf(v.cfg.BindTemplate, ldap.EscapeDN(user.Username))
	if err := conn.Bind(dn, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("ldap bind failed: %w", err)
	}
	return nil
}

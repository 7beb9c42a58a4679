package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrMalformedAPIKey = errors.New("malformed api key")

// GeneratedKey is a freshly minted API key. Key is shown to the caller once;
// only Hash is stored.
type GeneratedKey struct {
	ID   string
	Key  string
	Hash string
}

// GenerateAPIKey returns a key of the form "<id>.<secret>".
func GenerateAPIKey() (*GeneratedKey, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	secret := hex.EncodeToString(buf)

	hash, err := HashSecret(secret)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	return &GeneratedKey{ID: id, Key: id + "." + secret, Hash: hash}, nil
}

// SplitAPIKey separates a presented key into its id and secret.
func SplitAPIKey(key string) (id, secret string, err error) {
	id, secret, ok := strings.Cut(key, ".")
	if !ok || id == "" || secret == "" {
		return "", "", ErrMalformedAPIKey
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", "", ErrMalformedAPIKey
	}
	return id, secret, nil
}

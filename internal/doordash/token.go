package doordash

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 5 * time.Minute

var ErrNotConfigured = errors.New("doordash credentials not configured")

type Credentials struct {
	DeveloperId   string
	KeyId         string
	SigningSecret string
}

func (c Credentials) Valid() bool {
	return c.DeveloperId != "" && c.KeyId != "" && c.SigningSecret != ""
}

// Token builds the short-lived HS256 token the Drive API expects; the signing
// secret is issued base64 encoded and must be decoded before use
func Token(creds Credentials, now time.Time) (string, error) {
	if !creds.Valid() {
		return "", ErrNotConfigured
	}
	key, err := decodeSecret(creds.SigningSecret)
	if err != nil {
		return "", fmt.Errorf("decode signing secret: %w", err)
	}
	claims := jwt.MapClaims{
		"aud": "doordash",
		"iss": creds.DeveloperId,
		"kid": creds.KeyId,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["dd-ver"] = "DD-JWT-V1"
	return token.SignedString(key)
}

// decodeSecret accepts both the standard and the url-safe alphabet, padded or not
func decodeSecret(secret string) ([]byte, error) {
	s := strings.TrimRight(strings.TrimSpace(secret), "=")
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)
	return base64.RawStdEncoding.DecodeString(s)
}

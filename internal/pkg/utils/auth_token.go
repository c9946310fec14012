package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/spf13/viper"
)

// AuthTokenWrapper is the payload of the admin cookie.
type AuthTokenWrapper struct {
	jwt.StandardClaims
	Secret string `json:"secret"`
}

// GenerateAuthToken signs w with the configured secret. A zero expiry is
// replaced with ttl from now.
func GenerateAuthToken(w *AuthTokenWrapper, ttl time.Duration) (string, error) {
	if w.ExpiresAt == 0 && ttl > 0 {
		w.ExpiresAt = time.Now().Add(ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, w)
	signed, err := token.SignedString(signingKey())
	if err != nil {
		return "", fmt.Errorf("SignedString: %w", err)
	}
	return signed, nil
}

func ParseAuthToken(raw string) (*AuthTokenWrapper, error) {
	var claims AuthTokenWrapper
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return signingKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, constants.ErrUnauthorized
	}
	return &claims, nil
}

func signingKey() []byte {
	return []byte(viper.GetString(constants.ViperSecretKey))
}

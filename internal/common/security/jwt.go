package security

import (
	"errors"
	"fmt"
	"time"

	"messagely/internal/common"
	"messagely/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

var tokenExpiry time.Duration

func InitJWT() {
	InitJWTWithKey(config.AppConfig.JWTKey, config.AppConfig.JWTExp)
}

// InitJWTWithKey wires the signing key directly, bypassing config. The key is
// set once at startup and never rotated while the process runs.
func InitJWTWithKey(key []byte, expiry time.Duration) {
	TokenAuth = jwtauth.New("HS256", key, nil)
	tokenExpiry = expiry
}

// GenerateToken issues a signed session token binding the given username.
func GenerateToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenExpiry).Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// VerifyToken checks the signature (and expiry, if present) and returns the
// username the token was issued for.
func VerifyToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	raw, ok := token.Get("username")
	if !ok {
		return "", fmt.Errorf("%w: username claim is missing", common.ErrInvalidToken)
	}
	username, ok := raw.(string)
	if !ok || username == "" {
		return "", fmt.Errorf("%w: username claim is not a string", common.ErrInvalidToken)
	}
	return username, nil
}

// GetUsernameFromClaims extracts the username claim, for use in middleware
// after jwtauth has verified the token.
func GetUsernameFromClaims(claims jwt.MapClaims) (string, error) {
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", errors.New("username claim is missing or not a string")
	}
	return username, nil
}

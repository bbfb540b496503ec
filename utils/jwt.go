package utils

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt"

	"mindhaven/config"
)

// Session tokens are issued by the external session-management service; this
// side only verifies the shared-secret signature and extracts the subject.
// No token creation or refresh happens here.

func sessionSecret() []byte {
	if config.AppConfig.SessionJWTSecret != "" {
		return []byte(config.AppConfig.SessionJWTSecret)
	}
	return []byte(os.Getenv("SESSION_JWT_SECRET"))
}

// ValidateSessionToken parses and validates a session token string.
func ValidateSessionToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sessionSecret(), nil
	})
}

// ExtractViewerIDFromToken extracts the viewer ID (subject) from a valid
// session token.
func ExtractViewerIDFromToken(tokenString string) (string, error) {
	token, err := ValidateSessionToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}

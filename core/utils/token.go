package utils

import (
	"fmt"
	"strings"

	"meetsync/core/config"
	"meetsync/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenClaims are the JWT claims issued by the identity service.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Scope  string    `json:"scope"`
	jwt.RegisteredClaims
}

// GetTokenFromHeader extracts the bearer token from the Authorization header.
func GetTokenFromHeader(c echo.Context) (string, *errors.AppError) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", errors.NewAppError(errors.ErrMissingAuthorizationHeader, "Missing Authorization header", nil)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.NewAppError(errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token", nil)
	}

	return parts[1], nil
}

// ValidateAndParseToken verifies the signature and expiry of a JWT and
// returns its claims.
func ValidateAndParseToken(tokenString string) (*TokenClaims, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Server configuration not initialized", nil)
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})

	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "Token has expired", err)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token", err)
	}

	if !token.Valid {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token", nil)
	}

	return claims, nil
}

package utils

import (
	"fmt"
	"time"

	"studio-api/core/config"
	"studio-api/core/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims are the JWT claims carried by access tokens.
type TokenClaims struct {
	UserID    uuid.UUID  `json:"user_id"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Role      *string    `json:"role,omitempty"`
	Scope     string     `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateToken signs a JWT for the given user. CompanyID and role are nil
// for tokens issued before the user joins a company.
func GenerateToken(userID uuid.UUID, companyID *uuid.UUID, role *string, scope string) (string, error) {
	cfg := config.Get()

	expiry := time.Duration(cfg.JWT.ExpiryHours) * time.Hour
	if scope == constants.ScopeTokenResetPassword {
		expiry = 15 * time.Minute
	}

	claims := &TokenClaims{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		Scope:     scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateAndParseToken verifies the signature and expiry and returns claims.
func ValidateAndParseToken(tokenString string) (*TokenClaims, error) {
	cfg := config.Get()

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

package utils

import (
	"fmt"
	"time"

	"walletapi/internal/config"
	"walletapi/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken issues a signed access token for the user. The signing secret
// comes from the JWT_SECRET environment variable.
func GenerateToken(user *models.User) (string, error) {
	ttl := config.GetDurationEnv("JWT_TTL", 24*time.Hour)

	claims := &models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.GetEnv("JWT_SECRET", "")))
}

// ParseToken validates a signed access token and returns its claims.
func ParseToken(tokenString string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.GetEnv("JWT_SECRET", "")), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

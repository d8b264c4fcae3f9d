package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the subject identity and the scope it was issued for.
// Role and TenantID are hints; the identity provider re-reads both from the
// user record before trusting them.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string
	TenantID string `json:",omitempty"`
	Role     models.Role
}

// GenerateToken signs an HS256 access token for the given subject.
func GenerateToken(userID string, tenantID *string, role models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
		UserID: userID,
		Role:   role,
	}
	if tenantID != nil {
		c.TenantID = *tenantID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns its claims. Expired tokens
// yield common.ErrTokenExpired, anything else invalid common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

package services

import (
	"errors"
	"time"

	"qnabank/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	FullName     string `json:"fullName"`
	RolePosition string `json:"rolePosition"`
	jwt.RegisteredClaims
}

// Authentication is the stateless token/projection utility. The signing
// secret is injected once at construction, never read from the ambient
// environment.
type Authentication struct {
	secret string
}

func NewAuthentication(secret string) (*Authentication, error) {
	if secret == "" {
		return nil, errors.New("missing signing secret")
	}
	return &Authentication{secret}, nil
}

// CreateToken signs a 24h token for user. Sensitive fields stay out of the
// claims. A nil user yields an empty token.
func (authentication *Authentication) CreateToken(user *models.User) (string, error) {
	if user == nil {
		return "", nil
	}

	claims := CustomClaims{
		FullName:     user.FullName,
		RolePosition: user.RolePosition,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TOKEN_TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authentication.secret))
}

func (authentication *Authentication) Validate(token string) (*models.PublicUser, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(authentication.secret), nil
	}
	jwtToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return &models.PublicUser{
		ID:           claims.Subject,
		FullName:     claims.FullName,
		RolePosition: claims.RolePosition,
	}, nil
}

// PublicUser projects the reduced client-facing view. A nil user yields nil.
func PublicUser(user *models.User) *models.PublicUser {
	if user == nil {
		return nil
	}

	return &models.PublicUser{
		ID:           user.ID,
		FullName:     user.FullName,
		RolePosition: user.RolePosition,
	}
}

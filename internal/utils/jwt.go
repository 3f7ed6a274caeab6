package utils

import (
	"errors"
	"strconv"
	"time"

	"agency/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	tokenIssuer = "agency-api"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager signs and verifies HS256 tokens with a single secret.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret not configured")
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  15 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
		now:        time.Now,
	}, nil
}

// GenerateTokens generates an access token and a refresh token for the given user claims.
func (m *TokenManager) GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	accessToken, err = m.sign(claims, TokenTypeAccess, m.accessTTL, claims.Permissions)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = m.sign(claims, TokenTypeRefresh, m.refreshTTL, nil)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (m *TokenManager) sign(claims *models.UserClaims, tokenType string, ttl time.Duration, permissions []string) (string, error) {
	now := m.now()
	signed := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		Permissions:  permissions,
		TokenVersion: claims.TokenVersion,
		TokenType:    tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, signed).SignedString(m.secret)
}

// ParseToken validates tokenStr and checks it is of the expected type.
func (m *TokenManager) ParseToken(tokenStr, tokenType string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid || claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

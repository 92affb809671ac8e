package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService handles JWT token creation and validation for the vault.
type TokenService struct {
	secretKey []byte

	// TokenDuration controls how long issued tokens stay valid.
	TokenDuration time.Duration
}

// Token represents an issued access token
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"` // "Bearer"
}

// JWTClaims represents the claims in our JWT tokens
type JWTClaims struct {
	jwt.RegisteredClaims
}

// NewTokenService creates a new token service
func NewTokenService(secretKey string, tokenDuration time.Duration) *TokenService {
	if tokenDuration <= 0 {
		tokenDuration = 30 * time.Minute
	}
	return &TokenService{
		secretKey:     []byte(secretKey),
		TokenDuration: tokenDuration,
	}
}

// CreateToken issues a signed JWT granting access to the vault
func (ts *TokenService) CreateToken() (*Token, error) {
	expiresAt := time.Now().Add(ts.TokenDuration)

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "memories",
			Subject:   "vault",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtString, err := token.SignedString(ts.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &Token{
		AccessToken: jwtString,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// ValidateToken validates a JWT access token and returns its claims
func (ts *TokenService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

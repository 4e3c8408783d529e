package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/campuspulse/campus-events-api/internal/config"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// AuthInput is embedded by admin operations; the token comes from
// POST /api/auth/login.
type AuthInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token for staff operations"`
}

type LoginInput struct {
	Body struct {
		APIKey string `json:"api_key" required:"true" doc:"Configured admin API key"`
	}
}

type LoginOutput struct {
	Body struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
}

// HandleLogin exchanges the configured admin key for a signed token. The
// key lives in configuration only, never in code.
func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if h.cfg.AdminAPIKey == "" {
		return nil, huma.Error401Unauthorized("Admin access is not configured")
	}
	if subtle.ConstantTimeCompare([]byte(input.Body.APIKey), []byte(h.cfg.AdminAPIKey)) != 1 {
		return nil, huma.Error401Unauthorized("Invalid API key")
	}

	expiresAt := time.Now().Add(TokenDuration)
	token, err := h.GenerateToken(expiresAt)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginOutput{}
	res.Body.Token = token
	res.Body.ExpiresAt = expiresAt
	return res, nil
}

func (h *AuthHandler) GenerateToken(expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Authorize validates the bearer token carried by an admin operation.
func (h *AuthHandler) Authorize(ctx context.Context, authorization string) error {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return huma.Error401Unauthorized("Unauthorized: No token found")
	}
	tokenString := strings.TrimPrefix(authorization, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return huma.Error401Unauthorized("Unauthorized: Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return huma.Error401Unauthorized("Unauthorized: Invalid token claims")
	}

	return nil
}

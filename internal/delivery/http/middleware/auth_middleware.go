package middleware

import (
	"errors"
	"strings"

	"intern-match/internal/pkg/jwt"
	"intern-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const CtxCandidateIDKey = "candidate_id"

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return unauthorized("Unauthorized", nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return unauthorized("Token expired", err)
			}
			return unauthorized("Invalid token", err)
		}

		c.Locals(CtxCandidateIDKey, claims.CandidateID)
		return c.Next()
	}
}

func unauthorized(msg string, cause error) error {
	return NewAppError(fiber.StatusUnauthorized, msg, nil, cause).WithCode(response.CodeUnauthorized)
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

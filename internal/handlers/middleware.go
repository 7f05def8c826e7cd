package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/config"
	"gitlab.com/examcore-2026.net/internal/handlers/response"
)

type contextKey string

const userIDKey contextKey = "userID"

type MiddlewareProvider struct {
	SecretOption string
}

func New(jwtConfig *config.JwtConfig) *MiddlewareProvider {
	return &MiddlewareProvider{
		SecretOption: jwtConfig.Secret,
	}
}

func (m *MiddlewareProvider) secret() []byte {
	return []byte(m.SecretOption)
}

// JWTMiddleware verifies the bearer token and injects the caller's user id
// into the request context. Authentication itself lives elsewhere; this is
// only the trust boundary of the grading API.
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.WriteError(w, http.StatusUnauthorized, "NO_AUTH_HEADER", "No authorization header provided")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return m.secret(), nil
		})
		if err != nil || !token.Valid {
			response.WriteError(w, http.StatusUnauthorized, "AUTH_ERROR", "Authentication failed")
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			response.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			response.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext extracts the authenticated caller set by JWTMiddleware
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// ContextWithUserID attaches a user id the way the middleware does; used by
// handler tests to bypass token verification.
func ContextWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

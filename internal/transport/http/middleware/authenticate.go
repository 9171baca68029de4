package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-auth-service/internal/service"
	"github.com/pribylovaa/go-auth-service/internal/transport/http/apierrors"

	"github.com/google/uuid"
)

// TokenValidator — контракт проверки access-токена (реализуется сервисным слоем).
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (uuid.UUID, string, error)
}

// Identity — проверенная личность запроса (результат валидации access-токена).
type Identity struct {
	UserID   uuid.UUID
	Username string
}

type identityKey struct{}

// IdentityFrom достаёт проверенную личность из контекста.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Authenticate извлекает Bearer-токен из Authorization, валидирует его
// и кладёт Identity в контекст. Без валидного токена — 401.
func Authenticate(v TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			uid, username, err := v.ValidateToken(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, Identity{
				UserID:   uid,
				Username: username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken достаёт токен из "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if auth == "" || !strings.HasPrefix(auth, prefix) || len(auth) <= len(prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}

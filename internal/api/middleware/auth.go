package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/domain"
)

const (
	headerUserID = "X-User-ID"
	headerRole   = "X-User-Role"
)

type actorCtxKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает вызывающего из заголовков, проставленных API-шлюзом.
// Сервис доверяет шлюзу: проверка подписи токена происходит до нас.
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("Auth: missing or invalid %s header: %q", headerUserID, r.Header.Get(headerUserID))
				handlers.RespondError(w, http.StatusUnauthorized, "не указан идентификатор пользователя")
				return
			}

			role := domain.Role(r.Header.Get(headerRole))
			if !role.IsValid() {
				logger.Warn("Auth: missing or invalid %s header: %q", headerRole, r.Header.Get(headerRole))
				handlers.RespondError(w, http.StatusUnauthorized, "не указана роль пользователя")
				return
			}

			actor := domain.Actor{UserID: userID, Role: role}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// WithActor кладет вызывающего в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// ActorFromContext возвращает вызывающего из контекста запроса
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey{}).(domain.Actor)
	return actor, ok
}

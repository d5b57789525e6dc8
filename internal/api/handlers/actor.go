package handlers

import (
	"context"
	"net/http"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

const msgUnauthorized = "требуется аутентификация"

type actorKey struct{}

// WithActor кладет инициатора запроса в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext возвращает инициатора, установленного middleware.Auth
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// RequireActor возвращает инициатора или отвечает 401
func RequireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		RespondUnauthorized(w, msgUnauthorized)
	}
	return actor, ok
}

package http

import (
	"context"

	"biliran-rental-backend/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// WithActor stores the authenticated caller on the request context.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the caller set by the auth middleware. Public
// routes carry no actor.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

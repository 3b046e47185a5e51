package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type contextKey string

const actorKey contextKey = "actor"

// identityMiddleware resolves the X-User-Id header (a credential public id)
// to an internal profile id and stashes it on the request context. Requests
// without the header pass through; protected handlers reject them later.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if credentialID := r.Header.Get("X-User-Id"); credentialID != "" {
			actorID, err := s.service.ResolveActor(credentialID)
			if err == nil {
				r = r.WithContext(context.WithValue(r.Context(), actorKey, actorID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// actor returns the authenticated profile id or a 401.
func actor(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(actorKey).(int64)
	if !ok {
		return 0, huma.Error401Unauthorized("authentication required")
	}
	return id, nil
}

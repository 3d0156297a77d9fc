package server

import (
	"context"
	"net/http"
	"strings"

	"blog-platform/internal/authz"
	"blog-platform/internal/types"

	"github.com/go-chi/jwtauth/v5"
)

type key int

const (
	actorKey key = iota
)

func WithActor(ctx context.Context, actor *authz.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns nil for anonymous requests.
func ActorFromContext(ctx context.Context) *authz.Actor {
	actor, _ := ctx.Value(actorKey).(*authz.Actor)
	return actor
}

// Authenticate reads the token from the Authorization header, falling back
// to the jwt cookie set at login. A request with neither continues
// anonymously; a token that is present but fails verification ends the
// request here.
func (s *Server) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			token = jwtauth.TokenFromCookie(r)
		}
		if strings.TrimSpace(token) == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), claims.Actor())))
	})
}

func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ActorFromContext(r.Context()) == nil {
			writeError(w, r, types.ErrMissingToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}

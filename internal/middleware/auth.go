package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/pkg/jwt"
	"github.com/moim/moim-api/internal/pkg/response"
)

type contextKey string

const ActorKey contextKey = "actor"

// Auth returns middleware that validates the JWT and resolves the actor
// context. Requests without a valid token are rejected.
func Auth(jwtService *jwt.Service, resolver *policy.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := parseBearer(jwtService, r)
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			actor, err := resolver.Resolve(r.Context(), claims.UserID, claims.Role)
			if err != nil {
				response.InternalError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
		})
	}
}

// OptionalAuth resolves the actor context when a valid token is present and
// degrades to the guest actor otherwise. A missing, malformed, or expired
// token is never an error here: anonymous browsing of public listings must
// keep working.
func OptionalAuth(jwtService *jwt.Service, resolver *policy.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := parseBearer(jwtService, r)
			if !ok {
				next.ServeHTTP(w, r.WithContext(withActor(r.Context(), resolver.Guest())))
				return
			}

			actor, err := resolver.Resolve(r.Context(), claims.UserID, claims.Role)
			if err != nil {
				response.InternalError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
		})
	}
}

func parseBearer(jwtService *jwt.Service, r *http.Request) (*jwt.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, false
	}

	claims, err := jwtService.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

func withActor(ctx context.Context, actor *policy.ActorContext) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActor extracts the actor context, defaulting to guest
func GetActor(ctx context.Context) *policy.ActorContext {
	if actor, ok := ctx.Value(ActorKey).(*policy.ActorContext); ok {
		return actor
	}
	return policy.Guest()
}

// RequireAdmin returns middleware that checks the resolved actor's role
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetActor(r.Context()).IsAdmin() {
				response.Forbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"collabnest/backend/logging"
	"collabnest/backend/models"
	"collabnest/backend/utils"
)

type contextKey string

const actorKey contextKey = "actor"

// JWTAuthMiddleware proverava Bearer token i smešta aktera u context zahteva.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		actor, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, *actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext vraća aktera koga je postavio JWTAuthMiddleware.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok
}

// WithActor postavlja aktera u context; koristi se iz testova.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// RequireRoles propušta zahtev samo ako akter ima jednu od navedenih rola.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			logging.Logger.Warnf("Event ID: ROLE_CHECK_FORBIDDEN, Description: Role '%s' not allowed for %s %s", actor.Role, r.Method, r.URL.Path)
			http.Error(w, "Access denied: insufficient permissions", http.StatusForbidden)
		})
	}
}

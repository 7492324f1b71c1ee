package middleware

import (
	"context"
	"net/http"
	"strings"

	"fileshare/internal/model"
	"fileshare/internal/pkg/auth"
	"fileshare/internal/pkg/httputils"
	"fileshare/internal/repository"
	"fileshare/internal/service"
)

type contextKey string

const (
	userKey  contextKey = "currentUser"
	tokenKey contextKey = "sessionToken"
)

type AuthMiddleware struct {
	authn       *auth.Authenticator
	userService service.UserService
	sessions    repository.SessionCacheRepository // optional
}

func NewAuthMiddleware(authn *auth.Authenticator, userService service.UserService, sessions repository.SessionCacheRepository) *AuthMiddleware {
	return &AuthMiddleware{authn: authn, userService: userService, sessions: sessions}
}

func (mw *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.Header.Get("Authorization"), " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputils.ResponseError(w, http.StatusUnauthorized, "'Authorization' header is missing or malformed")
			return
		}
		token := parts[1]

		claims, err := mw.authn.ValidateToken(token)
		if err != nil {
			httputils.ResponseError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if mw.sessions != nil {
			blocked, err := mw.sessions.IsTokenBlocked(r.Context(), token)
			if err != nil || blocked {
				httputils.ResponseError(w, http.StatusUnauthorized, "Session is no longer valid")
				return
			}
		}

		user, err := mw.userService.GetUserByID(claims.UserID)
		if err != nil {
			httputils.ResponseError(w, http.StatusUnauthorized, "Unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	domuser "example.com/storefront/internal/domain/user"
)

type ctxKey struct{}

// tokenCookie carries the access token for browser clients.
const tokenCookie = "token"

var (
	ctxUserKey         = ctxKey{}
	errUnauthenticated = errors.New("unauthenticated")
	errForbidden       = errors.New("forbidden")
)

type authUser struct {
	ID       string
	RoleCode domuser.RoleCode
	Email    string
	Name     string
}

// bearerToken prefers the Authorization header and falls back to the cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(tokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.authenticate(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey, user)))
	})
}

// optionalAuth identifies the reader when a valid token comes along and
// serves the request anonymously otherwise.
func (a *API) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := a.authenticate(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) authenticate(r *http.Request) (*authUser, bool) {
	token := bearerToken(r)
	if token == "" {
		return nil, false
	}
	claims, err := a.tokenSvc.ParseToken(token)
	if err != nil {
		return nil, false
	}

	hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("user_id", claims.UserID)
	})
	return &authUser{
		ID:       claims.UserID,
		RoleCode: claims.RoleCode,
		Email:    claims.Email,
		Name:     claims.Name,
	}, true
}

func (a *API) requireRoles(roles ...domuser.RoleCode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := getAuthUser(r.Context())
			if user == nil {
				respondError(w, http.StatusUnauthorized, errUnauthenticated)
				return
			}
			for _, role := range roles {
				if user.RoleCode == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, errForbidden)
		})
	}
}

func getAuthUser(ctx context.Context) *authUser {
	if user, ok := ctx.Value(ctxUserKey).(*authUser); ok {
		return user
	}
	return nil
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nairobitech/duka/pkg/auth"
	"github.com/nairobitech/duka/pkg/response"
	"github.com/nairobitech/duka/pkg/session"
)

// Principal is the resolved identity of the caller.
type Principal struct {
	ID    string
	Email string
	Role  string
}

// PrincipalLoader resolves the user id stored in a session or token to a
// Principal. It must return an error when the user no longer exists.
type PrincipalLoader func(userID string) (Principal, error)

type principalKey struct{}

// Auth authenticates the request and injects the Principal into context.
//
// Resolution order:
//  1. session cookie — the session's user_id is loaded through the loader;
//     a session whose user was deleted is destroyed and rejected.
//  2. Authorization: Bearer <jwt> — for non-browser clients.
//
// Requests that resolve neither way get a 401.
func Auth(load PrincipalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromCtx(r)

			if uid, ok := sess.GetString("user_id"); ok && uid != "" {
				p, err := load(uid)
				if err != nil {
					// Dangling session: the account behind it is gone.
					_ = sess.Destroy(w)
					response.Unauthorized(w)
					return
				}
				next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
				return
			}

			if token := bearerToken(r); token != "" {
				claims, err := auth.ValidateToken(token)
				if err != nil {
					response.Unauthorized(w)
					return
				}
				p, err := load(claims.UserID)
				if err != nil {
					response.Unauthorized(w)
					return
				}
				next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
				return
			}

			response.Unauthorized(w)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromCtx returns the authenticated caller, if any.
func PrincipalFromCtx(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey{}).(Principal)
	return p, ok
}

// UserIDFromCtx returns the authenticated caller's user id.
func UserIDFromCtx(r *http.Request) (string, bool) {
	p, ok := PrincipalFromCtx(r)
	return p.ID, ok
}

// RoleFromCtx returns the authenticated caller's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	p, ok := PrincipalFromCtx(r)
	return p.Role, ok
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nairobitech/duka/config"
)

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	// AllowedOrigins lists acceptable Origin values. "*" allows any origin
	// but disables credentials, which breaks cookie sessions; list the
	// storefront origins explicitly in production.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// AllowCredentials must be true for the session cookie to survive
	// cross-origin fetches from the storefront SPA.
	AllowCredentials bool
	MaxAge           int // preflight cache, seconds
}

// DefaultCORSOptions reads CORS_ALLOWED_ORIGINS (comma separated) from
// config and falls back to "*" for local development.
func DefaultCORSOptions() CORSOptions {
	origins := strings.Split(config.Get("CORS_ALLOWED_ORIGINS", "*"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return CORSOptions{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: len(origins) > 0 && origins[0] != "*",
		MaxAge:           300,
	}
}

// CORS returns a middleware that answers preflights and stamps
// Cross-Origin Resource Sharing headers on every response.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")

	allowAny := false
	allowed := map[string]bool{}
	for _, o := range opts.AllowedOrigins {
		if o == "*" {
			allowAny = true
			continue
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case origin == "":
				// Same-origin or non-browser client, nothing to do.
			case allowAny && !opts.AllowCredentials:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				// Echo the origin so the response stays cacheable per origin.
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				if opts.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if w.Header().Get("Access-Control-Allow-Origin") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if opts.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Package session provides cookie-based HTTP sessions over a pluggable
// server-side store (database table by default, Redis optional).
//
// Usage (middleware):
//
//	r.Use(session.Middleware(session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("user_id", user.ID)
//	sess.Save(w)
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions suits the storefront: a week-long lax cookie so carts
// survive a browser restart. Set Secure behind TLS.
func DefaultOptions() Options {
	return Options{
		CookieName: "duka_session",
		TTL:        7 * 24 * time.Hour,
		HTTPOnly:   true,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// Session is an in-request session handle. It tracks mutations and only
// touches the store on Save.
type Session struct {
	id      string
	data    map[string]interface{}
	opts    Options
	store   Store
	fresh   bool // no cookie was presented; nothing persisted yet
	changed bool
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Fresh reports whether this session was created for the current request
// (the client presented no cookie, or an unknown one).
func (s *Session) Fresh() bool { return s.fresh }

// Set stores a value under key in the session.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString is a typed convenience getter.
func (s *Session) GetString(key string) (string, bool) {
	if v, ok := s.data[key]; ok {
		str, isStr := v.(string)
		return str, isStr
	}
	return "", false
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// Save persists the session to the store and writes the cookie. A
// session that was never mutated writes nothing, so anonymous catalog
// browsing stays cookie-free.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}
	if err := s.store.Put(s.id, s.data, s.opts.TTL); err != nil {
		return err
	}
	s.writeCookie(w, s.id, int(s.opts.TTL.Seconds()))
	s.changed = false
	s.fresh = false
	return nil
}

// Destroy removes the session from the store and expires the cookie (logout).
func (s *Session) Destroy(w http.ResponseWriter) error {
	if err := s.store.Destroy(s.id); err != nil {
		return err
	}
	s.data = map[string]interface{}{}
	s.changed = false
	s.writeCookie(w, "", -1)
	return nil
}

func (s *Session) writeCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     s.opts.Path,
		MaxAge:   maxAge,
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})
}

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
// The store must have been installed with SetStore before the first request.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := begin(opts, r)
			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// begin resolves the request's session: a known cookie loads stored
// data, anything else starts a fresh empty session.
func begin(opts Options, r *http.Request) *Session {
	sess := &Session{
		opts:  opts,
		store: ActiveStore(),
		data:  map[string]interface{}{},
		fresh: true,
	}

	cookie, err := r.Cookie(opts.CookieName)
	if err != nil {
		sess.id, _ = newID()
		return sess
	}

	sess.id = cookie.Value
	if data, ok := sess.store.Get(sess.id); ok {
		sess.data = data
		sess.fresh = false
	}
	return sess
}

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, _ := newID()
	return &Session{
		id:    id,
		data:  map[string]interface{}{},
		opts:  DefaultOptions(),
		store: ActiveStore(),
		fresh: true,
	}
}

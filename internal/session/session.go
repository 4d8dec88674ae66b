// Package session identifies browser clients by cookie and holds the single
// current analysis result for each of them.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKey = "session"

// Session is the explicit per-client context handed to services.
type Session struct {
	ID string
}

// Valid reports whether the session carries an id.
func (s Session) Valid() bool {
	return s.ID != ""
}

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Middleware resolves the session from the cookie, issuing a new one when the
// cookie is missing or malformed.
func Middleware(opts CookieOptions) gin.HandlerFunc {
	if opts.Name == "" {
		opts.Name = "skin_session"
	}
	maxAge := int(opts.TTL / time.Second)

	return func(c *gin.Context) {
		id, err := c.Cookie(opts.Name)
		if err != nil || !validID(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(opts.Name, id, maxAge, "/", "", opts.Secure, true)
		}
		c.Set(contextKey, Session{ID: id})
		c.Next()
	}
}

// FromContext returns the session attached by Middleware.
func FromContext(c *gin.Context) Session {
	if c == nil {
		return Session{}
	}
	val, _ := c.Get(contextKey)
	if s, ok := val.(Session); ok {
		return s
	}
	return Session{}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrSessionNotFound signals an unknown or expired refresh session id.
var ErrSessionNotFound = errors.New("session not found")

// Identity is the resolved caller for owner-scoped operations.
type Identity struct {
	ContractorID string
	Email        string
}

// RefreshSession is the server-side record behind a refresh cookie.
type RefreshSession struct {
	ContractorID string `json:"contractor_id"`
	Email        string `json:"email"`
}

// RefreshStore persists refresh sessions keyed by an opaque id.
type RefreshStore interface {
	Save(ctx context.Context, id string, sess RefreshSession) error
	Get(ctx context.Context, id string) (RefreshSession, error)
	Delete(ctx context.Context, id string) error
}

// SessionOracle resolves the caller's identity from the request, once per
// request. Implementations may set refreshed cookies on the response as a
// side effect; callers must forward those regardless of the eventual
// allow/redirect outcome.
type SessionOracle interface {
	Resolve(c *fiber.Ctx) (*Identity, bool)
}

// CookieOracle resolves identity from the session cookie pair. A valid
// session JWT resolves directly. An absent or expired JWT falls back to
// the refresh session: when the refresh id is live, a fresh session cookie
// is minted and set on the response before resolution succeeds. Any
// refresh-store failure counts as unresolved (fail-closed).
type CookieOracle struct {
	sessions *SessionManager
	refresh  RefreshStore
}

// NewCookieOracle constructs the oracle.
func NewCookieOracle(sessions *SessionManager, refresh RefreshStore) *CookieOracle {
	return &CookieOracle{sessions: sessions, refresh: refresh}
}

// Resolve implements SessionOracle.
func (o *CookieOracle) Resolve(c *fiber.Ctx) (*Identity, bool) {
	if raw := c.Cookies(SessionCookieName); raw != "" {
		if claims, err := o.sessions.Parse(raw); err == nil {
			return &Identity{ContractorID: claims.ContractorID, Email: claims.Email}, true
		}
	}

	refreshID := c.Cookies(RefreshCookieName)
	if refreshID == "" || o.refresh == nil {
		return nil, false
	}

	sess, err := o.refresh.Get(c.Context(), refreshID)
	if err != nil {
		return nil, false
	}

	tokenStr, expiresAt, err := o.sessions.Issue(sess.ContractorID, sess.Email)
	if err != nil {
		return nil, false
	}
	setSessionCookie(c, tokenStr, expiresAt)

	return &Identity{ContractorID: sess.ContractorID, Email: sess.Email}, true
}

func setSessionCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SetSessionCookies installs the session pair after login.
func SetSessionCookies(c *fiber.Ctx, sessionToken string, sessionExpiry time.Time, refreshID string, refreshExpiry time.Time) {
	setSessionCookie(c, sessionToken, sessionExpiry)
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    refreshID,
		Expires:  refreshExpiry,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookies expires both cookies at logout.
func ClearSessionCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{SessionCookieName, RefreshCookieName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RouteClass is the sensitivity classification of a request path.
type RouteClass int

const (
	// RouteUnrestricted requires no identity.
	RouteUnrestricted RouteClass = iota
	// RouteProtected requires a resolved identity.
	RouteProtected
	// RouteLogin is the login page: requires the absence of identity.
	RouteLogin
)

// GateConfig enumerates the fixed route sensitivity rules.
type GateConfig struct {
	ProtectedPrefixes []string
	LoginPath         string
	DashboardPath     string
}

// Classify maps a request path to its sensitivity class. Pure function of
// the path; evaluated before any handler logic.
func (g GateConfig) Classify(path string) RouteClass {
	if path == g.LoginPath {
		return RouteLogin
	}
	for _, prefix := range g.ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return RouteProtected
		}
	}
	return RouteUnrestricted
}

// Decision is the explicit outcome of gating a classified request.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Decide resolves (class, identity) into allow-or-redirect. Pure function;
// the middleware applies it.
func (g GateConfig) Decide(class RouteClass, resolved bool) Decision {
	switch class {
	case RouteProtected:
		if !resolved {
			return Decision{RedirectTo: g.LoginPath}
		}
	case RouteLogin:
		if resolved {
			return Decision{RedirectTo: g.DashboardPath}
		}
	}
	return Decision{Allow: true}
}

// Gate enforces route sensitivity once per request, before any handler.
type Gate struct {
	cfg    GateConfig
	oracle SessionOracle
}

// NewGate constructs the middleware.
func NewGate(cfg GateConfig, oracle SessionOracle) *Gate {
	return &Gate{cfg: cfg, oracle: oracle}
}

// Handle classifies the path, resolves identity where the class demands
// it, and either forwards the request or short-circuits with a redirect.
// Cookies refreshed during resolution ride the response either way.
func (g *Gate) Handle(c *fiber.Ctx) error {
	class := g.cfg.Classify(c.Path())

	var identity *Identity
	resolved := false
	if class != RouteUnrestricted {
		identity, resolved = g.oracle.Resolve(c)
	}

	decision := g.cfg.Decide(class, resolved)
	if !decision.Allow {
		return c.Redirect(decision.RedirectTo, fiber.StatusFound)
	}

	if resolved {
		c.Locals(identityKey, identity)
	}
	return c.Next()
}

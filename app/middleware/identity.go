package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const ownerKey = "ownerID"

// IdentityProvider resolves the caller identity for a request. A false
// return means anonymous, which disables history rather than failing.
type IdentityProvider interface {
	Identify(c *fiber.Ctx) (string, bool)
}

// HeaderIdentity trusts a request header set by the fronting auth layer.
type HeaderIdentity struct {
	header string
}

func NewHeaderIdentity(header string) *HeaderIdentity {
	if header == "" {
		header = "X-User-ID"
	}
	return &HeaderIdentity{header: header}
}

func (h *HeaderIdentity) Identify(c *fiber.Ctx) (string, bool) {
	id := c.Get(h.header)
	return id, id != ""
}

// WithIdentity stashes the resolved identity in the request locals so
// handlers can read it without knowing the provider.
func WithIdentity(provider IdentityProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := provider.Identify(c); ok {
			c.Locals(ownerKey, id)
		}
		return c.Next()
	}
}

// OwnerID returns the resolved identity or "" for anonymous callers.
func OwnerID(c *fiber.Ctx) string {
	if id, ok := c.Locals(ownerKey).(string); ok {
		return id
	}
	return ""
}

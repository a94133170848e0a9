package http

import (
	"portfolio-gateway/internal/tenant"
	"portfolio-gateway/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

const tenantSlugKey = "tenantSlug"

// RequireAuth gates protected views on the session store. Unauthenticated
// requests are redirected to the login view with replace semantics, so back
// navigation does not land on the protected view.
func RequireAuth(sessions *usecase.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sessions.IsAuthenticated() {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// TenantHost resolves the request hostname exactly once per request and, when
// a tenant slug is present, stashes it for the public rendering path. All
// other requests fall through to the main application routes.
func TenantHost(resolver *tenant.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if slug := resolver.Resolve(c.Hostname()); slug != "" {
			c.Locals(tenantSlugKey, slug)
		}
		return c.Next()
	}
}

// TenantSlug returns the slug stashed by TenantHost, or "".
func TenantSlug(c *fiber.Ctx) string {
	slug, _ := c.Locals(tenantSlugKey).(string)
	return slug
}

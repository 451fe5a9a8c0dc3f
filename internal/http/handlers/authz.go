package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"wikimart/internal/services"
)

// AttachUser puts the session's user, if any, into Locals("user").
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(c.UserContext(), sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// RequireUser enforces that a user is logged in; otherwise redirect to login
// and come back afterwards. Run AttachUser first.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return c.Redirect("/login?next=" + url.QueryEscape(returnTo(c)))
		}
		return c.Next()
	}
}

// returnTo is where login sends the user back to. Form posts cannot be
// replayed as a GET, so they return to the page the form lives on.
func returnTo(c *fiber.Ctx) string {
	if c.Method() == fiber.MethodGet {
		return c.OriginalURL()
	}
	if id := c.Params("id"); id != "" {
		return "/listings/" + url.PathEscape(id)
	}
	return c.Path()
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

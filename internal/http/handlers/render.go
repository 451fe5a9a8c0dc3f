package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
	applog "wikimart/internal/log"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := currentUser(c); u != nil {
		data["User"] = u
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	return c.Render(tmpl, data)
}

// renderStatus renders tmpl with the status err maps to and err's safe
// message under "Err". Used to redisplay a form.
func renderStatus(c *fiber.Ctx, tmpl string, err error, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	logFailure(c, err)
	data["Err"] = apperrors.Message(err)
	c.Status(apperrors.Status(err))
	return render(c, tmpl, data)
}

// fail renders the error page for err.
func fail(c *fiber.Ctx, err error) error {
	status := apperrors.Status(err)
	logFailure(c, err)
	c.Status(status)
	return render(c, "error", fiber.Map{
		"Status":  status,
		"Message": apperrors.Message(err),
	})
}

func logFailure(c *fiber.Ctx, err error) {
	switch apperrors.Status(err) {
	case http.StatusInternalServerError:
		applog.Error(c, "request.fail", err, nil)
	case http.StatusForbidden:
		applog.Security(c, "access.denied", map[string]any{"reason": err.Error()})
	default:
		applog.Info(c, "request.rejected", map[string]any{"reason": err.Error()})
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"wikimart/internal/apperrors"
	"wikimart/internal/log"
	"wikimart/internal/services"
)

type AuthHandler struct {
	Auth         *services.AuthService
	SecureCookie bool
}

// newSID always issues a fresh session id so a login never reuses a
// pre-authentication cookie.
func (h *AuthHandler) newSID(c *fiber.Ctx) string {
	sid := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
	})
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Title": "Log In", "Next": safeNext(c.Query("next"))})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	next := safeNext(c.FormValue("next"))
	sid := h.newSID(c)

	if _, err := h.Auth.Login(c.UserContext(), sid, username, c.FormValue("password")); err != nil {
		if apperrors.Status(err) == fiber.StatusUnauthorized {
			log.Security(c, "auth.login.fail", map[string]any{"username": username})
		}
		return renderStatus(c, "login", err, fiber.Map{"Title": "Log In", "Username": username, "Next": next})
	}
	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.Redirect(next)
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Title": "Register"})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	reg := services.Registration{
		Username:     c.FormValue("username"),
		Email:        c.FormValue("email"),
		Password:     c.FormValue("password"),
		Confirmation: c.FormValue("confirmation"),
	}
	u, err := h.Auth.Register(c.UserContext(), reg)
	if err != nil {
		return renderStatus(c, "register", err, fiber.Map{"Title": "Register", "Username": reg.Username, "Email": reg.Email})
	}
	if err := h.Auth.StartSession(c.UserContext(), h.newSID(c), u); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "auth.register", map[string]any{"username": u.Username})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		_ = h.Auth.Logout(c.UserContext(), sid)
	}
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}

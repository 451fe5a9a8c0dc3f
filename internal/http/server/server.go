// Package server assembles the two Fiber applications.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"wikimart/internal/apperrors"
	"wikimart/internal/config"
	"wikimart/internal/http/handlers"
	applog "wikimart/internal/log"
	"wikimart/internal/metrics"
	"wikimart/internal/wiki"
	"wikimart/web"
)

const bodyLimit = 1 << 20 // 1 MiB

// errorHandler logs and shows a friendly message. Internals never reach the page.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	} else if s := apperrors.Status(err); s != fiber.StatusInternalServerError {
		code, msg = s, apperrors.Message(err)
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if rerr := c.Status(code).Render("error", fiber.Map{"Status": code, "Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func newApp(name string, unescape bool) (*fiber.App, error) {
	views, err := web.Views(name)
	if err != nil {
		return nil, err
	}
	app := fiber.New(fiber.Config{
		AppName:               name,
		Views:                 views,
		ViewsLayout:           "layouts/main",
		ErrorHandler:          errorHandler,
		BodyLimit:             bodyLimit,
		UnescapePath:          unescape,
		DisableStartupMessage: true,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: applog.Writer(),
	}))
	app.Use(helmet.New())
	app.Use(metrics.Middleware(name))
	return app, nil
}

// protect adds rate limiting and CSRF. Register it after AttachUser.
func protect(app *fiber.App, cfg config.Config) {
	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				p := c.Path()
				return p == "/healthz" || p == "/metrics"
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.global.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).Render("error", fiber.Map{
					"Status": fiber.StatusTooManyRequests, "Message": "Too many requests. Please slow down.",
				})
			},
		}))
	}
	if cfg.DisableCSRF {
		return
	}
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("error", fiber.Map{
				"Status": fiber.StatusForbidden, "Message": "Security check failed. Please refresh and try again.",
			})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})
}

func health(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", metrics.Handler())
}

func notFound(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{
			"Status": fiber.StatusNotFound, "Message": "Page not found",
		})
	})
}

// NewAuctions builds the marketplace application over db.
func NewAuctions(cfg config.Config, db *sqlx.DB) (*fiber.App, error) {
	app, err := newApp("auctions", false)
	if err != nil {
		return nil, err
	}
	health(app)

	deps := handlers.NewDeps(db, cfg)
	app.Use(handlers.AttachUser(deps.Auth))
	protect(app, cfg)

	authH := deps.AuthHandler
	auth := handlers.RequireUser()

	app.Get("/", deps.ListingHandler.Index)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	loginLimit := []fiber.Handler{}
	if cfg.LoginRateLimit > 0 {
		loginLimit = append(loginLimit, limiter.New(limiter.Config{
			Max:        cfg.LoginRateLimit,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|login"
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.login.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
			},
		}))
	}
	app.Post("/login", append(loginLimit, authH.Login)...)
	app.Get("/logout", authH.Logout)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)

	// Listings
	app.Get("/listings/new", auth, deps.ListingHandler.NewForm)
	app.Post("/listings/new", auth, deps.ListingHandler.Create)
	app.Get("/listings/:id", deps.ListingHandler.Detail)
	app.Get("/listings/:id/edit", auth, deps.ListingHandler.EditForm)
	app.Post("/listings/:id/edit", auth, deps.ListingHandler.Edit)
	app.Get("/listings/:id/close-auction", auth, deps.ListingHandler.Close)
	app.Post("/listings/:id/new-bid", auth, deps.BidHandler.Place)
	app.Post("/listings/:id/post-comment", auth, deps.CommentHandler.Post)

	// Browsing
	app.Get("/categories", deps.CategoryHandler.List)
	app.Get("/categories/:name", deps.CategoryHandler.Show)
	app.Get("/watchlist", auth, deps.WatchlistHandler.List)
	app.Get("/watchlist/:id/add", auth, deps.WatchlistHandler.Add)
	app.Get("/watchlist/:id/remove", auth, deps.WatchlistHandler.Remove)
	app.Get("/activity", auth, deps.ListingHandler.Activity)

	notFound(app)
	return app, nil
}

// NewWiki builds the encyclopedia application over store.
func NewWiki(cfg config.Config, store *wiki.Store) (*fiber.App, error) {
	app, err := newApp("wiki", true)
	if err != nil {
		return nil, err
	}
	health(app)
	protect(app, cfg)

	h := &handlers.WikiHandler{Wiki: wiki.NewService(store)}
	app.Get("/", h.Index)
	app.Get("/add", h.AddForm)
	app.Post("/add", h.Add)
	app.Get("/wiki/:title", h.View)
	app.Get("/edit/:title", h.EditForm)
	app.Post("/edit/:title", h.Edit)
	app.Get("/random", h.Random)

	notFound(app)
	return app, nil
}

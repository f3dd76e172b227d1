package main

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"cozyoven/internal/config"
	"cozyoven/internal/http/handlers"
	applog "cozyoven/internal/log"
	"cozyoven/internal/repos"
)

func main() {
	cfg := config.Load()

	applog.Init(applog.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	defer applog.Sync()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Templates & app
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: 1 << 20, // 1 MiB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		// The back office authenticates with a header token, not a cookie.
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/admin")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"header": c.Get("X-Csrf-Token") != ""})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, cfg)

	// Storefront pages
	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/category/:id", deps.CategoryHandler.List)
	app.Get("/combos/:id", deps.ComboHandler.Page)
	app.Get("/cart", deps.CartHandler.View)

	// API
	api := app.Group("/api/v1")
	quoteLimiter := limiter.New(limiter.Config{
		Max:        60,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|quote"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.quote.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/products/:id", deps.ProductHandler.Lookup)
	api.Get("/combos", deps.ComboHandler.List)
	api.Get("/combos/:id", deps.ComboHandler.Get)
	api.Post("/combos/:id/quote", quoteLimiter, deps.ComboHandler.Quote)
	api.Post("/combos/:id/cart", deps.ComboHandler.AddToCart)
	api.Get("/cart", deps.CartHandler.JSON)
	api.Delete("/cart", deps.CartHandler.Clear)
	api.Delete("/cart/:lineId", deps.CartHandler.Remove)

	// Back office
	adminH := deps.AdminComboHandler
	admin := app.Group("/admin", handlers.RequireAdmin(cfg.AdminTokenHash))
	admin.Get("/combos", adminH.List)
	admin.Get("/combos/products", adminH.Products)
	admin.Post("/combos", adminH.Create)
	admin.Get("/combos/:id", adminH.Get)
	admin.Patch("/combos/:id", adminH.Update)
	admin.Delete("/combos/:id", adminH.Delete)
	admin.Post("/combos/:id/options", adminH.AddOption)
	admin.Post("/combos/:id/options/:optionId/active", adminH.SetOptionActive)
	admin.Delete("/combos/:id/options/:optionId", adminH.RemoveOption)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

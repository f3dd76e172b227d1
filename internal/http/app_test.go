package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cozyoven/internal/config"
	"cozyoven/internal/http/handlers"
	applog "cozyoven/internal/log"
	"cozyoven/internal/repos"
)

const adminToken = "oven-mitts"

// testApp wires the same routes as cmd/cozyoven against an in-memory database.
// extra runs before the routes are registered, so callers can add limiters.
func testApp(t *testing.T, extra ...func(*fiber.App)) *fiber.App {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.Config{
		DBDSN:          ":memory:",
		AdminTokenHash: string(hash),
		ComboStoreKey:  "cozyoven_combo_products",
		CurrencySymbol: "₵",
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, BodyLimit: 1 << 20})
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/admin")
		},
	}))
	for _, fn := range extra {
		fn(app)
	}

	deps := handlers.NewDeps(db, cfg)
	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/combos/:id", deps.ComboHandler.Page)
	app.Get("/cart", deps.CartHandler.View)

	api := app.Group("/api/v1")
	api.Get("/products/:id", deps.ProductHandler.Lookup)
	api.Get("/combos", deps.ComboHandler.List)
	api.Get("/combos/:id", deps.ComboHandler.Get)
	api.Post("/combos/:id/quote", deps.ComboHandler.Quote)
	api.Post("/combos/:id/cart", deps.ComboHandler.AddToCart)
	api.Get("/cart", deps.CartHandler.JSON)
	api.Delete("/cart", deps.CartHandler.Clear)
	api.Delete("/cart/:lineId", deps.CartHandler.Remove)

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
	return app
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonRequest(method, path string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func adminRequest(method, path string, body any) *http.Request {
	req := jsonRequest(method, path, body)
	req.Header.Set(handlers.AdminTokenHeader, adminToken)
	return req
}

type logEntry struct {
	Action string         `json:"action"`
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	applog.SetOutput(buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"wikimart/internal/domain"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &m))
	return m
}

func TestWithoutContext(t *testing.T) {
	buf := capture(t)
	Error(nil, "db.open.fail", errors.New("disk full"), map[string]any{"dsn": "x.db"})

	m := lastLine(t, buf)
	require.Equal(t, "db.open.fail", m["action"])
	require.Equal(t, "error", m["level"])
	require.Equal(t, "disk full", m["error"])
	require.Contains(t, m, "ts")
}

func TestRequestFieldsAndUser(t *testing.T) {
	buf := capture(t)
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("requestid", "rid-1")
		c.Locals("user", &domain.User{ID: 7, Username: "alice"})
		Audit(c, "bid.place", map[string]any{"listing_id": 3})
		return c.SendStatus(fiber.StatusNoContent)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)

	m := lastLine(t, buf)
	require.Equal(t, "bid.place", m["action"])
	require.Equal(t, "rid-1", m["req_id"])
	require.Equal(t, float64(7), m["user_id"])
	require.Equal(t, "GET", m["method"])
	fields := m["fields"].(map[string]any)
	require.Equal(t, "audit", fields["kind"])
}

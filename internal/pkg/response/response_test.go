package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return resp.StatusCode, out
}

func TestEnvelopes(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("KST", 9*3600)) }
	t.Cleanup(func() { now = time.Now })

	app := fiber.New()
	app.Get("/ok", func(c fiber.Ctx) error {
		return Success(c, fiber.StatusCreated, fiber.Map{"jobId": "job_1"})
	})
	app.Get("/missing", func(c fiber.Ctx) error {
		return Error(c, fiber.StatusNotFound, "", "Crawl job not found", nil)
	})

	status, body := decode(t, app, "/ok")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "2026-03-01T03:00:00.000Z", body["timestamp"])
	assert.Equal(t, "job_1", body["data"].(map[string]any)["jobId"])
	assert.NotContains(t, body, "error")

	status, body = decode(t, app, "/missing")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	e := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", e["code"])
	assert.Equal(t, "Crawl job not found", e["message"])
	assert.Equal(t, map[string]any{}, e["details"])
}

package middleware_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-analytics-dashboard/middleware"
	"school-analytics-dashboard/utils"
)

func setupAuthApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"identity": c.Locals("identity"), "token": c.Locals("token")})
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAuthRequired(t *testing.T) {
	t.Run("Success: pass-through without secret", func(t *testing.T) {
		app := setupAuthApp("")
		tok, _ := utils.GenerateToken("admin-1", "admin", "unknown", time.Hour)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, utils.CredentialIdentity(tok), body["identity"])
	})

	t.Run("Success: verified token", func(t *testing.T) {
		app := setupAuthApp("s3cret")
		tok, _ := utils.GenerateToken("admin-1", "admin", "s3cret", time.Hour)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := app.Test(req)

		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "sub:admin-1", decodeBody(t, resp)["identity"])
	})

	t.Run("Error: missing header", func(t *testing.T) {
		app := setupAuthApp("")

		resp, _ := app.Test(httptest.NewRequest("GET", "/me", nil))

		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Error: bad signature", func(t *testing.T) {
		app := setupAuthApp("s3cret")
		tok, _ := utils.GenerateToken("admin-1", "admin", "other", time.Hour)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := app.Test(req)

		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestOpsRequired(t *testing.T) {
	hash, err := utils.HashPassword("rahasia")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/ops/status", middleware.OpsRequired("ops", hash), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	basic := func(user, pass string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	}

	req := httptest.NewRequest("GET", "/ops/status", nil)
	req.Header.Set("Authorization", basic("ops", "rahasia"))
	resp, _ := app.Test(req)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/ops/status", nil)
	req.Header.Set("Authorization", basic("ops", "salah"))
	resp, _ = app.Test(req)
	assert.Equal(t, 401, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest("GET", "/ops/status", nil))
	assert.Equal(t, 401, resp.StatusCode)
}

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"propapi/internal/auth"
	"propapi/internal/model"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("should replace an oversized or unsafe request id", func(t *testing.T) {
		for _, bad := range []string{strings.Repeat("a", 129), "has space", "tab\there"} {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set(RequestIDHeader, bad)

			resp, _ := app.Test(req)
			got := resp.Header.Get(RequestIDHeader)
			assert.NotEqual(t, bad, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		}
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, loc))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test?page=2", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
	assert.Equal(t, "http", logData["component"])
}

func TestLogger_FiberError(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Get("/gone", func(c *fiber.Ctx) error {
		return fiber.ErrGone
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/gone", nil))
	assert.Equal(t, fiber.StatusGone, resp.StatusCode)
	assert.Contains(t, buf.String(), `"status":410`)
}

func TestLocale(t *testing.T) {
	app := fiber.New()
	app.Use(Locale(language.English, language.German, language.Indonesian))
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(LocaleFrom(c).String())
	})

	tests := []struct {
		name   string
		query  string
		header string
		want   string
	}{
		{name: "default", want: "en"},
		{name: "accept-language", header: "de-AT,de;q=0.9,en;q=0.5", want: "de"},
		{name: "query wins", query: "?locale=id", header: "de", want: "id"},
		{name: "unsupported falls back", header: "ja-JP", want: "en"},
		{name: "garbage", query: "?locale=not_a_tag", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestAuth(t *testing.T) {
	issuer, err := auth.NewIssuer("0123456789abcdef0123456789abcdef", "propapi", time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(RequestID())
	app.Use(Auth(issuer))
	app.Get("/me", func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		fromCtx, ok := auth.FromContext(c.UserContext())
		require.True(t, ok)
		assert.Equal(t, p, fromCtx)
		return c.SendString(p.UserID + ":" + string(p.Role))
	})

	valid, err := issuer.Issue("11111111-1111-4111-8111-111111111111", model.RoleLandlord)
	require.NoError(t, err)
	expired, err := issuer.IssueWithTTL("11111111-1111-4111-8111-111111111111", model.RoleLandlord, -time.Minute)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+valid)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "11111111-1111-4111-8111-111111111111:landlord", string(body))
	})

	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + valid,
		"expired token":  "Bearer " + expired,
		"garbage token":  "Bearer not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var payload struct {
				RequestID string `json:"request_id"`
				Error     struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
			assert.Equal(t, "UNAUTHORIZED", payload.Error.Code)
			assert.NotEmpty(t, payload.RequestID)
		})
	}
}

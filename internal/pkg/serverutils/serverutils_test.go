package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newProtectedApp(mw fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/me", mw, func(ctx *fiber.Ctx) error {
		return ctx.SendString(UserIDFromLocals(ctx))
	})
	return app
}

func TestJwtMiddleware(t *testing.T) {
	app := newProtectedApp(NewJwtMiddleware(testSecret))
	valid, err := SignToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)
	forged, err := SignToken("other-secret", "user-42", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		target     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing token", target: "/me", wantStatus: fiber.StatusUnauthorized},
		{name: "wrong secret", target: "/me", header: "Bearer " + forged, wantStatus: fiber.StatusUnauthorized},
		{name: "header token", target: "/me", header: "Bearer " + valid, wantStatus: fiber.StatusOK, wantBody: "user-42"},
		{name: "query token", target: "/me?token=" + valid, wantStatus: fiber.StatusOK, wantBody: "user-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

func TestOptionalJwtMiddlewareLetsAnonymousThrough(t *testing.T) {
	app := newProtectedApp(NewOptionalJwtMiddleware(testSecret))

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, string(body))
}

type validatedRequest struct {
	Message string `json:"message" validate:"required"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/validation", func(ctx *fiber.Ctx) error {
		return ValidateRequest(validatedRequest{})
	})
	app.Get("/limit", func(ctx *fiber.Ctx) error {
		return &dto.LimitExceededError{Limit: 5, Used: 5, ResetAfter: time.Now()}
	})
	app.Get("/notfound", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("boom")
	})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/validation", fiber.StatusBadRequest},
		{"/limit", fiber.StatusTooManyRequests},
		{"/notfound", fiber.StatusNotFound},
		{"/boom", fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, false, body["success"])
		})
	}
}

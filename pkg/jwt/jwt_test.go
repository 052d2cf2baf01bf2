package jwtPkg

import (
	"Veriface/internal/entity"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignRequiresSecret(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "")

	_, _, err := Sign(map[string]interface{}{"id": "operator"}, time.Hour)
	assert.Error(t, err)
}

func TestSignAndVerifyTokenHeaderRoundTrip(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	token, expiresAt, err := Sign(map[string]interface{}{
		"id":       "operator",
		"username": "admin",
	}, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		parsed, err := VerifyTokenHeader(c, "JWT_ACCESS_TOKEN_SECRET")
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok || claims["username"] != "admin" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	missing := httptest.NewRequest(fiber.MethodGet, "/", nil)
	resp, err = app.Test(missing)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetOperatorLoginData(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("operator", entity.OperatorLoginData{ID: "operator", Username: "admin"})

		operator, err := GetOperatorLoginData(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(operator.Username)
	})
	app.Get("/anonymous", func(c *fiber.Ctx) error {
		if _, err := GetOperatorLoginData(c); err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/anonymous", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

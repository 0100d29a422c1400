package helper

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleLine struct {
	Qty int `json:"quantity" validate:"required,gt=0"`
}

type sample struct {
	Title string       `json:"title" validate:"required"`
	Email string       `json:"email" validate:"omitempty,email"`
	Lines []sampleLine `json:"lines" validate:"required,min=1,dive"`
}

func TestValidationErrors_UseJSONPaths(t *testing.T) {
	err := NewValidator().Struct(&sample{Email: "x", Lines: []sampleLine{{Qty: 1}, {Qty: 0}}})
	require.Error(t, err)

	fields := ValidationErrors(err)
	assert.Equal(t, []string{"is required"}, fields["title"])
	assert.Equal(t, []string{"must be a valid email"}, fields["email"])
	assert.Equal(t, []string{"is required"}, fields["lines[1].quantity"])
}

func TestValidationFailed_Status(t *testing.T) {
	app := fiber.New()
	app.Get("/v", func(c *fiber.Ctx) error {
		return ValidationFailed(c, NewValidator().Struct(&sample{}))
	})
	app.Get("/e", func(c *fiber.Ctx) error {
		return ValidationFailed(c, errors.New("not a validator error"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/v", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/e", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

package controller

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibliothek_backend/internals/constants"
	"bibliothek_backend/internals/features/users/auth/service"
	helper "bibliothek_backend/internals/helpers"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
	authMiddleware "bibliothek_backend/internals/middlewares/auth"
)

func newApp() (*fiber.App, *AuthController) {
	ctl := &AuthController{Secret: "s", TTL: time.Hour, Now: time.Now}
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Post("/login", ctl.Login)
	app.Post("/logout", ctl.Logout)
	app.Get("/me", ctl.Me)
	return app, ctl
}

func TestLogin_ValidatesBeforeLookup(t *testing.T) {
	app, _ := newApp()

	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"not-an-email","password":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogout_ClearsCookie(t *testing.T) {
	app, ctl := newApp()
	id := helpersAuth.Identity{StaffID: 1, PersonID: 1, PersonType: constants.PersonStaff}
	token, _, err := service.IssueToken(id, ctl.Secret, time.Now(), time.Hour)
	require.NoError(t, err)

	for _, withToken := range []bool{false, true} {
		req := httptest.NewRequest("POST", "/logout", nil)
		if withToken {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var cleared bool
		for _, ck := range resp.Cookies() {
			if ck.Name == authMiddleware.TokenCookie && ck.Value == "" {
				cleared = true
			}
		}
		assert.True(t, cleared)
	}
}

func TestMe_NeedsIdentity(t *testing.T) {
	app, _ := newApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

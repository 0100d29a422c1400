package controller

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibliothek_backend/internals/constants"
	helper "bibliothek_backend/internals/helpers"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
)

func newApp(who *helpersAuth.Identity) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if who != nil {
			helpersAuth.SetIdentity(c, *who)
		}
		return c.Next()
	})
	ctl := NewPeopleController(nil)
	app.Get("/people", ctl.List)
	app.Post("/people", ctl.Create)
	return app
}

func post(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/people", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCreate_StaffAccountNeedsPrivilege(t *testing.T) {
	clerk := &helpersAuth.Identity{StaffID: 1, PersonID: 1, PersonType: constants.PersonStaff, Privilege: 1}
	app := newApp(clerk)

	body := `{"person_name":"Nova","person_type":2,
	          "staff":{"staff_email":"nova@bib.local","staff_password":"long-enough"}}`
	assert.Equal(t, fiber.StatusForbidden, post(t, app, body))
}

func TestCreate_StaffShapeChecks(t *testing.T) {
	admin := &helpersAuth.Identity{StaffID: 1, PersonID: 1, PersonType: constants.PersonStaff, Privilege: constants.PrivilegeAdmin}
	app := newApp(admin)

	// staff type without an account
	assert.Equal(t, fiber.StatusUnprocessableEntity, post(t, app, `{"person_name":"Nova","person_type":2}`))
	// account attached to a student
	assert.Equal(t, fiber.StatusUnprocessableEntity, post(t, app,
		`{"person_name":"Nova","person_type":1,"staff":{"staff_email":"n@bib.local","staff_password":"long-enough"}}`))
}

func TestCreate_ValidationAndPayload(t *testing.T) {
	app := newApp(&helpersAuth.Identity{StaffID: 1, PersonType: constants.PersonStaff})

	assert.Equal(t, fiber.StatusUnprocessableEntity, post(t, app, `{"person_name":"","person_type":9}`))
	assert.Equal(t, fiber.StatusBadRequest, post(t, app, `{"person_name":`))
}

func TestList_RejectsBadFilters(t *testing.T) {
	app := newApp(&helpersAuth.Identity{StaffID: 1, PersonType: constants.PersonStaff})

	for _, url := range []string{"/people?type=4", "/people?situacao=x", "/people?id=0"} {
		resp, err := app.Test(httptest.NewRequest("GET", url, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, url)
	}
}

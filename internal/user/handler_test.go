package user

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/address"
	"github.com/MinhBui2k4/CDTT/internal/apitest"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

func setup(t *testing.T) (*apitest.Backend, *activity.Service, *fiber.App) {
	t.Helper()
	backend := apitest.NewBackend(t)
	client := backend.Client()
	log := apitest.Activity()
	h := NewHandler(NewService(client), address.NewService(client), log)
	return backend, log, apitest.App(h.RegisterProtectedRoutes)
}

func TestHandler_ListByEmail(t *testing.T) {
	backend, _, app := setup(t)
	backend.JSON(http.MethodGet, "/users/email/mai@shop.vn", http.StatusOK, User{ID: 4, FullName: "Mai", Email: "mai@shop.vn", Roles: []string{"ADMIN"}})

	body := apitest.Body(t, apitest.Get(t, app, "/admin/users?email=mai@shop.vn"))
	assert.Contains(t, body, "Mai")
	assert.Contains(t, body, "badge-warning")
	assert.Empty(t, backend.CallsTo(http.MethodGet, "/users"))
}

func TestHandler_ListByUnknownEmail(t *testing.T) {
	backend, _, app := setup(t)
	backend.Fail(http.MethodGet, "/users/email/none@shop.vn", http.StatusNotFound, "User not found")

	body := apitest.Body(t, apitest.Get(t, app, "/admin/users?email=none@shop.vn"))
	assert.Contains(t, body, "No account uses none@shop.vn")
	assert.Contains(t, body, "No users found.")
}

func TestHandler_ViewIncludesOrders(t *testing.T) {
	backend, _, app := setup(t)
	backend.JSON(http.MethodGet, "/users/4", http.StatusOK, User{
		ID: 4, FullName: "Mai", Email: "mai@shop.vn",
		Orders: []OrderSummary{{ID: 31, Status: "SHIPPED", TotalAmount: 350000}},
	})

	body := apitest.Body(t, apitest.Get(t, app, "/admin/users/4"))
	assert.Contains(t, body, "Orders (1)")
	assert.Contains(t, body, `href="/admin/orders/31"`)
	assert.Contains(t, body, "350.000 ₫")
	assert.Equal(t, "true", backend.CallsTo(http.MethodGet, "/users/4")[0].Query.Get("includeOrders"))
}

func TestHandler_Create(t *testing.T) {
	backend, log, app := setup(t)
	backend.JSON(http.MethodPost, "/users/create", http.StatusCreated, User{ID: 12, Email: "new@shop.vn"})

	res := apitest.PostForm(t, app, "/admin/users", url.Values{
		"fullName": {"New Staff"},
		"email":    {"new@shop.vn"},
		"password": {"secret1"},
		"roleName": {"ADMIN"},
	})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	var sent NewUser
	require.NoError(t, json.Unmarshal(backend.CallsTo(http.MethodPost, "/users/create")[0].Body, &sent))
	assert.Equal(t, NewUser{FullName: "New Staff", Email: "new@shop.vn", Password: "secret1", RoleName: "ADMIN"}, sent)
	assert.Equal(t, int64(12), apitest.Recorded(t, log)[0].EntityID)
}

func TestHandler_CreateRejectsUnknownRole(t *testing.T) {
	backend, _, app := setup(t)

	res := apitest.PostForm(t, app, "/admin/users", url.Values{"email": {"x@shop.vn"}, "password": {"p"}, "roleName": {"ROOT"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, apitest.Body(t, res), ErrUnknownRole.Error())
	assert.Empty(t, backend.Calls())
}

func TestHandler_UpdateMultipart(t *testing.T) {
	backend, _, app := setup(t)
	backend.JSON(http.MethodPut, "/users", http.StatusOK, User{ID: 4})

	res := apitest.PostMultipart(t, app, "/admin/users/4", url.Values{"fullName": {"Mai"}, "email": {"mai@shop.vn"}},
		apitest.File{Field: "avatarFile", Name: "me.png", Content: []byte("png")})
	assert.Equal(t, "/admin/users/4", res.Header.Get("Location"))

	call := backend.CallsTo(http.MethodPut, "/users")[0]
	assert.Equal(t, []string{"4"}, call.Form.Value["id"])
	assert.NotContains(t, call.Form.Value, "password")
	assert.Equal(t, "me.png", call.Form.File["avatarFile"][0].Filename)
}

func TestHandler_DeleteShowsBackendMessage(t *testing.T) {
	backend, _, app := setup(t)
	backend.Handle(http.MethodDelete, "/users/4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User deleted successfully"))
	})

	res := apitest.PostForm(t, app, "/admin/users/4/delete", nil)
	assert.Equal(t, []web.Flash{{Kind: web.Success, Message: "User deleted successfully"}}, apitest.Flashes(res))
}

func TestHandler_Profile(t *testing.T) {
	backend, _, app := setup(t)
	backend.JSON(http.MethodGet, "/users/profile", http.StatusOK, User{ID: 1, FullName: "Admin", Email: apitest.Email})
	backend.JSON(http.MethodGet, "/users/addresses", http.StatusOK, []address.Address{{FullName: "Admin", Street: "1 Nguyen Hue", City: "HCMC", IsDefault: true}})

	res := apitest.Get(t, app, "/admin/profile")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := apitest.Body(t, res)
	assert.Contains(t, body, "1 Nguyen Hue, HCMC")
	assert.Contains(t, body, apitest.Email)
}

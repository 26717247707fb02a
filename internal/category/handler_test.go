package category

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/apitest"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

func setup(t *testing.T) (*apitest.Backend, *activity.Service, *fiber.App) {
	backend := apitest.NewBackend(t)
	log := apitest.Activity()
	h := NewHandler(NewService(backend.Client()), log)
	app := apitest.App(h.RegisterProtectedRoutes)
	return backend, log, app
}

func TestHandler_Routes(t *testing.T) {
	_, _, app := setup(t)
	routes := apitest.Routes(app)
	for _, want := range []string{
		"GET /admin/categories",
		"POST /admin/categories",
		"POST /admin/categories/:id<int>",
		"POST /admin/categories/:id<int>/delete",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestHandler_ListWithEditForm(t *testing.T) {
	backend, _, app := setup(t)
	backend.JSON(http.MethodGet, "/admin/categories", http.StatusOK, apitest.Page([]Category{
		{ID: 3, Name: "Phones", Description: "Smart phones"},
		{ID: 4, Name: "Laptops"},
	}, 12, 2))

	res := apitest.Get(t, app, "/admin/categories?page=1&edit=3")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := apitest.Body(t, res)

	assert.Contains(t, body, "Edit category")
	assert.Contains(t, body, `action="/admin/categories/3"`)
	assert.Contains(t, body, `value="Phones"`)
	assert.Contains(t, body, "Showing 11-12 of 12")

	calls := backend.CallsTo(http.MethodGet, "/admin/categories")
	require.Len(t, calls, 1)
	assert.Equal(t, "1", calls[0].Query.Get("pageNumber"))
	assert.Equal(t, "Bearer "+apitest.Token, calls[0].Auth)
}

func TestHandler_Create(t *testing.T) {
	backend, log, app := setup(t)
	backend.JSON(http.MethodPost, "/admin/categories", http.StatusCreated, Category{ID: 9, Name: "Tablets"})

	res := apitest.PostForm(t, app, "/admin/categories", url.Values{"name": {"  Tablets "}, "description": {"x"}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/admin/categories", res.Header.Get("Location"))

	calls := backend.CallsTo(http.MethodPost, "/admin/categories")
	require.Len(t, calls, 1)
	var sent Input
	require.NoError(t, json.Unmarshal(calls[0].Body, &sent))
	assert.Equal(t, Input{Name: "Tablets", Description: "x"}, sent)

	entries := apitest.Recorded(t, log)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(9), entries[0].EntityID)
	assert.Equal(t, activity.ActionCreate, entries[0].Action)
}

func TestHandler_CreateWithoutNameSkipsBackend(t *testing.T) {
	backend, log, app := setup(t)

	res := apitest.PostForm(t, app, "/admin/categories", url.Values{"name": {"  "}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/admin/categories?new=1", res.Header.Get("Location"))
	assert.Empty(t, backend.Calls())
	assert.Empty(t, apitest.Recorded(t, log))
	assert.Equal(t, []web.Flash{{Kind: web.Error, Message: "Could not add category: name is required"}}, apitest.Flashes(res))
}

func TestHandler_UpdateFailureReturnsToForm(t *testing.T) {
	backend, _, app := setup(t)
	backend.Fail(http.MethodPut, "/admin/categories/3", http.StatusConflict, "Category name already exists")

	res := apitest.PostForm(t, app, "/admin/categories/3", url.Values{"name": {"Phones"}})
	assert.Equal(t, "/admin/categories?edit=3", res.Header.Get("Location"))
	assert.Equal(t, []web.Flash{{Kind: web.Error, Message: "Could not update category: Category name already exists"}}, apitest.Flashes(res))
}

func TestHandler_Delete(t *testing.T) {
	backend, log, app := setup(t)
	backend.JSON(http.MethodDelete, "/admin/categories/3", http.StatusOK, nil)

	res := apitest.PostForm(t, app, "/admin/categories/3/delete", nil)
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Len(t, backend.CallsTo(http.MethodDelete, "/admin/categories/3"), 1)
	assert.Equal(t, activity.ActionDelete, apitest.Recorded(t, log)[0].Action)
}

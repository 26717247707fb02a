package hero

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/apitest"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

func TestHandler_ListDefaultsToFivePerPage(t *testing.T) {
	backend := apitest.NewBackend(t)
	backend.JSON(http.MethodGet, "/hero", http.StatusOK, apitest.Page([]Section{{ID: 1, Heading: "Summer"}}, 6, 2))
	app := apitest.App(NewHandler(NewService(backend.Client()), apitest.Activity()).RegisterProtectedRoutes)

	body := apitest.Body(t, apitest.Get(t, app, "/admin/hero"))
	assert.Contains(t, body, "Summer")
	assert.Contains(t, body, web.Placeholder)
	assert.Contains(t, body, "page=1")

	q := backend.CallsTo(http.MethodGet, "/hero")[0].Query
	assert.Equal(t, "5", q.Get("pageSize"))
	assert.Equal(t, "id", q.Get("sortBy"))
}

func TestHandler_CreateSendsBackground(t *testing.T) {
	backend := apitest.NewBackend(t)
	backend.JSON(http.MethodPost, "/hero", http.StatusCreated, Section{ID: 3})
	log := apitest.Activity()
	app := apitest.App(NewHandler(NewService(backend.Client()), log).RegisterProtectedRoutes)

	res := apitest.PostMultipart(t, app, "/admin/hero", url.Values{"heading": {"Tet"}, "subheading": {"Up to 50%"}},
		apitest.File{Field: "backgroundImageFile", Name: "tet.jpg", Content: []byte("jpg")})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	call := backend.CallsTo(http.MethodPost, "/hero")[0]
	assert.Equal(t, []string{"Tet"}, call.Form.Value["heading"])
	assert.Equal(t, []string{"Up to 50%"}, call.Form.Value["subheading"])
	assert.Equal(t, "tet.jpg", call.Form.File["backgroundImageFile"][0].Filename)

	entries := apitest.Recorded(t, log)
	require.Len(t, entries, 1)
	assert.Equal(t, "hero", entries[0].Resource)
	assert.Equal(t, activity.ActionCreate, entries[0].Action)
}

func TestHandler_EditMissingSection(t *testing.T) {
	backend := apitest.NewBackend(t)
	app := apitest.App(NewHandler(NewService(backend.Client()), apitest.Activity()).RegisterProtectedRoutes)

	res := apitest.Get(t, app, "/admin/hero/42/edit")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/admin/hero", res.Header.Get("Location"))
	require.Len(t, apitest.Flashes(res), 1)
	assert.Equal(t, web.Error, apitest.Flashes(res)[0].Kind)
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/session"
)

func nopLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func flashCookieFrom(res *http.Response) string {
	for _, ck := range res.Cookies() {
		if ck.Name == FlashCookie {
			return ck.Value
		}
	}
	return ""
}

func TestFlash_SurvivesRedirectOnce(t *testing.T) {
	app := fiber.New()
	app.Post("/save", func(c *fiber.Ctx) error {
		Notify(c, Success, "Product created")
		Notify(c, Error, "Image was not uploaded")
		return Redirect(c, "/show")
	})
	app.Get("/show", func(c *fiber.Ctx) error {
		return c.JSON(TakeFlashes(c))
	})

	res, err := app.Test(httptest.NewRequest("POST", "/save", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	value := flashCookieFrom(res)
	require.NotEmpty(t, value)

	req := httptest.NewRequest("GET", "/show", nil)
	req.Header.Set("Cookie", FlashCookie+"="+value)
	res, err = app.Test(req)
	require.NoError(t, err)

	var got []Flash
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, []Flash{{Success, "Product created"}, {Error, "Image was not uploaded"}}, got)
	assert.Empty(t, flashCookieFrom(res), "flash cookie should be cleared after display")
}

func TestFlash_GarbageCookieIgnored(t *testing.T) {
	app := fiber.New()
	app.Get("/show", func(c *fiber.Ctx) error {
		return c.SendString(fmt.Sprint(len(TakeFlashes(c))))
	})
	req := httptest.NewRequest("GET", "/show", nil)
	req.Header.Set("Cookie", FlashCookie+"=%%%not-base64")
	res, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	assert.Equal(t, "0", string(b))
}

func TestPagination_KeepsFilters(t *testing.T) {
	app := fiber.New()
	var links []PageLink
	app.Get("/admin/products", func(c *fiber.Ctx) error {
		links = Pagination(c, 7, 20)
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/admin/products?brandId=3&page=7&search=", nil))
	require.NoError(t, err)

	var labels []string
	for _, l := range links {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{"‹", "1", "…", "6", "7", "8", "9", "10", "…", "20", "›"}, labels)
	assert.Equal(t, "/admin/products?brandId=3&page=0", links[1].URL)
	assert.True(t, links[5].Active)
	assert.Equal(t, "/admin/products?brandId=3&page=19", links[9].URL)
	assert.NotContains(t, links[0].URL, "search")
}

func TestPagination_SinglePageHidden(t *testing.T) {
	app := fiber.New()
	var links []PageLink
	app.Get("/x", func(c *fiber.Ctx) error {
		links = Pagination(c, 0, 1)
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Nil(t, links)
}

func TestRowNumberAndSummary(t *testing.T) {
	assert.Equal(t, "21", RowNumber(2, 10, 0))
	assert.Equal(t, "Showing 21-25 of 25", Summary(2, 10, 5, 25))
	assert.Empty(t, Summary(0, 10, 0, 0))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, api.ErrMissingToken.Error(), Message(api.ErrMissingToken))
	assert.Equal(t, "the server could not be reached", Message(fmt.Errorf("call GET /products: %w", &url.Error{Op: "Get", URL: "http://backend", Err: errors.New("connection refused")})))
	assert.Equal(t, "name is required", Message(errors.New("name is required")))
}

func TestOptions(t *testing.T) {
	opts := Options("sale", "", "All", "new", "New", "sale", "On sale")
	require.Len(t, opts, 3)
	assert.True(t, opts[2].Selected)
	assert.False(t, opts[0].Selected)
}

func TestErrorHandler_MissingTokenSignsOut(t *testing.T) {
	sessions := session.NewManager("secret", false)
	app := fiber.New(fiber.Config{Views: Engine(), ErrorHandler: ErrorHandler(sessions, nopLogger())})
	app.Get("/boom", func(c *fiber.Ctx) error { return fmt.Errorf("load: %w", api.ErrMissingToken) })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	res, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, res.StatusCode)
	assert.Equal(t, session.ExpiredPath, res.Header.Get("Location"))

	res, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	b, _ := io.ReadAll(res.Body)
	assert.True(t, strings.Contains(string(b), "404"))
}

func TestFormFiles_SkipsEmptyParts(t *testing.T) {
	app := fiber.New()
	var got []Upload
	app.Post("/up", func(c *fiber.Ctx) error {
		var err error
		got, err = FormFiles(c, "imageFiles")
		return err
	})

	body := "--b\r\n" +
		"Content-Disposition: form-data; name=\"imageFiles\"; filename=\"a.png\"\r\n\r\nAAA\r\n" +
		"--b\r\n" +
		"Content-Disposition: form-data; name=\"imageFiles\"; filename=\"\"\r\n\r\n\r\n" +
		"--b--\r\n"
	req := httptest.NewRequest("POST", "/up", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	_, err := app.Test(req)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a.png", got[0].Filename)
	assert.Equal(t, "AAA", string(got[0].Content))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0 ₫", Money(0))
	assert.Equal(t, "999 ₫", Money(999))
	assert.Equal(t, "1.250.000 ₫", Money(1250000))
	assert.Equal(t, "-12.500 ₫", Money(-12500))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "05/03/2025 14:30", Date("2025-03-05T14:30:00"))
	assert.Equal(t, "05/03/2025 14:30", Date("2025-03-05T14:30:00.123Z"))
	assert.Equal(t, "N/A", Date(""))
	assert.Equal(t, "yesterday", Date("yesterday"))
}

// Package web holds what every admin screen shares: templates, the layout,
// notifications, pagination links and request helpers.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/session"
)

//go:embed templates static
var assets embed.FS

const (
	Layout     = "layouts/main"
	BareLayout = "layouts/bare"
)

type NavItem struct {
	Label string
	URL   string
}

// Nav is the sidebar of the admin area.
var Nav = []NavItem{
	{"Dashboard", "/admin"},
	{"Products", "/admin/products"},
	{"Categories", "/admin/categories"},
	{"Brands", "/admin/brands"},
	{"Orders", "/admin/orders"},
	{"Contacts", "/admin/contacts"},
	{"News", "/admin/news"},
	{"Hero sections", "/admin/hero"},
	{"Users", "/admin/users"},
	{"Roles", "/admin/roles"},
	{"Payment methods", "/admin/payment-methods"},
	{"Activity", "/admin/activity"},
}

// Engine parses the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(assets, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("active", func(current, item string) bool {
		if item == "/admin" {
			return current == "/admin" || current == "/admin/"
		}
		return current == item || strings.HasPrefix(current, item+"/")
	})
	engine.AddFunc("rownum", RowNumber)
	engine.AddFunc("nl2br", func(s string) template.HTML {
		return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
	})
	return engine
}

// Static serves the embedded stylesheet under /static.
func Static() fiber.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return filesystem.New(filesystem.Config{Root: http.FS(sub)})
}

// Render draws name inside the admin layout. Queued notifications and the
// signed-in account are added to data.
func Render(c *fiber.Ctx, name string, data fiber.Map) error {
	return render(c, name, data, Layout)
}

// RenderBare draws name without navigation, for the login screen.
func RenderBare(c *fiber.Ctx, name string, data fiber.Map) error {
	return render(c, name, data, BareLayout)
}

func render(c *fiber.Ctx, name string, data fiber.Map, layout string) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Flashes"] = TakeFlashes(c)
	data["Nav"] = Nav
	data["Path"] = c.Path()
	if s := session.FromCtx(c); s != nil {
		data["Account"] = s.Email()
	}
	return c.Render(name, data, layout)
}

// Fail queues a notification for a failed backend call. An expired session is
// left to the admin guard, which signs the user out.
func Fail(c *fiber.Ctx, what string, err error) {
	if errors.Is(err, api.ErrSessionExpired) {
		return
	}
	Notify(c, Error, what+": "+Message(err))
}

// Message is the user-facing wording of err.
func Message(err error) string {
	var apiErr *api.Error
	var urlErr *url.Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &urlErr):
		return "the server could not be reached"
	}
	return err.Error()
}

// Redirect sends the browser to url after a form post.
func Redirect(c *fiber.Ctx, url string) error {
	return c.Redirect(url, fiber.StatusSeeOther)
}

// ErrorHandler is the app-wide fiber error handler.
func ErrorHandler(sessions *session.Manager, log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrMissingToken) {
			sessions.Clear(c)
			return c.Redirect(session.ExpiredPath)
		}

		code := fiber.StatusInternalServerError
		message := "Something went wrong."
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.Is(err, ErrInvalidID):
			code = fiber.StatusBadRequest
			message = "The address refers to an invalid record."
		}
		entry := log.WithError(err).WithFields(logrus.Fields{"path": c.Path(), "status": code})
		if code >= fiber.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		c.Status(code)
		if rerr := render(c, "error", fiber.Map{"Title": "Error", "Status": code, "Message": message}, Layout); rerr != nil {
			return c.SendString(message)
		}
		return nil
	}
}

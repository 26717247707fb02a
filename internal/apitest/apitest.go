// Package apitest provides a scripted shop backend and a guarded admin app
// for screen tests.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const (
	Token = "backend-token"
	Email = "admin@shop.vn"
)

// Call is one request the backend received.
type Call struct {
	Method      string
	Path        string
	Query       url.Values
	Auth        string
	ContentType string
	Body        []byte
	Form        *multipart.Form
}

// Backend is an httptest server answering under /api.
type Backend struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []Call
}

func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{t: t, routes: map[string]http.HandlerFunc{}}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	call := Call{
		Method:      r.Method,
		Path:        path,
		Query:       r.URL.Query(),
		Auth:        r.Header.Get("Authorization"),
		ContentType: r.Header.Get("Content-Type"),
	}
	if strings.HasPrefix(call.ContentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(8 << 20); err == nil {
			call.Form = r.MultipartForm
		}
	} else {
		call.Body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(call.Body))
	}

	b.mu.Lock()
	b.calls = append(b.calls, call)
	h, ok := b.routes[r.Method+" "+path]
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no route for " + r.Method + " " + path})
		return
	}
	h(w, r)
}

// Handle registers h for method and path (without the /api prefix).
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

// JSON answers method and path with body encoded as JSON.
func (b *Backend) JSON(method, path string, status int, body any) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

// Fail answers method and path with an error payload.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.JSON(method, path, status, map[string]string{"message": message})
}

// Calls returns every request received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallsTo returns the requests received for method and path.
func (b *Backend) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (b *Backend) URL() string { return b.srv.URL + "/api" }

func (b *Backend) Client() *api.Client {
	return api.NewClient(b.URL(), 2*time.Second, api.WithLogger(Quiet()))
}

// Page is the paginated envelope the backend answers lists with.
func Page(content any, totalElements int64, totalPages int) map[string]any {
	return map[string]any{
		"content":       content,
		"pageNumber":    0,
		"pageSize":      10,
		"totalElements": totalElements,
		"totalPages":    totalPages,
		"lastPage":      totalPages <= 1,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Quiet is a logger that discards everything.
func Quiet() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Activity is an in-memory activity log for asserting recorded mutations.
func Activity() *activity.Service {
	return activity.NewService(activity.NewInMemoryRepository(50), Quiet())
}

// Recorded returns the logged mutations, newest first.
func Recorded(t *testing.T, log *activity.Service) []activity.Entry {
	t.Helper()
	entries, err := log.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("read activity: %v", err)
	}
	return entries
}

// App builds an admin app whose /admin group behaves as if an administrator
// were signed in. register adds the screens under test to the group.
func App(register func(admin fiber.Router)) *fiber.App {
	sessions := session.NewManager("test-secret", false, session.WithLogger(Quiet()))
	app := fiber.New(fiber.Config{
		Views:        web.Engine(),
		ErrorHandler: web.ErrorHandler(sessions, Quiet()),
	})
	admin := app.Group("/admin", func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"token": Token,
			"roles": []interface{}{session.AdminRole},
			"email": Email,
			"uid":   float64(1),
		}})
		return c.Next()
	}, sessions.RequireAdmin())
	register(admin)
	return app
}

// Routes lists the registered routes as "METHOD path".
func Routes(app *fiber.App) map[string]bool {
	routes := map[string]bool{}
	for _, stack := range app.Stack() {
		for _, r := range stack {
			routes[r.Method+" "+r.Path] = true
		}
	}
	return routes
}

// Get performs a GET against app.
func Get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	res, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("GET %s failed: %v", target, err)
	}
	return res
}

// PostForm submits an urlencoded form.
func PostForm(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("POST %s failed: %v", target, err)
	}
	return res
}

// File is a file part for PostMultipart.
type File struct {
	Field, Name string
	Content     []byte
}

// PostMultipart submits fields and files as multipart/form-data.
func PostMultipart(t *testing.T, app *fiber.App, target string, fields url.Values, files ...File) *http.Response {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, vs := range fields {
		for _, v := range vs {
			_ = w.WriteField(k, v)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(f.Content)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, target, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("POST %s failed: %v", target, err)
	}
	return res
}

// Body reads the whole response body.
func Body(t *testing.T, res *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// Flashes decodes the notifications a response queued for the next page.
func Flashes(res *http.Response) []web.Flash {
	for _, ck := range res.Cookies() {
		if ck.Name == web.FlashCookie {
			return web.DecodeFlashes(ck.Value)
		}
	}
	return nil
}

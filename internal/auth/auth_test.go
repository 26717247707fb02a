package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhBui2k4/CDTT/internal/apitest"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

func setup(t *testing.T, limiter *Limiter) (*apitest.Backend, *session.Manager, *fiber.App) {
	t.Helper()
	backend := apitest.NewBackend(t)
	sessions := session.NewManager("test-secret", false, session.WithLogger(apitest.Quiet()))
	app := fiber.New(fiber.Config{
		Views:        web.Engine(),
		ErrorHandler: web.ErrorHandler(sessions, apitest.Quiet()),
	})
	NewHandler(NewService(backend.Client()), sessions, limiter, apitest.Quiet()).RegisterPublicRoutes(app)
	return backend, sessions, app
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, ck := range res.Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	return nil
}

func credentialsForm() url.Values {
	return url.Values{"email": {apitest.Email}, "password": {"secret"}}
}

func TestUserID_AcceptsStringAndNumber(t *testing.T) {
	var res loginResponse
	require.NoError(t, json.Unmarshal([]byte(`{"userId":"12"}`), &res))
	assert.Equal(t, userID(12), res.UserID)
	require.NoError(t, json.Unmarshal([]byte(`{"userId":7}`), &res))
	assert.Equal(t, userID(7), res.UserID)
	assert.Error(t, json.Unmarshal([]byte(`{"userId":"abc"}`), &res))
}

func TestService_Login(t *testing.T) {
	backend := apitest.NewBackend(t)
	backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{
		"token": "tok", "roles": []string{"USER", "ADMIN"}, "userId": "3", "email": apitest.Email, "message": "ok",
	})

	sess, err := NewService(backend.Client()).Login(context.Background(), "  "+apitest.Email+" ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token())
	assert.Equal(t, int64(3), sess.UserID())
	assert.True(t, sess.IsAdmin())

	calls := backend.CallsTo(http.MethodPost, "/auth/login")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth)
	assert.JSONEq(t, `{"email":"admin@shop.vn","password":"secret"}`, string(calls[0].Body))
}

func TestService_LoginRejectsNonAdmin(t *testing.T) {
	backend := apitest.NewBackend(t)
	backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{
		"token": "tok", "roles": []string{"USER"}, "userId": 4,
	})

	_, err := NewService(backend.Client()).Login(context.Background(), "buyer@shop.vn", "secret")
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestService_LoginNeedsCredentials(t *testing.T) {
	backend := apitest.NewBackend(t)
	_, err := NewService(backend.Client()).Login(context.Background(), " ", "secret")
	assert.ErrorIs(t, err, ErrCredentialsMissing)
	assert.Empty(t, backend.Calls())
}

func TestHandler_LoginPersistsSession(t *testing.T) {
	backend, sessions, app := setup(t, NewLimiter(LoginRefill, LoginBurst))
	backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{
		"token": "tok", "roles": []string{"ADMIN"}, "userId": 1, "email": apitest.Email,
	})

	res := apitest.PostForm(t, app, "/login", credentialsForm())
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, HomePath, res.Header.Get("Location"))

	ck := sessionCookie(res)
	require.NotNil(t, ck)
	sess, err := sessions.Decode(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token())
	assert.Equal(t, apitest.Email, sess.Email())
}

func TestHandler_LoginFailureShowsForm(t *testing.T) {
	backend, _, app := setup(t, NewLimiter(LoginRefill, LoginBurst))
	backend.Fail(http.MethodPost, "/auth/login", http.StatusUnauthorized, "Invalid email or password")

	res := apitest.PostForm(t, app, "/login", credentialsForm())
	body := apitest.Body(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, "Sign-in failed: Invalid email or password")
	assert.Contains(t, body, `value="admin@shop.vn"`)
	assert.Nil(t, sessionCookie(res))
}

func TestHandler_LoginRefusesNonAdmin(t *testing.T) {
	backend, _, app := setup(t, NewLimiter(LoginRefill, LoginBurst))
	backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{
		"token": "tok", "roles": []string{"USER"}, "userId": 9,
	})

	res := apitest.PostForm(t, app, "/login", credentialsForm())
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, apitest.Body(t, res), ErrNotAdmin.Error())
	assert.Nil(t, sessionCookie(res))
}

func TestHandler_LoginThrottled(t *testing.T) {
	backend, _, app := setup(t, NewLimiter(time.Hour, 2))
	backend.Fail(http.MethodPost, "/auth/login", http.StatusUnauthorized, "Invalid email or password")

	for i := 0; i < 2; i++ {
		res := apitest.PostForm(t, app, "/login", credentialsForm())
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}
	res := apitest.PostForm(t, app, "/login", credentialsForm())
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Contains(t, apitest.Body(t, res), "too many sign-in attempts")
	assert.Len(t, backend.CallsTo(http.MethodPost, "/auth/login"), 2)
}

func TestHandler_ExpiredNotice(t *testing.T) {
	_, _, app := setup(t, NewLimiter(LoginRefill, LoginBurst))

	res := apitest.Get(t, app, session.ExpiredPath)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, apitest.Body(t, res), "Your session has expired")

	res = apitest.Get(t, app, session.LoginPath)
	assert.NotContains(t, apitest.Body(t, res), "Your session has expired")
}

func TestHandler_Logout(t *testing.T) {
	_, _, app := setup(t, NewLimiter(LoginRefill, LoginBurst))

	res := apitest.PostForm(t, app, "/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, session.LoginPath, res.Header.Get("Location"))
	ck := sessionCookie(res)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
}

func TestLimiter_PerClient(t *testing.T) {
	l := NewLimiter(time.Hour, 1)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

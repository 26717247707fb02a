package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

const (
	CookieName = "admin_session"
	LoginPath  = "/login"

	// ExpiredPath is where a session ended by the backend lands.
	ExpiredPath = LoginPath + "?expired=1"

	localsKey = "admin_session"
	claimsKey = "user"
)

var ErrNoSession = errors.New("no session")

// Manager signs, stores and validates the session cookie.
type Manager struct {
	secret []byte
	secure bool
	log    logrus.FieldLogger

	onExpired func()
}

type ManagerOption func(*Manager)

func WithLogger(log logrus.FieldLogger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// WithExpiredHook is called every time a request ends with an expired session.
func WithExpiredHook(fn func()) ManagerOption {
	return func(m *Manager) { m.onExpired = fn }
}

func NewManager(secret string, secure bool, opts ...ManagerOption) *Manager {
	m := &Manager{
		secret:    []byte(secret),
		secure:    secure,
		log:       logrus.StandardLogger(),
		onExpired: func() {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Encode signs the session into the cookie value. The cookie carries no exp
// claim; the backend decides when the token stops being valid.
func (m *Manager) Encode(s *Session) (string, error) {
	claims := jwt.MapClaims{
		"token": s.token,
		"roles": s.roles,
		"email": s.email,
		"uid":   s.userID,
		"iat":   time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies a cookie value produced by Encode.
func (m *Manager) Decode(raw string) (*Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return fromToken(tok)
}

// Persist writes the session cookie.
func (m *Manager) Persist(c *fiber.Ctx, s *Session) error {
	value, err := m.Encode(s)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie.
func (m *Manager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// RequireToken verifies the cookie signature and stores the parsed token in
// c.Locals("user"). A missing or forged cookie sends the browser to the login page.
func (m *Manager) RequireToken() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    m.secret,
		SigningMethod: "HS256",
		TokenLookup:   "cookie:" + CookieName,
		ContextKey:    claimsKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			m.log.WithError(err).WithField("path", c.Path()).Debug("session cookie rejected")
			m.Clear(c)
			return c.Redirect(LoginPath)
		},
	})
}

// RequireAdmin must run after RequireToken. It rebuilds the Session from the
// verified claims, refuses non-administrators, and after the handler runs
// ends the session if any backend call rejected its token.
func (m *Manager) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, ok := c.Locals(claimsKey).(*jwt.Token)
		if !ok {
			m.Clear(c)
			return c.Redirect(LoginPath)
		}
		sess, err := fromToken(tok)
		if err != nil || sess.Token() == "" || !sess.IsAdmin() {
			m.log.WithField("path", c.Path()).Info("session without admin rights")
			m.Clear(c)
			return c.Redirect(LoginPath)
		}
		Attach(c, sess)

		err = c.Next()
		if sess.Expired() {
			return m.endExpired(c, sess)
		}
		return err
	}
}

func (m *Manager) endExpired(c *fiber.Ctx, sess *Session) error {
	m.log.WithFields(logrus.Fields{"email": sess.email, "path": c.Path()}).Warn("session expired, signing out")
	m.onExpired()
	m.Clear(c)
	c.Response().ResetBody()
	return c.Redirect(ExpiredPath)
}

// Attach makes s the session of the current request.
func Attach(c *fiber.Ctx, s *Session) {
	c.Locals(localsKey, s)
}

// FromCtx returns the session RequireAdmin attached to c, or nil.
func FromCtx(c *fiber.Ctx) *Session {
	s, _ := c.Locals(localsKey).(*Session)
	return s
}

func fromToken(tok *jwt.Token) (*Session, error) {
	if tok == nil {
		return nil, ErrNoSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNoSession
	}
	token, _ := claims["token"].(string)
	if token == "" {
		return nil, ErrNoSession
	}
	email, _ := claims["email"].(string)

	var roles []string
	switch v := claims["roles"].(type) {
	case []interface{}:
		for _, r := range v {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
	case []string:
		roles = v
	}

	var uid int64
	switch v := claims["uid"].(type) {
	case float64:
		uid = int64(v)
	case int64:
		uid = v
	case int:
		uid = int64(v)
	}
	return New(token, roles, email, uid), nil
}

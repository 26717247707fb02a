package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

// HomePath is where a successful sign-in lands.
const HomePath = "/admin"

type Handler struct {
	service  *Service
	sessions *session.Manager
	limiter  *Limiter
	log      logrus.FieldLogger
}

func NewHandler(service *Service, sessions *session.Manager, limiter *Limiter, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, sessions: sessions, limiter: limiter, log: log}
}

func (h *Handler) RegisterPublicRoutes(router fiber.Router) {
	router.Get(session.LoginPath, h.showLogin)
	router.Post(session.LoginPath, h.login)
	router.Post("/logout", h.logout)
}

func (h *Handler) showLogin(c *fiber.Ctx) error {
	if c.Query("expired") != "" {
		web.Notify(c, web.Info, "Your session has expired. Please sign in again.")
	}
	return renderLogin(c, "")
}

func (h *Handler) login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	if !h.limiter.Allow(c.IP()) {
		h.log.WithField("ip", c.IP()).Warn("login throttled")
		web.Notify(c, web.Error, ErrThrottled.Error())
		c.Status(fiber.StatusTooManyRequests)
		return renderLogin(c, email)
	}

	sess, err := h.service.Login(c.UserContext(), email, c.FormValue("password"))
	if err != nil {
		entry := h.log.WithField("email", email).WithError(err)
		if errors.Is(err, ErrNotAdmin) {
			entry.Warn("login refused for non-admin account")
		} else {
			entry.Info("login failed")
		}
		web.Notify(c, web.Error, "Sign-in failed: "+web.Message(err))
		c.Status(fiber.StatusUnauthorized)
		return renderLogin(c, email)
	}

	if err := h.sessions.Persist(c, sess); err != nil {
		return err
	}
	h.log.WithField("email", sess.Email()).Info("administrator signed in")
	return web.Redirect(c, HomePath)
}

func (h *Handler) logout(c *fiber.Ctx) error {
	h.sessions.Clear(c)
	return web.Redirect(c, session.LoginPath)
}

func renderLogin(c *fiber.Ctx, email string) error {
	return web.RenderBare(c, "login", fiber.Map{"Title": "Sign in", "Email": email})
}

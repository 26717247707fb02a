package web

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// FlashCookie carries queued notifications across a redirect.
	FlashCookie = "admin_flash"
	flashLocals = "web.flash"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    Kind   `json:"k"`
	Message string `json:"m"`
}

// Notify queues a notification. It survives a redirect through the flash
// cookie and is shown by the next Render, in this request or the next one.
func Notify(c *fiber.Ctx, kind Kind, message string) {
	pending := append(flashes(c), Flash{Kind: kind, Message: message})
	c.Locals(flashLocals, pending)
	writeFlashCookie(c, pending)
}

// TakeFlashes returns every queued notification and forgets them.
func TakeFlashes(c *fiber.Ctx) []Flash {
	pending := flashes(c)
	c.Locals(flashLocals, []Flash{})
	if len(pending) > 0 || c.Cookies(FlashCookie) != "" {
		writeFlashCookie(c, nil)
	}
	return pending
}

func flashes(c *fiber.Ctx) []Flash {
	if pending, ok := c.Locals(flashLocals).([]Flash); ok {
		return pending
	}
	pending := DecodeFlashes(c.Cookies(FlashCookie))
	c.Locals(flashLocals, pending)
	return pending
}

func writeFlashCookie(c *fiber.Ctx, pending []Flash) {
	cookie := &fiber.Cookie{
		Name:     FlashCookie,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if len(pending) == 0 {
		cookie.Expires = time.Unix(0, 0)
		cookie.MaxAge = -1
	} else {
		cookie.Value = encodeFlashes(pending)
	}
	c.Cookie(cookie)
}

func encodeFlashes(pending []Flash) string {
	b, err := json.Marshal(pending)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeFlashes reads a FlashCookie value; a malformed value holds no notifications.
func DecodeFlashes(raw string) []Flash {
	if raw == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var pending []Flash
	if err := json.Unmarshal(b, &pending); err != nil {
		return nil
	}
	return pending
}

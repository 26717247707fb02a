package activity

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/MinhBui2k4/CDTT/internal/web"
)

// Resources are the values the activity screen can filter on.
var Resources = []string{
	"product", "category", "brand", "order", "contact", "news",
	"hero", "user", "role", "payment-method",
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/activity", h.list)
}

func (h *Handler) list(c *fiber.Ctx) error {
	var resources []string
	selected := strings.TrimSpace(c.Query("resource"))
	if selected != "" {
		resources = []string{selected}
	}

	entries, err := h.service.Recent(c.UserContext(), 100, resources...)
	if err != nil {
		web.Notify(c, web.Error, "Could not load the activity log")
	}

	pairs := []string{"", "All"}
	for _, r := range Resources {
		pairs = append(pairs, r, r)
	}
	return web.Render(c, "list", fiber.Map{
		"Title": "Activity",
		"View": web.ListView{
			Title:   "Activity",
			Filters: []web.Filter{{Name: "resource", Label: "Resource", Options: web.Options(selected, pairs...)}},
			Table:   Table(entries),
		},
	})
}

// Table renders entries as the activity grid, also used on the dashboard.
func Table(entries []Entry) web.Table {
	t := web.Table{
		Columns: []string{"When", "Who", "Resource", "Action", "Record"},
		Empty:   "No changes recorded yet.",
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, web.Row{Cells: []web.Cell{
			{Text: e.At.Local().Format("02/01/2006 15:04")},
			{Text: e.Actor},
			{Text: e.Resource},
			{Badge: e.Action, Tone: tone(e.Action)},
			{Text: "#" + web.Itoa(e.EntityID)},
		}})
	}
	return t
}

func tone(action string) string {
	switch action {
	case ActionCreate:
		return "success"
	case ActionDelete:
		return "danger"
	case ActionStatus:
		return "info"
	}
	return "warning"
}

package contact

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const screen = "/admin/contacts"

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(s *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: s, activity: recorder}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/contacts", h.list)
	router.Get("/contacts/:id<int>", h.view)
	router.Post("/contacts/:id<int>/status", h.updateStatus)
	router.Post("/contacts/:id<int>/delete", h.delete)
}

func (h *Handler) list(c *fiber.Ctx) error {
	q := web.PageQuery(c)
	page, err := h.service.List(c.UserContext(), session.FromCtx(c), q)
	if err != nil {
		web.Fail(c, "Could not load contacts", err)
	}

	t := web.Table{Columns: []string{"#", "Name", "Email", "Subject", "Status", "Received"}, Empty: "No messages."}
	for i, ct := range page.Content {
		t.Rows = append(t.Rows, web.Row{
			Cells: []web.Cell{
				{Text: web.RowNumber(q.PageNumber, q.PageSize, i)},
				{Text: ct.Name, Link: fmt.Sprintf("%s/%d", screen, ct.ID)},
				{Text: ct.Email},
				{Text: web.Truncate(web.OrNA(web.Deref(ct.Subject)), 40)},
				{Badge: ct.Status, Tone: StatusTone(ct.Status)},
				{Text: web.Date(ct.CreatedAt)},
			},
			Actions: []web.Action{
				web.ViewAction(fmt.Sprintf("%s/%d", screen, ct.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, ct.ID), "message"),
			},
		})
	}
	return web.Render(c, "list", fiber.Map{
		"Title": "Contacts",
		"View": web.ListView{
			Title:   "Contacts",
			Table:   t,
			Pages:   web.Pagination(c, q.PageNumber, page.TotalPages),
			Summary: web.Summary(q.PageNumber, q.PageSize, len(page.Content), page.TotalElements),
		},
	})
}

func (h *Handler) view(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	ct, err := h.service.Get(c.UserContext(), session.FromCtx(c), id)
	if err != nil {
		web.Fail(c, "Could not load message", err)
		return web.Redirect(c, screen)
	}

	var statuses []string
	for _, s := range Statuses {
		statuses = append(statuses, s, s)
	}
	return web.Render(c, "detail", fiber.Map{
		"Title": "Message from " + ct.Name,
		"View": web.DetailView{
			Title: "Message from " + ct.Name,
			Items: []web.Item{
				{Label: "Email", Value: ct.Email, Link: "mailto:" + ct.Email},
				{Label: "Phone", Value: web.OrNA(web.Deref(ct.Phone))},
				{Label: "Subject", Value: web.OrNA(web.Deref(ct.Subject))},
				{Label: "Status", Badge: ct.Status, Tone: StatusTone(ct.Status)},
				{Label: "Received", Value: web.Date(ct.CreatedAt)},
				{Label: "Message", Value: ct.Message},
			},
			Sections: []web.Section{{
				Title: "Update status",
				Form: &web.FormView{
					Action: fmt.Sprintf("%s/%d/status", screen, ct.ID),
					Submit: "Update",
					Fields: []web.Field{{Name: "status", Label: "Status", Type: "select", Options: web.Options(ct.Status, statuses...)}},
				},
			}},
			Actions: []web.Action{web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, ct.ID), "message")},
			Back:    screen,
		},
	})
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	back := fmt.Sprintf("%s/%d", screen, id)
	status := c.FormValue("status")
	if _, err := h.service.UpdateStatus(c.UserContext(), sess, id, status); err != nil {
		web.Fail(c, "Could not update status", err)
		return web.Redirect(c, back)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "contact", activity.ActionStatus, id)
	web.Notify(c, web.Success, "Status set to "+status)
	return web.Redirect(c, back)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.service.Delete(c.UserContext(), sess, id); err != nil {
		web.Fail(c, "Could not delete message", err)
		return web.Redirect(c, screen)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "contact", activity.ActionDelete, id)
	web.Notify(c, web.Success, "Message deleted")
	return web.Redirect(c, screen)
}

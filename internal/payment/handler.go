package payment

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const screen = "/admin/payment-methods"

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(s *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: s, activity: recorder}
}

// RegisterProtectedRoutes mounts the payment method screens. The backend has
// no single-method lookup, so the edit form is filled from the listed row.
func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/payment-methods", h.list)
	router.Post("/payment-methods", h.create)
	router.Post("/payment-methods/:id<int>", h.update)
	router.Post("/payment-methods/:id<int>/delete", h.delete)
}

func (h *Handler) list(c *fiber.Ctx) error {
	q := web.PageQuery(c)
	page, err := h.service.List(c.UserContext(), session.FromCtx(c), q)
	if err != nil {
		web.Fail(c, "Could not load payment-methods", err)
	}

	view := web.ListView{
		Title:   "Payment methods",
		Create:  &web.Action{Label: "Add payment method", URL: screen + "?new=1"},
		Table:   table(page.Content, q.PageNumber, q.PageSize),
		Pages:   web.Pagination(c, q.PageNumber, page.TotalPages),
		Summary: web.Summary(q.PageNumber, q.PageSize, len(page.Content), page.TotalElements),
	}
	if c.Query("new") != "" {
		view.Form = form(0, Input{})
	} else if id := web.QueryInt64(c, "edit"); id != nil {
		for _, m := range page.Content {
			if m.ID == *id {
				view.Form = form(m.ID, Input{Name: m.Name, Description: web.Deref(m.Description)})
			}
		}
	}
	return web.Render(c, "list", fiber.Map{"Title": "Payment methods", "View": view})
}

func (h *Handler) create(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	created, err := h.service.Create(c.UserContext(), sess, readInput(c))
	if err != nil {
		web.Fail(c, "Could not add payment method", err)
		return web.Redirect(c, screen+"?new=1")
	}
	h.activity.Record(c.UserContext(), sess.Email(), "payment-method", activity.ActionCreate, created.ID)
	web.Notify(c, web.Success, "Payment method added")
	return web.Redirect(c, screen)
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if _, err := h.service.Update(c.UserContext(), sess, id, readInput(c)); err != nil {
		web.Fail(c, "Could not update payment method", err)
		return web.Redirect(c, fmt.Sprintf("%s?edit=%d", screen, id))
	}
	h.activity.Record(c.UserContext(), sess.Email(), "payment-method", activity.ActionUpdate, id)
	web.Notify(c, web.Success, "Payment method updated")
	return web.Redirect(c, screen)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.service.Delete(c.UserContext(), sess, id); err != nil {
		web.Fail(c, "Could not delete payment method", err)
		return web.Redirect(c, screen)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "payment-method", activity.ActionDelete, id)
	web.Notify(c, web.Success, "Payment method deleted")
	return web.Redirect(c, screen)
}

func readInput(c *fiber.Ctx) Input {
	return Input{Name: c.FormValue("name"), Description: c.FormValue("description")}
}

func table(methods []Method, page, size int) web.Table {
	t := web.Table{Columns: []string{"#", "Name", "Description"}, Empty: "No payment methods configured."}
	for i, m := range methods {
		t.Rows = append(t.Rows, web.Row{
			Cells: []web.Cell{
				{Text: web.RowNumber(page, size, i)},
				{Text: m.Name},
				{Text: web.OrNA(web.Deref(m.Description))},
			},
			Actions: []web.Action{
				web.EditAction(fmt.Sprintf("%s?edit=%d", screen, m.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, m.ID), "payment method"),
			},
		})
	}
	return t
}

func form(id int64, in Input) *web.FormView {
	f := &web.FormView{
		Title:  "New payment method",
		Action: screen,
		Submit: "Add",
		Cancel: screen,
		Fields: []web.Field{
			{Name: "name", Label: "Name", Type: "text", Value: in.Name, Required: true},
			{Name: "description", Label: "Description", Type: "textarea", Value: in.Description},
		},
	}
	if id != 0 {
		f.Title = "Edit payment method"
		f.Action = fmt.Sprintf("%s/%d", screen, id)
		f.Submit = "Save"
	}
	return f
}

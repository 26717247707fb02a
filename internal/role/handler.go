package role

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const screen = "/admin/roles"

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(s *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: s, activity: recorder}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/roles", h.list)
	router.Post("/roles", h.create)
	router.Post("/roles/:id<int>", h.update)
	router.Post("/roles/:id<int>/delete", h.delete)
}

func (h *Handler) list(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), session.FromCtx(c)
	roles, err := h.service.List(ctx, sess)
	if err != nil {
		web.Fail(c, "Could not load roles", err)
	}

	view := web.ListView{
		Title:  "Roles",
		Create: &web.Action{Label: "Add role", URL: screen + "?new=1"},
		Table:  table(roles),
	}
	switch id := web.QueryInt64(c, "edit"); {
	case c.Query("new") != "":
		view.Form = form(Role{})
	case id != nil:
		r, err := h.service.Get(ctx, sess, *id)
		if err != nil {
			web.Fail(c, "Could not load role", err)
			break
		}
		view.Form = form(r)
	}
	return web.Render(c, "list", fiber.Map{"Title": "Roles", "View": view})
}

func (h *Handler) create(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	created, err := h.service.Create(c.UserContext(), sess, Input{Name: c.FormValue("name")})
	if err != nil {
		web.Fail(c, "Could not add role", err)
		return web.Redirect(c, screen+"?new=1")
	}
	h.activity.Record(c.UserContext(), sess.Email(), "role", activity.ActionCreate, created.ID)
	web.Notify(c, web.Success, "Role "+created.Name+" added")
	return web.Redirect(c, screen)
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if _, err := h.service.Update(c.UserContext(), sess, id, Input{Name: c.FormValue("name")}); err != nil {
		web.Fail(c, "Could not update role", err)
		return web.Redirect(c, fmt.Sprintf("%s?edit=%d", screen, id))
	}
	h.activity.Record(c.UserContext(), sess.Email(), "role", activity.ActionUpdate, id)
	web.Notify(c, web.Success, "Role updated")
	return web.Redirect(c, screen)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.service.Delete(c.UserContext(), sess, id); err != nil {
		web.Fail(c, "Could not delete role", err)
		return web.Redirect(c, screen)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "role", activity.ActionDelete, id)
	web.Notify(c, web.Success, "Role deleted")
	return web.Redirect(c, screen)
}

func table(roles []Role) web.Table {
	t := web.Table{Columns: []string{"#", "Name"}, Empty: "No roles defined."}
	for i, r := range roles {
		tone := "default"
		if r.Name == Admin {
			tone = "warning"
		}
		t.Rows = append(t.Rows, web.Row{
			Cells: []web.Cell{{Text: web.RowNumber(0, 0, i)}, {Badge: r.Name, Tone: tone}},
			Actions: []web.Action{
				web.EditAction(fmt.Sprintf("%s?edit=%d", screen, r.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, r.ID), "role"),
			},
		})
	}
	return t
}

func form(r Role) *web.FormView {
	f := &web.FormView{
		Title:  "New role",
		Action: screen,
		Submit: "Add",
		Cancel: screen,
		Fields: []web.Field{{Name: "name", Label: "Name", Type: "text", Value: r.Name, Required: true, Help: "Stored upper-case, e.g. ADMIN"}},
	}
	if r.ID != 0 {
		f.Title = "Edit role"
		f.Action = fmt.Sprintf("%s/%d", screen, r.ID)
		f.Submit = "Save"
	}
	return f
}

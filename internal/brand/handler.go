package brand

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const screen = "/admin/brands"

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(s *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: s, activity: recorder}
}

// RegisterProtectedRoutes mounts the brand screens on the admin group.
// Brands are edited in place on the list page.
func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/brands", h.list)
	router.Post("/brands", h.create)
	router.Post("/brands/:id<int>", h.update)
	router.Post("/brands/:id<int>/delete", h.delete)
}

func (h *Handler) list(c *fiber.Ctx) error {
	q := web.PageQuery(c)
	page, err := h.service.List(c.UserContext(), session.FromCtx(c), q)
	if err != nil {
		web.Fail(c, "Could not load brands", err)
	}

	view := web.ListView{
		Title:   "Brands",
		Create:  &web.Action{Label: "Add brand", URL: screen + "?new=1"},
		Table:   table(page.Content, q.PageNumber, q.PageSize),
		Pages:   web.Pagination(c, q.PageNumber, page.TotalPages),
		Summary: web.Summary(q.PageNumber, q.PageSize, len(page.Content), page.TotalElements),
	}
	if c.Query("new") != "" {
		view.Form = form(0, Input{})
	} else if id := web.QueryInt64(c, "edit"); id != nil {
		for _, b := range page.Content {
			if b.ID == *id {
				view.Form = form(b.ID, Input{Name: b.Name, Description: b.Description})
			}
		}
	}
	return web.Render(c, "list", fiber.Map{"Title": "Brands", "View": view})
}

func (h *Handler) create(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	created, err := h.service.Create(c.UserContext(), sess, readInput(c))
	if err != nil {
		web.Fail(c, "Could not add brand", err)
		return web.Redirect(c, screen+"?new=1")
	}
	h.activity.Record(c.UserContext(), sess.Email(), "brand", activity.ActionCreate, created.ID)
	web.Notify(c, web.Success, "Brand added")
	return web.Redirect(c, screen)
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if _, err := h.service.Update(c.UserContext(), sess, id, readInput(c)); err != nil {
		web.Fail(c, "Could not update brand", err)
		return web.Redirect(c, fmt.Sprintf("%s?edit=%d", screen, id))
	}
	h.activity.Record(c.UserContext(), sess.Email(), "brand", activity.ActionUpdate, id)
	web.Notify(c, web.Success, "Brand updated")
	return web.Redirect(c, screen)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.service.Delete(c.UserContext(), sess, id); err != nil {
		web.Fail(c, "Could not delete brand", err)
		return web.Redirect(c, screen)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "brand", activity.ActionDelete, id)
	web.Notify(c, web.Success, "Brand deleted")
	return web.Redirect(c, screen)
}

func readInput(c *fiber.Ctx) Input {
	return Input{Name: c.FormValue("name"), Description: c.FormValue("description")}
}

func table(brands []Brand, page, size int) web.Table {
	t := web.Table{Columns: []string{"#", "Name", "Description"}, Empty: "No brands yet."}
	for i, b := range brands {
		t.Rows = append(t.Rows, web.Row{
			Cells: []web.Cell{
				{Text: web.RowNumber(page, size, i)},
				{Text: b.Name, Link: fmt.Sprintf("/admin/products?brandId=%d", b.ID)},
				{Text: web.OrNA(web.Truncate(b.Description, 80))},
			},
			Actions: []web.Action{
				web.EditAction(fmt.Sprintf("%s?edit=%d", screen, b.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, b.ID), "brand"),
			},
		})
	}
	return t
}

func form(id int64, in Input) *web.FormView {
	f := &web.FormView{
		Title:  "New brand",
		Action: screen,
		Submit: "Add",
		Cancel: screen,
		Fields: []web.Field{
			{Name: "name", Label: "Name", Type: "text", Value: in.Name, Required: true},
			{Name: "description", Label: "Description", Type: "textarea", Value: in.Description},
		},
	}
	if id != 0 {
		f.Title = "Edit brand"
		f.Action = fmt.Sprintf("%s/%d", screen, id)
		f.Submit = "Save"
	}
	return f
}

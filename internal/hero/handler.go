package hero

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const screen = "/admin/hero"

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(s *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: s, activity: recorder}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/hero", h.list)
	router.Get("/hero/new", h.newForm)
	router.Post("/hero", h.create)
	router.Get("/hero/:id<int>", h.view)
	router.Get("/hero/:id<int>/edit", h.editForm)
	router.Post("/hero/:id<int>", h.update)
	router.Post("/hero/:id<int>/delete", h.delete)
}

func (h *Handler) list(c *fiber.Ctx) error {
	q := web.PageQuery(c)
	if c.Query("size") == "" {
		q.PageSize = PageSize
	}
	page, err := h.service.List(c.UserContext(), session.FromCtx(c), q)
	if err != nil {
		web.Fail(c, "Could not load hero sections", err)
	}

	t := web.Table{Columns: []string{"#", "Background", "Heading", "Subheading"}, Empty: "No hero sections."}
	for i, s := range page.Content {
		t.Rows = append(t.Rows, web.Row{
			Cells: []web.Cell{
				{Text: web.RowNumber(q.PageNumber, q.PageSize, i)},
				{Image: h.service.ImageURL(s)},
				{Text: s.Heading, Link: fmt.Sprintf("%s/%d", screen, s.ID)},
				{Text: web.Truncate(web.OrNA(s.Subheading), 60)},
			},
			Actions: []web.Action{
				web.EditAction(fmt.Sprintf("%s/%d/edit", screen, s.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, s.ID), "hero section"),
			},
		})
	}
	return web.Render(c, "list", fiber.Map{
		"Title": "Hero sections",
		"View": web.ListView{
			Title:   "Hero sections",
			Create:  &web.Action{Label: "Add hero section", URL: screen + "/new"},
			Table:   t,
			Pages:   web.Pagination(c, q.PageNumber, page.TotalPages),
			Summary: web.Summary(q.PageNumber, q.PageSize, len(page.Content), page.TotalElements),
		},
	})
}

func (h *Handler) view(c *fiber.Ctx) error {
	s, ok := h.load(c)
	if !ok {
		return web.Redirect(c, screen)
	}
	return web.Render(c, "detail", fiber.Map{
		"Title": s.Heading,
		"View": web.DetailView{
			Title:  s.Heading,
			Images: []string{h.service.ImageURL(s)},
			Items:  []web.Item{{Label: "Subheading", Value: web.OrNA(s.Subheading)}},
			Actions: []web.Action{
				web.EditAction(fmt.Sprintf("%s/%d/edit", screen, s.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, s.ID), "hero section"),
			},
			Back: screen,
		},
	})
}

func (h *Handler) load(c *fiber.Ctx) (Section, bool) {
	id, err := web.ParamID(c)
	if err != nil {
		web.Notify(c, web.Error, "Invalid hero section")
		return Section{}, false
	}
	s, err := h.service.Get(c.UserContext(), session.FromCtx(c), id)
	if err != nil {
		web.Fail(c, "Could not load hero section", err)
		return Section{}, false
	}
	return s, true
}

func (h *Handler) newForm(c *fiber.Ctx) error {
	return h.renderForm(c, Section{})
}

func (h *Handler) editForm(c *fiber.Ctx) error {
	s, ok := h.load(c)
	if !ok {
		return web.Redirect(c, screen)
	}
	return h.renderForm(c, s)
}

func (h *Handler) create(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	created, err := h.service.Create(c.UserContext(), sess, in)
	if err != nil {
		web.Fail(c, "Could not add hero section", err)
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderForm(c, Section{Heading: in.Heading, Subheading: in.Subheading})
	}
	h.activity.Record(c.UserContext(), sess.Email(), "hero", activity.ActionCreate, created.ID)
	web.Notify(c, web.Success, "Hero section added")
	return web.Redirect(c, screen)
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	in, err := readInput(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if _, err := h.service.Update(c.UserContext(), sess, id, in); err != nil {
		web.Fail(c, "Could not update hero section", err)
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderForm(c, Section{ID: id, Heading: in.Heading, Subheading: in.Subheading})
	}
	h.activity.Record(c.UserContext(), sess.Email(), "hero", activity.ActionUpdate, id)
	web.Notify(c, web.Success, "Hero section updated")
	return web.Redirect(c, screen)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.service.Delete(c.UserContext(), sess, id); err != nil {
		web.Fail(c, "Could not delete hero section", err)
		return web.Redirect(c, screen)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "hero", activity.ActionDelete, id)
	web.Notify(c, web.Success, "Hero section deleted")
	return web.Redirect(c, screen)
}

func readInput(c *fiber.Ctx) (Input, error) {
	bg, err := web.FormFile(c, "backgroundImageFile")
	if err != nil {
		return Input{}, err
	}
	return Input{Heading: c.FormValue("heading"), Subheading: c.FormValue("subheading"), Background: bg}, nil
}

func (h *Handler) renderForm(c *fiber.Ctx, s Section) error {
	view := web.FormView{
		Title:     "New hero section",
		Action:    screen,
		Submit:    "Add",
		Cancel:    screen,
		Multipart: true,
		Fields: []web.Field{
			{Name: "heading", Label: "Heading", Type: "text", Value: s.Heading, Required: true},
			{Name: "subheading", Label: "Subheading", Type: "textarea", Value: s.Subheading},
			{Name: "backgroundImageFile", Label: "Background image", Type: "file"},
		},
	}
	if s.ID != 0 {
		view.Title, view.Submit = "Edit hero section", "Save"
		view.Action = fmt.Sprintf("%s/%d", screen, s.ID)
		if s.BackgroundImage != nil {
			view.Fields[2].Image = h.service.ImageURL(s)
		}
	}
	return web.Render(c, "form", fiber.Map{"Title": view.Title, "View": view})
}

package news

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const screen = "/admin/news"

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(s *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: s, activity: recorder}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/news", h.list)
	router.Get("/news/new", h.newForm)
	router.Post("/news", h.create)
	router.Get("/news/:id<int>", h.view)
	router.Get("/news/:id<int>/edit", h.editForm)
	router.Post("/news/:id<int>", h.update)
	router.Post("/news/:id<int>/delete", h.delete)
}

func (h *Handler) list(c *fiber.Ctx) error {
	q := web.PageQuery(c)
	page, err := h.service.List(c.UserContext(), session.FromCtx(c), q, web.QueryString(c, "search"))
	if err != nil {
		web.Fail(c, "Could not load news", err)
	}

	t := web.Table{Columns: []string{"#", "Image", "Title", "Author", "Published"}, Empty: "No posts yet."}
	for i, n := range page.Content {
		t.Rows = append(t.Rows, web.Row{
			Cells: []web.Cell{
				{Text: web.RowNumber(q.PageNumber, q.PageSize, i)},
				{Image: h.service.ImageURL(n)},
				{Text: web.Truncate(n.Title, 60), Link: fmt.Sprintf("%s/%d", screen, n.ID)},
				{Text: web.OrNA(web.Deref(n.Author))},
				{Text: web.Date(n.CreatedAt)},
			},
			Actions: []web.Action{
				web.ViewAction(fmt.Sprintf("%s/%d", screen, n.ID)),
				web.EditAction(fmt.Sprintf("%s/%d/edit", screen, n.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, n.ID), "post"),
			},
		})
	}
	return web.Render(c, "list", fiber.Map{
		"Title": "News",
		"View": web.ListView{
			Title:   "News",
			Create:  &web.Action{Label: "Write post", URL: screen + "/new"},
			Filters: []web.Filter{{Name: "search", Label: "Search", Value: c.Query("search")}},
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
	n, err := h.service.Get(c.UserContext(), session.FromCtx(c), id)
	if err != nil {
		web.Fail(c, "Could not load post", err)
		return web.Redirect(c, screen)
	}
	return web.Render(c, "detail", fiber.Map{
		"Title": n.Title,
		"View": web.DetailView{
			Title:  n.Title,
			Images: []string{h.service.ImageURL(n)},
			Items: []web.Item{
				{Label: "Author", Value: web.OrNA(web.Deref(n.Author))},
				{Label: "Published", Value: web.Date(n.CreatedAt)},
				{Label: "Updated", Value: web.Date(web.Deref(n.UpdatedAt))},
				{Label: "Content", Value: n.Content},
			},
			Actions: []web.Action{
				web.EditAction(fmt.Sprintf("%s/%d/edit", screen, n.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, n.ID), "post"),
			},
			Back: screen,
		},
	})
}

func (h *Handler) newForm(c *fiber.Ctx) error {
	return h.renderForm(c, News{})
}

func (h *Handler) editForm(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	n, err := h.service.Get(c.UserContext(), session.FromCtx(c), id)
	if err != nil {
		web.Fail(c, "Could not load post", err)
		return web.Redirect(c, screen)
	}
	return h.renderForm(c, n)
}

func (h *Handler) create(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	created, err := h.service.Create(c.UserContext(), sess, in)
	if err != nil {
		web.Fail(c, "Could not publish post", err)
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderForm(c, News{Title: in.Title, Content: in.Content})
	}
	h.activity.Record(c.UserContext(), sess.Email(), "news", activity.ActionCreate, created.ID)
	web.Notify(c, web.Success, "Post published")
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
		web.Fail(c, "Could not update post", err)
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderForm(c, News{ID: id, Title: in.Title, Content: in.Content})
	}
	h.activity.Record(c.UserContext(), sess.Email(), "news", activity.ActionUpdate, id)
	web.Notify(c, web.Success, "Post updated")
	return web.Redirect(c, fmt.Sprintf("%s/%d", screen, id))
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.service.Delete(c.UserContext(), sess, id); err != nil {
		web.Fail(c, "Could not delete post", err)
		return web.Redirect(c, screen)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "news", activity.ActionDelete, id)
	web.Notify(c, web.Success, "Post deleted")
	return web.Redirect(c, screen)
}

func readInput(c *fiber.Ctx) (Input, error) {
	image, err := web.FormFile(c, "imageFile")
	if err != nil {
		return Input{}, err
	}
	return Input{Title: c.FormValue("title"), Content: c.FormValue("content"), Image: image}, nil
}

func (h *Handler) renderForm(c *fiber.Ctx, n News) error {
	view := web.FormView{
		Title:     "New post",
		Action:    screen,
		Submit:    "Publish",
		Cancel:    screen,
		Multipart: true,
		Fields: []web.Field{
			{Name: "title", Label: "Title", Type: "text", Value: n.Title, Required: true},
			{Name: "content", Label: "Content", Type: "textarea", Value: n.Content},
			{Name: "imageFile", Label: "Image", Type: "file"},
		},
	}
	if n.ID != 0 {
		view.Title = "Edit post"
		view.Action = fmt.Sprintf("%s/%d", screen, n.ID)
		view.Submit = "Save"
		view.Cancel = fmt.Sprintf("%s/%d", screen, n.ID)
		if n.Image != nil {
			view.Fields[2].Image = h.service.ImageURL(n)
			view.Fields[2].Help = "Leave empty to keep the current image."
		}
	}
	return web.Render(c, "form", fiber.Map{"Title": view.Title, "View": view})
}

package user

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/address"
	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const screen = "/admin/users"

type Handler struct {
	users     *Service
	addresses *address.Service
	activity  activity.Recorder
}

func NewHandler(users *Service, addresses *address.Service, recorder activity.Recorder) *Handler {
	return &Handler{users: users, addresses: addresses, activity: recorder}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/users", h.list)
	router.Get("/users/new", h.newForm)
	router.Post("/users", h.create)
	router.Get("/users/:id<int>", h.view)
	router.Get("/users/:id<int>/edit", h.editForm)
	router.Post("/users/:id<int>", h.update)
	router.Post("/users/:id<int>/delete", h.delete)
	router.Get("/profile", h.profile)
}

// list pages through accounts, or shows the single account matching ?email=.
func (h *Handler) list(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), session.FromCtx(c)
	q := web.PageQuery(c)

	var page api.Page[User]
	if email := strings.TrimSpace(c.Query("email")); email != "" {
		u, err := h.users.ByEmail(ctx, sess, email)
		switch {
		case err == nil:
			page = api.Page[User]{Content: []User{u}, TotalElements: 1, TotalPages: 1}
		case api.StatusOf(err) == fiber.StatusNotFound:
			web.Notify(c, web.Info, "No account uses "+email)
		default:
			web.Fail(c, "Could not look up account", err)
		}
	} else {
		var err error
		if page, err = h.users.List(ctx, sess, q); err != nil {
			web.Fail(c, "Could not load users", err)
		}
	}

	t := web.Table{Columns: []string{"#", "Avatar", "Name", "Email", "Phone", "Roles"}, Empty: "No users found."}
	for i, u := range page.Content {
		t.Rows = append(t.Rows, web.Row{
			Cells: []web.Cell{
				{Text: web.RowNumber(q.PageNumber, q.PageSize, i)},
				{Image: h.users.AvatarURL(u)},
				{Text: web.OrNA(u.FullName), Link: fmt.Sprintf("%s/%d", screen, u.ID)},
				{Text: u.Email},
				{Text: web.OrNA(web.Deref(u.Phone))},
				rolesCell(u.Roles),
			},
			Actions: []web.Action{
				web.ViewAction(fmt.Sprintf("%s/%d", screen, u.ID)),
				web.EditAction(fmt.Sprintf("%s/%d/edit", screen, u.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, u.ID), "user"),
			},
		})
	}
	return web.Render(c, "list", fiber.Map{
		"Title": "Users",
		"View": web.ListView{
			Title:   "Users",
			Create:  &web.Action{Label: "Add user", URL: screen + "/new"},
			Filters: []web.Filter{{Name: "email", Label: "Email", Value: c.Query("email")}},
			Table:   t,
			Pages:   web.Pagination(c, q.PageNumber, page.TotalPages),
			Summary: web.Summary(q.PageNumber, q.PageSize, len(page.Content), page.TotalElements),
		},
	})
}

func rolesCell(roles []string) web.Cell {
	tone := "default"
	for _, r := range roles {
		if r == session.AdminRole {
			tone = "warning"
		}
	}
	return web.Cell{Badge: web.OrNA(strings.Join(roles, ", ")), Tone: tone}
}

func (h *Handler) view(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	u, err := h.users.Get(c.UserContext(), session.FromCtx(c), id, true)
	if err != nil {
		web.Fail(c, "Could not load user", err)
		return web.Redirect(c, screen)
	}

	orders := web.Table{Columns: []string{"Order", "Date", "Status", "Total"}, Empty: "No orders yet."}
	for _, o := range u.Orders {
		orders.Rows = append(orders.Rows, web.Row{Cells: []web.Cell{
			{Text: "#" + web.Itoa(o.ID), Link: fmt.Sprintf("/admin/orders/%d", o.ID)},
			{Text: web.Date(o.OrderDate)},
			{Badge: o.Status, Tone: "info"},
			{Text: web.Money(o.TotalAmount)},
		}})
	}
	return web.Render(c, "detail", fiber.Map{
		"Title": web.OrNA(u.FullName),
		"View": web.DetailView{
			Title:    web.OrNA(u.FullName),
			Items:    accountItems(h.users, u),
			Sections: []web.Section{{Title: fmt.Sprintf("Orders (%d)", len(u.Orders)), Table: &orders}},
			Actions: []web.Action{
				web.EditAction(fmt.Sprintf("%s/%d/edit", screen, u.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, u.ID), "user"),
			},
			Back: screen,
		},
	})
}

func accountItems(users *Service, u User) []web.Item {
	return []web.Item{
		{Label: "Avatar", Image: users.AvatarURL(u)},
		{Label: "Email", Value: u.Email},
		{Label: "Phone", Value: web.OrNA(web.Deref(u.Phone))},
		{Label: "Roles", Value: web.OrNA(strings.Join(u.Roles, ", "))},
		{Label: "Member since", Value: web.Date(u.CreatedAt)},
	}
}

// profile shows the signed-in administrator with their saved addresses.
func (h *Handler) profile(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), session.FromCtx(c)

	var (
		me    User
		addrs []address.Address
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		me, err = h.users.Profile(gctx, sess)
		return err
	})
	g.Go(func() (err error) {
		addrs, err = h.addresses.List(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		web.Fail(c, "Could not load your profile", err)
		return web.Redirect(c, "/admin")
	}

	t := web.Table{Columns: []string{"Recipient", "Phone", "Address", "Default"}, Empty: "No saved addresses."}
	for _, a := range addrs {
		t.Rows = append(t.Rows, web.Row{Cells: []web.Cell{
			{Text: a.FullName},
			{Text: a.Phone},
			{Text: web.OrNA(a.Line())},
			{Text: web.YesNo(a.IsDefault)},
		}})
	}
	return web.Render(c, "detail", fiber.Map{
		"Title": "My profile",
		"View": web.DetailView{
			Title:    web.OrNA(me.FullName),
			Items:    accountItems(h.users, me),
			Sections: []web.Section{{Title: "Addresses", Table: &t}},
			Actions:  []web.Action{web.EditAction(fmt.Sprintf("%s/%d/edit", screen, me.ID))},
		},
	})
}

func (h *Handler) newForm(c *fiber.Ctx) error {
	return web.Render(c, "form", fiber.Map{"Title": "New user", "View": createForm(NewUser{RoleName: "USER"})})
}

func createForm(n NewUser) web.FormView {
	var roles []string
	for _, r := range Assignable {
		roles = append(roles, r, r)
	}
	return web.FormView{
		Title:  "New user",
		Action: screen,
		Submit: "Create",
		Cancel: screen,
		Fields: []web.Field{
			{Name: "fullName", Label: "Full name", Type: "text", Value: n.FullName, Required: true},
			{Name: "email", Label: "Email", Type: "email", Value: n.Email, Required: true},
			{Name: "password", Label: "Password", Type: "password", Required: true},
			{Name: "phone", Label: "Phone", Type: "tel", Value: n.Phone},
			{Name: "roleName", Label: "Role", Type: "select", Options: web.Options(n.RoleName, roles...)},
		},
	}
}

func (h *Handler) create(c *fiber.Ctx) error {
	n := NewUser{
		FullName: c.FormValue("fullName"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Phone:    c.FormValue("phone"),
		RoleName: c.FormValue("roleName"),
	}
	sess := session.FromCtx(c)
	created, err := h.users.Create(c.UserContext(), sess, n)
	if err != nil {
		web.Fail(c, "Could not create user", err)
		c.Status(fiber.StatusUnprocessableEntity)
		return web.Render(c, "form", fiber.Map{"Title": "New user", "View": createForm(n)})
	}
	h.activity.Record(c.UserContext(), sess.Email(), "user", activity.ActionCreate, created.ID)
	web.Notify(c, web.Success, "User "+n.Email+" created")
	return web.Redirect(c, screen)
}

func (h *Handler) editForm(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	u, err := h.users.Get(c.UserContext(), session.FromCtx(c), id, false)
	if err != nil {
		web.Fail(c, "Could not load user", err)
		return web.Redirect(c, screen)
	}
	return h.renderEdit(c, u)
}

func (h *Handler) renderEdit(c *fiber.Ctx, u User) error {
	view := web.FormView{
		Title:     "Edit " + u.Email,
		Action:    fmt.Sprintf("%s/%d", screen, u.ID),
		Submit:    "Save",
		Cancel:    fmt.Sprintf("%s/%d", screen, u.ID),
		Multipart: true,
		Fields: []web.Field{
			{Name: "fullName", Label: "Full name", Type: "text", Value: u.FullName},
			{Name: "email", Label: "Email", Type: "email", Value: u.Email, Required: true},
			{Name: "phone", Label: "Phone", Type: "tel", Value: web.Deref(u.Phone)},
			{Name: "password", Label: "New password", Type: "password", Help: "Leave empty to keep the current password."},
			{Name: "avatarFile", Label: "Avatar", Type: "file", Image: h.users.AvatarURL(u)},
		},
	}
	return web.Render(c, "form", fiber.Map{"Title": view.Title, "View": view})
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	avatar, err := web.FormFile(c, "avatarFile")
	if err != nil {
		return err
	}
	e := Edit{
		FullName: c.FormValue("fullName"),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Phone:    c.FormValue("phone"),
		Password: c.FormValue("password"),
		Avatar:   avatar,
	}
	sess := session.FromCtx(c)
	if _, err := h.users.Update(c.UserContext(), sess, id, e); err != nil {
		web.Fail(c, "Could not update user", err)
		phone := e.Phone
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderEdit(c, User{ID: id, FullName: e.FullName, Email: e.Email, Phone: &phone})
	}
	h.activity.Record(c.UserContext(), sess.Email(), "user", activity.ActionUpdate, id)
	web.Notify(c, web.Success, "User updated")
	return web.Redirect(c, fmt.Sprintf("%s/%d", screen, id))
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	msg, err := h.users.Delete(c.UserContext(), sess, id)
	if err != nil {
		web.Fail(c, "Could not delete user", err)
		return web.Redirect(c, screen)
	}
	if msg == "" {
		msg = "User deleted"
	}
	h.activity.Record(c.UserContext(), sess.Email(), "user", activity.ActionDelete, id)
	web.Notify(c, web.Success, msg)
	return web.Redirect(c, screen)
}

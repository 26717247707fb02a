package order

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/address"
	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/product"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/user"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const screen = "/admin/orders"

type Handler struct {
	orders    *Service
	addresses *address.Service
	users     *user.Service
	products  *product.Service
	activity  activity.Recorder
}

func NewHandler(orders *Service, addresses *address.Service, users *user.Service, products *product.Service, recorder activity.Recorder) *Handler {
	return &Handler{orders: orders, addresses: addresses, users: users, products: products, activity: recorder}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/orders", h.list)
	router.Get("/orders/:id<int>", h.view)
	router.Post("/orders/:id<int>/status", h.updateStatus)
}

func (h *Handler) list(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), session.FromCtx(c)
	q := api.PageQuery{
		PageNumber: c.QueryInt("page", 0),
		PageSize:   c.QueryInt("size", api.DefaultPageSize),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder", "desc"),
	}
	status := c.Query("status")

	var (
		page api.Page[Order]
		err  error
	)
	if status != "" {
		page, err = h.orders.ByStatus(ctx, sess, status, q)
	} else {
		page, err = h.orders.List(ctx, sess, q)
	}
	if err != nil {
		web.Fail(c, "Could not load orders", err)
	}

	q = q.WithDefaults()
	t := web.Table{Columns: []string{"#", "Order", "Date", "Customer", "Items", "Total", "Status"}, Empty: "No orders."}
	for i, o := range page.Content {
		t.Rows = append(t.Rows, web.Row{
			Cells: []web.Cell{
				{Text: web.RowNumber(q.PageNumber, q.PageSize, i)},
				{Text: "#" + web.Itoa(o.ID), Link: fmt.Sprintf("%s/%d", screen, o.ID)},
				{Text: web.Date(o.OrderDate)},
				{Text: "User #" + web.Itoa(o.UserID), Link: fmt.Sprintf("/admin/users/%d", o.UserID)},
				{Text: web.Itoa(int64(len(o.Items)))},
				{Text: web.Money(o.GrandTotal())},
				{Badge: Label(o.Status), Tone: Tone(o.Status)},
			},
			Actions: []web.Action{web.ViewAction(fmt.Sprintf("%s/%d", screen, o.ID))},
		})
	}

	options := []string{"", "All statuses"}
	for _, s := range Statuses {
		options = append(options, s, Label(s))
	}
	return web.Render(c, "list", fiber.Map{
		"Title": "Orders",
		"View": web.ListView{
			Title:   "Orders",
			Filters: []web.Filter{{Name: "status", Label: "Status", Options: web.Options(status, options...)}},
			Table:   t,
			Pages:   web.Pagination(c, q.PageNumber, page.TotalPages),
			Summary: web.Summary(q.PageNumber, q.PageSize, len(page.Content), page.TotalElements),
		},
	})
}

// details is an order with everything it refers to. A product that could not
// be loaded is nil; partial holds the first address or customer lookup failure.
type details struct {
	order    Order
	address  *address.Address
	customer *user.User
	products []*product.Product
	partial  error
}

// load fetches the order, then its address, customer and products concurrently.
// The lookups share the request context so one failure never cuts the others short.
func (h *Handler) load(ctx context.Context, sess api.Session, id int64) (details, error) {
	o, err := h.orders.Get(ctx, sess, id)
	if err != nil {
		return details{}, err
	}
	d := details{order: o, products: make([]*product.Product, len(o.Items))}

	var g errgroup.Group
	if o.AddressID != nil {
		g.Go(func() error {
			a, err := h.addresses.Get(ctx, sess, *o.AddressID)
			if err != nil {
				return fmt.Errorf("address: %w", err)
			}
			d.address = &a
			return nil
		})
	}
	g.Go(func() error {
		u, err := h.users.Get(ctx, sess, o.UserID, false)
		if err != nil {
			return fmt.Errorf("customer: %w", err)
		}
		d.customer = &u
		return nil
	})
	for i, item := range o.Items {
		g.Go(func() error {
			if p, err := h.products.Get(ctx, sess, item.ProductID); err == nil {
				d.products[i] = &p
			}
			return nil
		})
	}
	d.partial = g.Wait()
	return d, nil
}

func (h *Handler) view(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	d, err := h.load(c.UserContext(), session.FromCtx(c), id)
	if err != nil {
		web.Fail(c, "Could not load order", err)
		return web.Redirect(c, screen)
	}
	if d.partial != nil {
		web.Fail(c, "Some order details are missing", d.partial)
	}
	o := d.order

	items := web.Table{Columns: []string{"Image", "Product", "Quantity", "Price", "Subtotal"}, Empty: "No items."}
	for i, it := range o.Items {
		row := web.Row{Cells: []web.Cell{
			{Image: web.Placeholder},
			{Text: fmt.Sprintf("Product #%d (unavailable)", it.ProductID)},
			{Text: web.Itoa(it.Quantity)},
			{Text: web.Money(it.Price)},
			{Text: web.Money(it.Subtotal())},
		}}
		if p := d.products[i]; p != nil {
			row.Cells[0].Image = h.products.ImageURL(*p)
			row.Cells[1] = web.Cell{Text: p.Name, Link: fmt.Sprintf("/admin/products/%d", p.ID)}
		}
		items.Rows = append(items.Rows, row)
	}

	timeline := web.Table{Columns: []string{"Date", "Status", "Note"}, Empty: "No history."}
	for _, ev := range o.Timeline {
		timeline.Rows = append(timeline.Rows, web.Row{Cells: []web.Cell{
			{Text: web.Date(ev.Date)},
			{Badge: Label(ev.Status), Tone: Tone(ev.Status)},
			{Text: web.OrNA(web.Deref(ev.Note))},
		}})
	}

	customer := []web.Item{{Label: "Account", Value: "User #" + web.Itoa(o.UserID), Link: fmt.Sprintf("/admin/users/%d", o.UserID)}}
	if u := d.customer; u != nil {
		customer = []web.Item{
			{Label: "Name", Value: web.OrNA(u.FullName), Link: fmt.Sprintf("/admin/users/%d", u.ID)},
			{Label: "Email", Value: u.Email},
			{Label: "Phone", Value: web.OrNA(web.Deref(u.Phone))},
		}
	}
	shipping := []web.Item{{Label: "Address", Value: "N/A"}}
	if a := d.address; a != nil {
		shipping = []web.Item{
			{Label: "Recipient", Value: web.OrNA(a.FullName)},
			{Label: "Phone", Value: web.OrNA(a.Phone)},
			{Label: "Address", Value: web.OrNA(a.Line())},
		}
	}

	var statuses []string
	for _, s := range Statuses {
		statuses = append(statuses, s, Label(s))
	}
	title := "Order #" + web.Itoa(o.ID)
	return web.Render(c, "detail", fiber.Map{
		"Title": title,
		"View": web.DetailView{
			Title: title,
			Items: []web.Item{
				{Label: "Status", Badge: Label(o.Status), Tone: Tone(o.Status)},
				{Label: "Placed", Value: web.Date(o.OrderDate)},
				{Label: "Subtotal", Value: web.Money(o.TotalAmount)},
				{Label: "Shipping", Value: web.Money(o.ShippingCost)},
				{Label: "Total", Value: web.Money(o.GrandTotal())},
				{Label: "Note", Value: web.OrNA(web.Deref(o.Note))},
			},
			Sections: []web.Section{
				{Title: "Customer", Items: customer},
				{Title: "Shipping", Items: shipping},
				{Title: "Items", Table: &items},
				{Title: "History", Table: &timeline},
				{Title: "Update status", Form: &web.FormView{
					Action: fmt.Sprintf("%s/%d/status", screen, o.ID),
					Submit: "Update",
					Fields: []web.Field{{Name: "status", Label: "Status", Type: "select", Options: web.Options(o.Status, statuses...)}},
				}},
			},
			Back: screen,
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
	if _, err := h.orders.UpdateStatus(c.UserContext(), sess, id, status); err != nil {
		web.Fail(c, "Could not update order status", err)
		return web.Redirect(c, back)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "order", activity.ActionStatus, id)
	web.Notify(c, web.Success, "Order marked "+Label(status))
	return web.Redirect(c, back)
}

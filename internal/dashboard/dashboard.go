// Package dashboard renders the admin landing page.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/brand"
	"github.com/MinhBui2k4/CDTT/internal/category"
	"github.com/MinhBui2k4/CDTT/internal/contact"
	"github.com/MinhBui2k4/CDTT/internal/hero"
	"github.com/MinhBui2k4/CDTT/internal/news"
	"github.com/MinhBui2k4/CDTT/internal/order"
	"github.com/MinhBui2k4/CDTT/internal/product"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/user"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

// RecentOrders is how many of the latest orders the dashboard lists.
const RecentOrders = 5

const recentActivity = 8

// Services are the resources the dashboard summarises.
type Services struct {
	Products   *product.Service
	Orders     *order.Service
	Contacts   *contact.Service
	Users      *user.Service
	Categories *category.Service
	Brands     *brand.Service
	News       *news.Service
	Hero       *hero.Service
	Activity   *activity.Service
}

type Handler struct {
	s Services
}

func NewHandler(s Services) *Handler {
	return &Handler{s: s}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/", h.show)
}

// Card is one resource total.
type Card struct {
	Label string
	Value int64
	Link  string
}

type View struct {
	Cards    []Card
	Orders   web.Table
	Revenue  string
	Activity web.Table
}

// counter reads the total of one resource from a single-row page.
type counter func(ctx context.Context, sess api.Session) (int64, error)

func total[T any](page api.Page[T], err error) (int64, error) {
	return page.TotalElements, err
}

type figure struct {
	card  Card
	count counter
}

func (h *Handler) figures() []figure {
	one := api.PageQuery{PageSize: 1}
	return []figure{
		{Card{Label: "Products", Link: "/admin/products"}, func(ctx context.Context, sess api.Session) (int64, error) {
			return total(h.s.Products.List(ctx, sess, one, product.Filter{}))
		}},
		{Card{Label: "Contacts", Link: "/admin/contacts"}, func(ctx context.Context, sess api.Session) (int64, error) {
			return total(h.s.Contacts.List(ctx, sess, one))
		}},
		{Card{Label: "Users", Link: "/admin/users"}, func(ctx context.Context, sess api.Session) (int64, error) {
			return total(h.s.Users.List(ctx, sess, one))
		}},
		{Card{Label: "Categories", Link: "/admin/categories"}, func(ctx context.Context, sess api.Session) (int64, error) {
			return total(h.s.Categories.List(ctx, sess, one))
		}},
		{Card{Label: "Brands", Link: "/admin/brands"}, func(ctx context.Context, sess api.Session) (int64, error) {
			return total(h.s.Brands.List(ctx, sess, one))
		}},
		{Card{Label: "News", Link: "/admin/news"}, func(ctx context.Context, sess api.Session) (int64, error) {
			return total(h.s.News.List(ctx, sess, one, nil))
		}},
		{Card{Label: "Hero sections", Link: "/admin/hero"}, func(ctx context.Context, sess api.Session) (int64, error) {
			return total(h.s.Hero.List(ctx, sess, one))
		}},
	}
}

func (h *Handler) show(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), session.FromCtx(c)

	figures := h.figures()
	cards := make([]Card, len(figures)+1)
	var recent api.Page[order.Order]

	// Each figure stands alone: a failing call leaves its own card at 0.
	var g errgroup.Group
	for i, f := range figures {
		cards[i+1] = f.card
		g.Go(func() error {
			n, err := f.count(ctx, sess)
			cards[i+1].Value = n
			return err
		})
	}
	// The recent orders page also carries the order total.
	cards[0] = Card{Label: "Orders", Link: "/admin/orders"}
	g.Go(func() (err error) {
		recent, err = h.s.Orders.List(ctx, sess, api.PageQuery{PageSize: RecentOrders, SortBy: order.DefaultSort, SortOrder: "desc"})
		cards[0].Value = recent.TotalElements
		return err
	})
	if err := g.Wait(); err != nil {
		web.Fail(c, "Some figures could not be loaded", err)
	}

	entries, err := h.s.Activity.Recent(ctx, recentActivity)
	if err != nil {
		web.Notify(c, web.Error, "Could not load recent activity")
	}

	orders, revenue := ordersTable(recent.Content)
	return web.Render(c, "dashboard", fiber.Map{
		"Title": "Dashboard",
		"View": View{
			Cards:    cards,
			Orders:   orders,
			Revenue:  web.Money(revenue),
			Activity: activity.Table(entries),
		},
	})
}

// ordersTable lists the newest orders first and sums what they bring in.
func ordersTable(orders []order.Order) (web.Table, float64) {
	orders = append([]order.Order(nil), orders...)
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].OrderDate > orders[j].OrderDate })
	if len(orders) > RecentOrders {
		orders = orders[:RecentOrders]
	}

	t := web.Table{Columns: []string{"Order", "Date", "Status", "Total"}, Empty: "No orders yet."}
	var revenue float64
	for _, o := range orders {
		revenue += o.GrandTotal()
		t.Rows = append(t.Rows, web.Row{Cells: []web.Cell{
			{Text: "#" + web.Itoa(o.ID), Link: fmt.Sprintf("/admin/orders/%d", o.ID)},
			{Text: web.Date(o.OrderDate)},
			{Badge: order.Label(o.Status), Tone: order.Tone(o.Status)},
			{Text: web.Money(o.GrandTotal())},
		}})
	}
	return t, revenue
}

package product

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/brand"
	"github.com/MinhBui2k4/CDTT/internal/category"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const screen = "/admin/products"

// Status filter values of the list screen.
const (
	StatusNew       = "new"
	StatusSale      = "sale"
	StatusAvailable = "available"
)

type Handler struct {
	products   *Service
	categories *category.Service
	brands     *brand.Service
	activity   activity.Recorder
}

func NewHandler(products *Service, categories *category.Service, brands *brand.Service, recorder activity.Recorder) *Handler {
	return &Handler{products: products, categories: categories, brands: brands, activity: recorder}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/products", h.list)
	router.Get("/products/new", h.newForm)
	router.Post("/products", h.create)
	router.Get("/products/:id<int>", h.view)
	router.Get("/products/:id<int>/edit", h.editForm)
	router.Post("/products/:id<int>", h.update)
	router.Post("/products/:id<int>/delete", h.delete)
}

// lookups are the categories and brands a product refers to by id.
type lookups struct {
	categories []category.Category
	brands     []brand.Brand
}

func (l lookups) categoryName(id int64) string { return category.Names(l.categories)[id] }
func (l lookups) brandName(id int64) string    { return brand.Names(l.brands)[id] }

func (h *Handler) loadLookups(ctx context.Context, sess api.Session) (lookups, error) {
	var refs lookups
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		refs.categories, err = h.categories.All(ctx, sess)
		return err
	})
	g.Go(func() (err error) {
		refs.brands, err = h.brands.All(ctx, sess)
		return err
	})
	return refs, g.Wait()
}

// fetch picks the backend listing that matches the chosen filters.
func (h *Handler) fetch(ctx context.Context, sess api.Session, q api.PageQuery, f Filter, status string) (api.Page[Product], error) {
	switch status {
	case StatusNew:
		return h.products.ListNew(ctx, sess, q)
	case StatusSale:
		return h.products.ListSales(ctx, sess, q)
	case StatusAvailable:
		return h.products.ListAvailable(ctx, sess, q)
	}
	if f.Search != nil && f.CategoryID == nil && f.BrandID == nil && f.PriceStart == nil && f.PriceEnd == nil {
		return h.products.Search(ctx, sess, q, *f.Search)
	}
	return h.products.List(ctx, sess, q, f)
}

func (h *Handler) list(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), session.FromCtx(c)
	q := web.PageQuery(c)
	f := Filter{
		CategoryID: web.QueryInt64(c, "categoryId"),
		BrandID:    web.QueryInt64(c, "brandId"),
		Search:     web.QueryString(c, "search"),
		PriceStart: web.QueryFloat(c, "priceStart"),
		PriceEnd:   web.QueryFloat(c, "priceEnd"),
	}
	status := c.Query("status")

	// The lookups only label the rows, so their failure must not cancel the listing.
	var (
		page            api.Page[Product]
		refs            lookups
		listErr, refErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		page, listErr = h.fetch(ctx, sess, q, f, status)
		return nil
	})
	g.Go(func() error {
		refs, refErr = h.loadLookups(ctx, sess)
		return nil
	})
	_ = g.Wait()
	if listErr != nil {
		web.Fail(c, "Could not load products", listErr)
	}
	if refErr != nil {
		web.Fail(c, "Could not load categories and brands", refErr)
	}

	return web.Render(c, "list", fiber.Map{
		"Title": "Products",
		"View": web.ListView{
			Title:   "Products",
			Create:  &web.Action{Label: "Add product", URL: screen + "/new"},
			Filters: filters(c, refs),
			Table:   h.table(page.Content, refs, q),
			Pages:   web.Pagination(c, q.PageNumber, page.TotalPages),
			Summary: web.Summary(q.PageNumber, q.PageSize, len(page.Content), page.TotalElements),
		},
	})
}

func filters(c *fiber.Ctx, refs lookups) []web.Filter {
	categories := []string{"", "All categories"}
	for _, cat := range refs.categories {
		categories = append(categories, web.Itoa(cat.ID), cat.Name)
	}
	brands := []string{"", "All brands"}
	for _, b := range refs.brands {
		brands = append(brands, web.Itoa(b.ID), b.Name)
	}
	return []web.Filter{
		{Name: "search", Label: "Search", Value: c.Query("search")},
		{Name: "categoryId", Label: "Category", Options: web.Options(c.Query("categoryId"), categories...)},
		{Name: "brandId", Label: "Brand", Options: web.Options(c.Query("brandId"), brands...)},
		{Name: "status", Label: "Status", Options: web.Options(c.Query("status"),
			"", "Any", StatusNew, "New", StatusSale, "On sale", StatusAvailable, "Available")},
		{Name: "priceStart", Label: "Price from", Value: c.Query("priceStart")},
		{Name: "priceEnd", Label: "Price to", Value: c.Query("priceEnd")},
	}
}

func (h *Handler) table(products []Product, refs lookups, q api.PageQuery) web.Table {
	t := web.Table{
		Columns: []string{"#", "Image", "Name", "SKU", "Price", "Stock", "Category", "Brand"},
		Empty:   "No products match.",
	}
	categories, brands := category.Names(refs.categories), brand.Names(refs.brands)
	for i, p := range products {
		label, tone := Stock(p.Quantity)
		t.Rows = append(t.Rows, web.Row{
			Cells: []web.Cell{
				{Text: web.RowNumber(q.PageNumber, q.PageSize, i)},
				{Image: h.products.ImageURL(p)},
				{Text: p.Name, Link: fmt.Sprintf("%s/%d", screen, p.ID)},
				{Text: web.OrNA(p.SKU)},
				{Text: web.Money(p.Price)},
				{Badge: label + " (" + web.Itoa(p.Quantity) + ")", Tone: tone},
				{Text: web.OrNA(categories[p.CategoryID])},
				{Text: web.OrNA(brands[p.BrandID])},
			},
			Actions: []web.Action{
				web.ViewAction(fmt.Sprintf("%s/%d", screen, p.ID)),
				web.EditAction(fmt.Sprintf("%s/%d/edit", screen, p.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, p.ID), "product"),
			},
		})
	}
	return t
}

func (h *Handler) view(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	ctx, sess := c.UserContext(), session.FromCtx(c)

	var (
		p    Product
		refs lookups
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p, err = h.products.Get(gctx, sess, id)
		return err
	})
	g.Go(func() error {
		// Unresolved names render as N/A.
		refs, _ = h.loadLookups(gctx, sess)
		return nil
	})
	if err := g.Wait(); err != nil {
		web.Fail(c, "Could not load product", err)
		return web.Redirect(c, screen)
	}

	label, tone := Stock(p.Quantity)
	oldPrice := "N/A"
	if p.OldPrice != nil {
		oldPrice = web.Money(*p.OldPrice)
	}
	images := append([]string{h.products.ImageURL(p)}, h.products.GalleryURLs(p)...)
	return web.Render(c, "detail", fiber.Map{
		"Title": p.Name,
		"View": web.DetailView{
			Title:  p.Name,
			Images: images,
			Items: []web.Item{
				{Label: "SKU", Value: web.OrNA(p.SKU)},
				{Label: "Price", Value: web.Money(p.Price)},
				{Label: "Old price", Value: oldPrice},
				{Label: "Stock", Badge: label, Tone: tone},
				{Label: "Quantity", Value: web.Itoa(p.Quantity)},
				{Label: "Category", Value: web.OrNA(refs.categoryName(p.CategoryID))},
				{Label: "Brand", Value: web.OrNA(refs.brandName(p.BrandID))},
				{Label: "Rating", Value: web.Num(p.Rating) + " / 5"},
				{Label: "Reviews", Value: web.Itoa(p.Review)},
				{Label: "Available", Value: web.YesNo(p.Availability)},
				{Label: "New", Value: web.YesNo(p.New)},
				{Label: "On sale", Value: web.YesNo(p.Sale)},
				{Label: "Description", Value: web.OrNA(p.Description)},
			},
			Actions: []web.Action{
				web.EditAction(fmt.Sprintf("%s/%d/edit", screen, p.ID)),
				web.DeleteAction(fmt.Sprintf("%s/%d/delete", screen, p.ID), "product"),
			},
			Back: screen,
		},
	})
}

func (h *Handler) newForm(c *fiber.Ctx) error {
	refs, err := h.loadLookups(c.UserContext(), session.FromCtx(c))
	if err != nil {
		web.Fail(c, "Could not load categories and brands", err)
	}
	return h.renderForm(c, 0, Input{Availability: true}, Product{}, refs)
}

func (h *Handler) editForm(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	ctx, sess := c.UserContext(), session.FromCtx(c)

	var (
		p    Product
		refs lookups
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p, err = h.products.Get(gctx, sess, id)
		return err
	})
	g.Go(func() (err error) {
		refs, err = h.loadLookups(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		web.Fail(c, "Could not load product", err)
		return web.Redirect(c, screen)
	}
	return h.renderForm(c, id, p.Input(), p, refs)
}

func (h *Handler) create(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return h.saveFailed(c, 0, in, Product{}, "Could not add product", err)
	}
	sess := session.FromCtx(c)
	created, err := h.products.Create(c.UserContext(), sess, in)
	if err != nil {
		return h.saveFailed(c, 0, in, Product{}, "Could not add product", err)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "product", activity.ActionCreate, created.ID)
	web.Notify(c, web.Success, "Product "+created.Name+" added")
	return web.Redirect(c, screen)
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	in, err := readInput(c)
	if err != nil {
		return h.saveFailed(c, id, in, Product{ID: id}, "Could not update product", err)
	}
	sess := session.FromCtx(c)
	if _, err := h.products.Update(c.UserContext(), sess, id, in); err != nil {
		return h.saveFailed(c, id, in, Product{ID: id}, "Could not update product", err)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "product", activity.ActionUpdate, id)
	web.Notify(c, web.Success, "Product updated")
	return web.Redirect(c, fmt.Sprintf("%s/%d", screen, id))
}

// saveFailed shows the submitted form again. Validation problems get one
// notification each.
func (h *Handler) saveFailed(c *fiber.Ctx, id int64, in Input, current Product, what string, err error) error {
	var invalid *ValidationError
	if errors.As(err, &invalid) {
		for _, problem := range invalid.Problems {
			web.Notify(c, web.Error, problem)
		}
	} else {
		web.Fail(c, what, err)
		if errors.Is(err, api.ErrSessionExpired) {
			return nil
		}
	}
	refs, _ := h.loadLookups(c.UserContext(), session.FromCtx(c))
	c.Status(fiber.StatusUnprocessableEntity)
	return h.renderForm(c, id, in, current, refs)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := web.ParamID(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.products.Delete(c.UserContext(), sess, id); err != nil {
		web.Fail(c, "Could not delete product", err)
		return web.Redirect(c, screen)
	}
	h.activity.Record(c.UserContext(), sess.Email(), "product", activity.ActionDelete, id)
	web.Notify(c, web.Success, "Product deleted")
	return web.Redirect(c, screen)
}

// readInput parses the submitted form. Malformed numbers come back as a
// *ValidationError that also lists the rules broken by the fields that did parse.
func readInput(c *fiber.Ctx) (Input, error) {
	in := Input{
		Name:         c.FormValue("name"),
		Description:  c.FormValue("description"),
		SKU:          c.FormValue("sku"),
		Availability: web.FormBool(c, "availability"),
		New:          web.FormBool(c, "new"),
		Sale:         web.FormBool(c, "sale"),
	}
	var problems []string
	unreadable := map[string]bool{}
	collect := func(field string, err error) {
		if err != nil {
			problems = append(problems, err.Error())
			unreadable[field] = true
		}
	}
	var err error
	in.Price, err = web.FormFloat(c, "price")
	collect("price", err)
	in.OldPrice, err = web.FormOptFloat(c, "oldPrice")
	collect("oldPrice", err)
	in.Rating, err = web.FormOptFloat(c, "rating")
	collect("rating", err)
	in.Review, err = web.FormOptInt(c, "review")
	collect("review", err)
	in.Quantity, err = web.FormInt(c, "quantity")
	collect("quantity", err)
	in.CategoryID, err = web.FormOptInt(c, "categoryId")
	collect("categoryId", err)
	in.BrandID, err = web.FormOptInt(c, "brandId")
	collect("brandId", err)
	if len(problems) > 0 {
		problems = append(problems, validate(in, unreadable)...)
	}

	if in.Image, err = web.FormFile(c, "imageFile"); err != nil {
		return in, err
	}
	if in.Images, err = web.FormFiles(c, "imageFiles"); err != nil {
		return in, err
	}
	if len(problems) > 0 {
		return in, &ValidationError{Problems: problems}
	}
	return in, nil
}

func (h *Handler) renderForm(c *fiber.Ctx, id int64, in Input, current Product, refs lookups) error {
	title, action, submit := "New product", screen, "Add"
	cancel := screen
	if id != 0 {
		title, action, submit = "Edit product", fmt.Sprintf("%s/%d", screen, id), "Save"
		cancel = fmt.Sprintf("%s/%d", screen, id)
	}

	categories := []string{"", "None"}
	for _, cat := range refs.categories {
		categories = append(categories, web.Itoa(cat.ID), cat.Name)
	}
	brands := []string{"", "None"}
	for _, b := range refs.brands {
		brands = append(brands, web.Itoa(b.ID), b.Name)
	}
	image := ""
	if current.Image != nil {
		image = h.products.ImageURL(current)
	}

	return web.Render(c, "form", fiber.Map{
		"Title": title,
		"View": web.FormView{
			Title:     title,
			Action:    action,
			Submit:    submit,
			Cancel:    cancel,
			Multipart: true,
			Fields: []web.Field{
				{Name: "name", Label: "Name", Type: "text", Value: in.Name, Required: true},
				{Name: "sku", Label: "SKU", Type: "text", Value: in.SKU},
				{Name: "price", Label: "Price", Type: "number", Value: price(in.Price), Step: "1000", Min: "0", Required: true},
				{Name: "oldPrice", Label: "Old price", Type: "number", Value: optFloat(in.OldPrice), Step: "1000", Min: "0"},
				{Name: "quantity", Label: "Quantity", Type: "number", Value: web.Itoa(in.Quantity), Min: "0", Required: true},
				{Name: "rating", Label: "Rating", Type: "number", Value: optFloat(in.Rating), Step: "0.1", Min: "0", Max: "5"},
				{Name: "review", Label: "Reviews", Type: "number", Value: optInt(in.Review), Min: "0"},
				{Name: "categoryId", Label: "Category", Type: "select", Options: web.Options(optInt(in.CategoryID), categories...)},
				{Name: "brandId", Label: "Brand", Type: "select", Options: web.Options(optInt(in.BrandID), brands...)},
				{Name: "description", Label: "Description", Type: "textarea", Value: in.Description},
				{Name: "imageFile", Label: "Main image", Type: "file", Image: image},
				{Name: "imageFiles", Label: "Gallery", Type: "file", Multiple: true, Images: h.products.GalleryURLs(current),
					Help: "Uploading new files replaces the gallery."},
				{Name: "availability", Label: "Available", Type: "checkbox", Checked: in.Availability,
					Help: "Ignored while quantity is 0."},
				{Name: "new", Label: "New", Type: "checkbox", Checked: in.New},
				{Name: "sale", Label: "On sale", Type: "checkbox", Checked: in.Sale},
			},
		},
	})
}

func price(v float64) string {
	if v <= 0 {
		return ""
	}
	return web.Num(v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return web.Num(*v)
}

func optInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

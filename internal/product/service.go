package product

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const basePath = "/products"

// Filter narrows the general product list. Nil fields are not sent.
type Filter struct {
	CategoryID *int64
	BrandID    *int64
	Search     *string
	PriceStart *float64
	PriceEnd   *float64
}

func (f Filter) apply(p api.Params) api.Params {
	api.Optional(p, "categoryId", f.CategoryID)
	api.Optional(p, "brandId", f.BrandID)
	api.Optional(p, "search", f.Search)
	api.Optional(p, "priceStart", f.PriceStart)
	api.Optional(p, "priceEnd", f.PriceEnd)
	return p
}

// Service maps product operations onto the backend. Reads are public.
type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, sess api.Session, q api.PageQuery, f Filter) (api.Page[Product], error) {
	return s.page(ctx, sess, basePath, f.apply(q.Params()))
}

// Search matches keyword against product names.
func (s *Service) Search(ctx context.Context, sess api.Session, q api.PageQuery, keyword string) (api.Page[Product], error) {
	p := q.Params()
	p["keyword"] = keyword
	return s.page(ctx, sess, basePath+"/search", p)
}

func (s *Service) ListNew(ctx context.Context, sess api.Session, q api.PageQuery) (api.Page[Product], error) {
	return s.page(ctx, sess, basePath+"/new", q.Params())
}

func (s *Service) ListSales(ctx context.Context, sess api.Session, q api.PageQuery) (api.Page[Product], error) {
	return s.page(ctx, sess, basePath+"/sales", q.Params())
}

func (s *Service) ListAvailable(ctx context.Context, sess api.Session, q api.PageQuery) (api.Page[Product], error) {
	return s.page(ctx, sess, basePath+"/availability", q.Params())
}

func (s *Service) page(ctx context.Context, sess api.Session, path string, params api.Params) (api.Page[Product], error) {
	var page api.Page[Product]
	err := s.client.Do(ctx, sess, api.Request{Path: path, Params: params}, &page)
	return page, err
}

func (s *Service) Get(ctx context.Context, sess api.Session, id int64) (Product, error) {
	var p Product
	err := s.client.Do(ctx, sess, api.Request{Path: path(id)}, &p)
	return p, err
}

// Create validates in and, when it passes, uploads it. A *ValidationError is
// returned without contacting the backend.
func (s *Service) Create(ctx context.Context, sess api.Session, in Input) (Product, error) {
	return s.save(ctx, sess, http.MethodPost, basePath, in)
}

func (s *Service) Update(ctx context.Context, sess api.Session, id int64, in Input) (Product, error) {
	return s.save(ctx, sess, http.MethodPut, path(id), in)
}

func (s *Service) save(ctx context.Context, sess api.Session, method, path string, in Input) (Product, error) {
	if problems := Validate(in); len(problems) > 0 {
		return Product{}, &ValidationError{Problems: problems}
	}
	var p Product
	err := s.client.Do(ctx, sess, api.Request{
		Path:        path,
		Method:      method,
		Body:        in.Form(),
		RequireAuth: true,
		Multipart:   true,
	}, &p)
	return p, err
}

func (s *Service) Delete(ctx context.Context, sess api.Session, id int64) error {
	return s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodDelete, RequireAuth: true}, nil)
}

// ImageURL is the address of a product's main image.
func (s *Service) ImageURL(p Product) string {
	return web.AssetURL(s.client.BaseURL(), basePath+"/image/", web.Deref(p.Image))
}

// GalleryURLs are the addresses of a product's extra images.
func (s *Service) GalleryURLs(p Product) []string {
	urls := make([]string, 0, len(p.Images))
	for _, name := range p.Images {
		urls = append(urls, web.AssetURL(s.client.BaseURL(), basePath+"/images/", name))
	}
	return urls
}

func path(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}

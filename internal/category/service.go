package category

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MinhBui2k4/CDTT/internal/api"
)

const basePath = "/admin/categories"

// lookupSize is large enough to fetch every category in one page for selects.
const lookupSize = 1000

type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, sess api.Session, q api.PageQuery) (api.Page[Category], error) {
	var page api.Page[Category]
	err := s.client.Do(ctx, sess, api.Request{Path: basePath, Params: q.Params(), RequireAuth: true}, &page)
	return page, err
}

// All returns every category, for filters and form selects.
func (s *Service) All(ctx context.Context, sess api.Session) ([]Category, error) {
	page, err := s.List(ctx, sess, api.PageQuery{PageSize: lookupSize, SortBy: "name"})
	return page.Content, err
}

func (s *Service) Get(ctx context.Context, sess api.Session, id int64) (Category, error) {
	var c Category
	err := s.client.Do(ctx, sess, api.Request{Path: path(id), RequireAuth: true}, &c)
	return c, err
}

func (s *Service) Create(ctx context.Context, sess api.Session, in Input) (Category, error) {
	in, err := in.Normalize()
	if err != nil {
		return Category{}, err
	}
	var c Category
	err = s.client.Do(ctx, sess, api.Request{Path: basePath, Method: http.MethodPost, Body: in, RequireAuth: true}, &c)
	return c, err
}

func (s *Service) Update(ctx context.Context, sess api.Session, id int64, in Input) (Category, error) {
	in, err := in.Normalize()
	if err != nil {
		return Category{}, err
	}
	var c Category
	err = s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodPut, Body: in, RequireAuth: true}, &c)
	return c, err
}

func (s *Service) Delete(ctx context.Context, sess api.Session, id int64) error {
	return s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodDelete, RequireAuth: true}, nil)
}

// Names maps category ids to names.
func Names(categories []Category) map[int64]string {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func path(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}

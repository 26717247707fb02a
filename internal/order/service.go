package order

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MinhBui2k4/CDTT/internal/api"
)

// DefaultSort is the order listing's default sort field.
const DefaultSort = "orderDate"

type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

// params renders q in the page/size/sort variant the order endpoints use.
func params(q api.PageQuery) api.Params {
	sort := q.SortBy
	if sort == "" {
		sort = DefaultSort
	}
	q = q.WithDefaults()
	return api.Params{
		"page":      q.PageNumber,
		"size":      q.PageSize,
		"sort":      sort,
		"sortOrder": q.SortOrder,
	}
}

// List pages through every order in the shop.
func (s *Service) List(ctx context.Context, sess api.Session, q api.PageQuery) (api.Page[Order], error) {
	var page api.Page[Order]
	err := s.client.Do(ctx, sess, api.Request{Path: "/orders/admin/all", Params: params(q), RequireAuth: true}, &page)
	return page, err
}

func (s *Service) ByStatus(ctx context.Context, sess api.Session, status string, q api.PageQuery) (api.Page[Order], error) {
	status = strings.ToUpper(status)
	if !ValidStatus(status) {
		return api.Page[Order]{}, fmt.Errorf("unknown order status %q", status)
	}
	var page api.Page[Order]
	err := s.client.Do(ctx, sess, api.Request{Path: "/orders/status/" + status, Params: params(q), RequireAuth: true}, &page)
	return page, err
}

func (s *Service) Get(ctx context.Context, sess api.Session, id int64) (Order, error) {
	var o Order
	err := s.client.Do(ctx, sess, api.Request{Path: fmt.Sprintf("/orders/%d", id), RequireAuth: true}, &o)
	return o, err
}

func (s *Service) UpdateStatus(ctx context.Context, sess api.Session, id int64, status string) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, fmt.Errorf("unknown order status %q", status)
	}
	var o Order
	err := s.client.Do(ctx, sess, api.Request{
		Path:        fmt.Sprintf("/orders/admin/%d/status", id),
		Method:      http.MethodPut,
		Body:        map[string]string{"status": status},
		RequireAuth: true,
	}, &o)
	return o, err
}

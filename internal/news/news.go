// Package news manages the posts shown in the storefront's news section.
package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

type News struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Image     *string `json:"image"`
	Author    *string `json:"author"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

type Input struct {
	Title   string
	Content string
	Image   *api.Upload
}

var ErrTitleRequired = errors.New("title is required")

func (in Input) form() (*api.Form, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	return api.NewForm().
		Set("title", title).
		Set("content", strings.TrimSpace(in.Content)).
		Attach("imageFile", in.Image), nil
}

const basePath = "/news"

type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

// List pages through the posts. The endpoint takes no sort parameters.
func (s *Service) List(ctx context.Context, sess api.Session, q api.PageQuery, search *string) (api.Page[News], error) {
	params := q.PagingParams()
	api.Optional(params, "search", search)
	var page api.Page[News]
	err := s.client.Do(ctx, sess, api.Request{Path: basePath, Params: params}, &page)
	return page, err
}

func (s *Service) Get(ctx context.Context, sess api.Session, id int64) (News, error) {
	var n News
	err := s.client.Do(ctx, sess, api.Request{Path: path(id)}, &n)
	return n, err
}

func (s *Service) Create(ctx context.Context, sess api.Session, in Input) (News, error) {
	return s.save(ctx, sess, http.MethodPost, basePath, in)
}

func (s *Service) Update(ctx context.Context, sess api.Session, id int64, in Input) (News, error) {
	return s.save(ctx, sess, http.MethodPut, path(id), in)
}

func (s *Service) save(ctx context.Context, sess api.Session, method, path string, in Input) (News, error) {
	form, err := in.form()
	if err != nil {
		return News{}, err
	}
	var n News
	err = s.client.Do(ctx, sess, api.Request{Path: path, Method: method, Body: form, RequireAuth: true, Multipart: true}, &n)
	return n, err
}

func (s *Service) Delete(ctx context.Context, sess api.Session, id int64) error {
	return s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodDelete, RequireAuth: true}, nil)
}

func (s *Service) ImageURL(n News) string {
	return web.AssetURL(s.client.BaseURL(), basePath+"/image/", web.Deref(n.Image))
}

func path(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}

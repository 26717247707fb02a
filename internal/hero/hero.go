// Package hero manages the banner slides at the top of the storefront.
package hero

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

// PageSize is the default page size of the hero listing.
const PageSize = 5

type Section struct {
	ID              int64   `json:"id"`
	Heading         string  `json:"heading"`
	Subheading      string  `json:"subheading"`
	BackgroundImage *string `json:"backgroundImage"`
}

type Input struct {
	Heading    string
	Subheading string
	Background *api.Upload
}

var ErrHeadingRequired = errors.New("heading is required")

const basePath = "/hero"

type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, sess api.Session, q api.PageQuery) (api.Page[Section], error) {
	if q.PageSize <= 0 {
		q.PageSize = PageSize
	}
	var page api.Page[Section]
	err := s.client.Do(ctx, sess, api.Request{Path: basePath, Params: q.Params()}, &page)
	return page, err
}

func (s *Service) Get(ctx context.Context, sess api.Session, id int64) (Section, error) {
	var h Section
	err := s.client.Do(ctx, sess, api.Request{Path: path(id)}, &h)
	return h, err
}

func (s *Service) Create(ctx context.Context, sess api.Session, in Input) (Section, error) {
	return s.save(ctx, sess, http.MethodPost, basePath, in)
}

func (s *Service) Update(ctx context.Context, sess api.Session, id int64, in Input) (Section, error) {
	return s.save(ctx, sess, http.MethodPut, path(id), in)
}

func (s *Service) save(ctx context.Context, sess api.Session, method, path string, in Input) (Section, error) {
	heading := strings.TrimSpace(in.Heading)
	if heading == "" {
		return Section{}, ErrHeadingRequired
	}
	form := api.NewForm().
		Set("heading", heading).
		Set("subheading", strings.TrimSpace(in.Subheading)).
		Attach("backgroundImageFile", in.Background)

	var h Section
	err := s.client.Do(ctx, sess, api.Request{Path: path, Method: method, Body: form, RequireAuth: true, Multipart: true}, &h)
	return h, err
}

func (s *Service) Delete(ctx context.Context, sess api.Session, id int64) error {
	return s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodDelete, RequireAuth: true}, nil)
}

func (s *Service) ImageURL(h Section) string {
	return web.AssetURL(s.client.BaseURL(), basePath+"/image/", web.Deref(h.BackgroundImage))
}

func path(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}

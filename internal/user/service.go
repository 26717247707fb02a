package user

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

const basePath = "/users"

type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, sess api.Session, q api.PageQuery) (api.Page[User], error) {
	var page api.Page[User]
	err := s.client.Do(ctx, sess, api.Request{Path: basePath, Params: q.Params(), RequireAuth: true}, &page)
	return page, err
}

func (s *Service) Get(ctx context.Context, sess api.Session, id int64, includeOrders bool) (User, error) {
	var u User
	err := s.client.Do(ctx, sess, api.Request{
		Path:        path(id),
		Params:      api.Params{"includeOrders": includeOrders},
		RequireAuth: true,
	}, &u)
	return u, err
}

func (s *Service) ByEmail(ctx context.Context, sess api.Session, email string) (User, error) {
	var u User
	err := s.client.Do(ctx, sess, api.Request{Path: basePath + "/email/" + url.PathEscape(email), RequireAuth: true}, &u)
	return u, err
}

// Profile is the signed-in account.
func (s *Service) Profile(ctx context.Context, sess api.Session) (User, error) {
	var u User
	err := s.client.Do(ctx, sess, api.Request{Path: basePath + "/profile", RequireAuth: true}, &u)
	return u, err
}

func (s *Service) Create(ctx context.Context, sess api.Session, n NewUser) (User, error) {
	n, err := n.normalize()
	if err != nil {
		return User{}, err
	}
	var u User
	err = s.client.Do(ctx, sess, api.Request{Path: basePath + "/create", Method: http.MethodPost, Body: n, RequireAuth: true}, &u)
	return u, err
}

// Update sends the edit as multipart to PUT /users; the account id travels in the form.
func (s *Service) Update(ctx context.Context, sess api.Session, id int64, e Edit) (User, error) {
	if e.Email == "" {
		return User{}, ErrEmailRequired
	}
	var u User
	err := s.client.Do(ctx, sess, api.Request{
		Path:        basePath,
		Method:      http.MethodPut,
		Body:        e.form(id),
		RequireAuth: true,
		Multipart:   true,
	}, &u)
	return u, err
}

// Delete removes the account and returns the backend's confirmation text.
func (s *Service) Delete(ctx context.Context, sess api.Session, id int64) (string, error) {
	var msg string
	err := s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodDelete, RequireAuth: true}, &msg)
	return msg, err
}

func (s *Service) AvatarURL(u User) string {
	return web.AssetURL(s.client.BaseURL(), basePath+"/avatar/", web.Deref(u.Avatar))
}

func path(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}

func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}

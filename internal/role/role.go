// Package role manages the account roles known to the backend.
package role

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MinhBui2k4/CDTT/internal/api"
)

const (
	Admin = "ADMIN"
	User  = "USER"
)

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Input struct {
	Name string `json:"name"`
}

var ErrNameRequired = errors.New("role name is required")

// Normalize upper-cases the name the way the backend stores roles.
func (in Input) Normalize() (Input, error) {
	in.Name = strings.ToUpper(strings.TrimSpace(in.Name))
	if in.Name == "" {
		return in, ErrNameRequired
	}
	return in, nil
}

const basePath = "/admin/roles"

type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

// List returns every role; the endpoint is not paginated.
func (s *Service) List(ctx context.Context, sess api.Session) ([]Role, error) {
	var roles []Role
	err := s.client.Do(ctx, sess, api.Request{Path: basePath, RequireAuth: true}, &roles)
	return roles, err
}

func (s *Service) Get(ctx context.Context, sess api.Session, id int64) (Role, error) {
	var r Role
	err := s.client.Do(ctx, sess, api.Request{Path: path(id), RequireAuth: true}, &r)
	return r, err
}

func (s *Service) Create(ctx context.Context, sess api.Session, in Input) (Role, error) {
	in, err := in.Normalize()
	if err != nil {
		return Role{}, err
	}
	var r Role
	err = s.client.Do(ctx, sess, api.Request{Path: basePath, Method: http.MethodPost, Body: in, RequireAuth: true}, &r)
	return r, err
}

func (s *Service) Update(ctx context.Context, sess api.Session, id int64, in Input) (Role, error) {
	in, err := in.Normalize()
	if err != nil {
		return Role{}, err
	}
	var r Role
	err = s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodPut, Body: in, RequireAuth: true}, &r)
	return r, err
}

func (s *Service) Delete(ctx context.Context, sess api.Session, id int64) error {
	return s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodDelete, RequireAuth: true}, nil)
}

func path(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}

// Package payment manages the payment methods offered at checkout.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MinhBui2k4/CDTT/internal/api"
)

const basePath = "/admin/payment-methods"

type Method struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Input is the body of a create or update.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

var ErrNameRequired = errors.New("name is required")

func (in Input) Normalize() (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, ErrNameRequired
	}
	return in, nil
}

type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, sess api.Session, q api.PageQuery) (api.Page[Method], error) {
	var page api.Page[Method]
	err := s.client.Do(ctx, sess, api.Request{Path: basePath, Params: q.Params(), RequireAuth: true}, &page)
	return page, err
}

func (s *Service) Create(ctx context.Context, sess api.Session, in Input) (Method, error) {
	in, err := in.Normalize()
	if err != nil {
		return Method{}, err
	}
	var m Method
	err = s.client.Do(ctx, sess, api.Request{Path: basePath, Method: http.MethodPost, Body: in, RequireAuth: true}, &m)
	return m, err
}

func (s *Service) Update(ctx context.Context, sess api.Session, id int64, in Input) (Method, error) {
	in, err := in.Normalize()
	if err != nil {
		return Method{}, err
	}
	var m Method
	err = s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodPut, Body: in, RequireAuth: true}, &m)
	return m, err
}

func (s *Service) Delete(ctx context.Context, sess api.Session, id int64) error {
	return s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodDelete, RequireAuth: true}, nil)
}

func path(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}

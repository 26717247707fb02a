// Package contact handles the messages customers send through the shop's
// contact form.
package contact

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/MinhBui2k4/CDTT/internal/api"
)

const (
	StatusPending  = "PENDING"
	StatusResolved = "RESOLVED"
	StatusClosed   = "CLOSED"
)

// Statuses in workflow order.
var Statuses = []string{StatusPending, StatusResolved, StatusClosed}

type Contact struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Subject   *string `json:"subject"`
	Message   string  `json:"message"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

// Input is a message as a customer submits it.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// StatusTone is the badge colour of a contact status.
func StatusTone(status string) string {
	switch status {
	case StatusPending:
		return "warning"
	case StatusResolved:
		return "success"
	}
	return "default"
}

const basePath = "/contacts"

type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, sess api.Session, q api.PageQuery) (api.Page[Contact], error) {
	var page api.Page[Contact]
	err := s.client.Do(ctx, sess, api.Request{Path: basePath, Params: q.Params(), RequireAuth: true}, &page)
	return page, err
}

func (s *Service) Get(ctx context.Context, sess api.Session, id int64) (Contact, error) {
	var c Contact
	err := s.client.Do(ctx, sess, api.Request{Path: path(id), RequireAuth: true}, &c)
	return c, err
}

// Create submits a message the way the storefront does; no session is needed.
func (s *Service) Create(ctx context.Context, in Input) (Contact, error) {
	var c Contact
	err := s.client.Do(ctx, nil, api.Request{Path: basePath, Method: http.MethodPost, Body: in}, &c)
	return c, err
}

func (s *Service) UpdateStatus(ctx context.Context, sess api.Session, id int64, status string) (Contact, error) {
	if !slices.Contains(Statuses, status) {
		return Contact{}, fmt.Errorf("unknown contact status %q", status)
	}
	var c Contact
	err := s.client.Do(ctx, sess, api.Request{
		Path:        path(id) + "/status",
		Method:      http.MethodPut,
		Body:        map[string]string{"status": status},
		RequireAuth: true,
	}, &c)
	return c, err
}

func (s *Service) Delete(ctx context.Context, sess api.Session, id int64) error {
	return s.client.Do(ctx, sess, api.Request{Path: path(id), Method: http.MethodDelete, RequireAuth: true}, nil)
}

func path(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}

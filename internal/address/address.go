// Package address reads shipping addresses from the backend.
package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/MinhBui2k4/CDTT/internal/api"
)

type Address struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	Ward      string `json:"ward"`
	District  string `json:"district"`
	City      string `json:"city"`
	IsDefault bool   `json:"isDefault"`
}

// Line is the address on one line, skipping empty parts.
func (a Address) Line() string {
	var parts []string
	for _, p := range []string{a.Street, a.Ward, a.District, a.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

const basePath = "/users/addresses"

type Service struct {
	client api.Doer
}

func NewService(client api.Doer) *Service {
	return &Service{client: client}
}

// List returns the addresses of the signed-in account.
func (s *Service) List(ctx context.Context, sess api.Session) ([]Address, error) {
	var addrs []Address
	err := s.client.Do(ctx, sess, api.Request{Path: basePath, RequireAuth: true}, &addrs)
	return addrs, err
}

func (s *Service) Get(ctx context.Context, sess api.Session, id int64) (Address, error) {
	var a Address
	err := s.client.Do(ctx, sess, api.Request{Path: fmt.Sprintf("%s/%d", basePath, id), RequireAuth: true}, &a)
	return a, err
}

// Package user manages shop accounts.
package user

import (
	"errors"
	"slices"
	"strings"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/role"
)

// User is the account shape the backend returns. Orders is filled only when
// the account is fetched with its orders.
type User struct {
	ID        int64          `json:"id"`
	FullName  string         `json:"fullName"`
	Email     string         `json:"email"`
	Phone     *string        `json:"phone"`
	Avatar    *string        `json:"avatar"`
	Roles     []string       `json:"roles"`
	CreatedAt string         `json:"createdAt"`
	Orders    []OrderSummary `json:"orders"`
}

// OrderSummary is an order as listed on its customer's account.
type OrderSummary struct {
	ID          int64   `json:"id"`
	OrderDate   string  `json:"orderDate"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"totalAmount"`
}

// NewUser is the body of POST /users/create.
type NewUser struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	RoleName string `json:"roleName"`
}

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUnknownRole      = errors.New("role must be USER or ADMIN")
)

// Assignable are the roles an account can be created with.
var Assignable = []string{role.User, role.Admin}

func (n NewUser) normalize() (NewUser, error) {
	n.FullName = strings.TrimSpace(n.FullName)
	n.Email = strings.TrimSpace(n.Email)
	n.Phone = strings.TrimSpace(n.Phone)
	if n.RoleName == "" {
		n.RoleName = role.User
	}
	switch {
	case n.Email == "":
		return n, ErrEmailRequired
	case n.Password == "":
		return n, ErrPasswordRequired
	case !slices.Contains(Assignable, n.RoleName):
		return n, ErrUnknownRole
	}
	return n, nil
}

// Edit is an account update. An empty Password keeps the current one and a
// nil Avatar keeps the current picture.
type Edit struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Avatar   *api.Upload
}

func (e Edit) form(id int64) *api.Form {
	return api.NewForm().
		Set("id", strconvID(id)).
		Set("fullName", strings.TrimSpace(e.FullName)).
		Set("email", strings.TrimSpace(e.Email)).
		SetIf("phone", strings.TrimSpace(e.Phone)).
		SetIf("password", e.Password).
		Attach("avatarFile", e.Avatar)
}

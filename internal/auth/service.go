// Package auth signs administrators in against the shop backend.
package auth

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/session"
)

var (
	ErrNotAdmin           = errors.New("this account is not an administrator")
	ErrThrottled          = errors.New("too many sign-in attempts, try again shortly")
	ErrCredentialsMissing = errors.New("email and password are required")
	ErrNoToken            = errors.New("the server did not issue a token")
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string   `json:"token"`
	Roles   []string `json:"roles"`
	UserID  userID   `json:"userId"`
	Email   string   `json:"email"`
	Message string   `json:"message"`
}

// userID accepts the id as a JSON number or a numeric string.
type userID int64

func (id *userID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*id = userID(v)
	return nil
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Login exchanges credentials for a session. Accounts without the admin role
// are refused even when the backend accepts them.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsMissing
	}

	var res loginResponse
	err := s.client.Do(ctx, nil, api.Request{
		Path:   "/auth/login",
		Method: http.MethodPost,
		Body:   credentials{Email: email, Password: password},
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, ErrNoToken
	}
	if !session.HasAdminRole(res.Roles) {
		return nil, ErrNotAdmin
	}
	if res.Email != "" {
		email = res.Email
	}
	return session.New(res.Token, res.Roles, email, int64(res.UserID)), nil
}

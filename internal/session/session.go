// Package session keeps the signed-in administrator's backend token in a
// signed cookie and guards the admin area.
package session

import (
	"slices"
	"sync/atomic"
)

// AdminRole is the role an account needs to enter the admin area.
const AdminRole = "ADMIN"

// Session is one administrator's authentication state for a single request.
// It satisfies api.Session; Expire may be called from concurrent backend calls.
type Session struct {
	token  string
	roles  []string
	email  string
	userID int64

	expired atomic.Bool
}

func New(token string, roles []string, email string, userID int64) *Session {
	return &Session{token: token, roles: roles, email: email, userID: userID}
}

// Token returns the backend bearer token, or "" once the session has expired.
func (s *Session) Token() string {
	if s == nil || s.expired.Load() {
		return ""
	}
	return s.token
}

// Expire marks the token as rejected by the backend.
func (s *Session) Expire() {
	if s != nil {
		s.expired.Store(true)
	}
}

func (s *Session) Expired() bool {
	return s != nil && s.expired.Load()
}

func (s *Session) Roles() []string { return slices.Clone(s.roles) }
func (s *Session) Email() string   { return s.email }
func (s *Session) UserID() int64   { return s.userID }

// IsAdmin reports whether roles include AdminRole.
func (s *Session) IsAdmin() bool {
	return s != nil && HasAdminRole(s.roles)
}

func HasAdminRole(roles []string) bool {
	return slices.Contains(roles, AdminRole)
}

// Package activity keeps an audit trail of the changes administrators make
// through the dashboard.
package activity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionStatus = "status"
)

// Entry is one successful mutation.
type Entry struct {
	ID       uuid.UUID `json:"id"`
	Actor    string    `json:"actor"`
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	EntityID int64     `json:"entityId"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrMissingToken is returned before any network I/O when a call needs a
	// session token and none is present.
	ErrMissingToken = errors.New("authentication token is missing, please log in")
	// ErrSessionExpired matches errors caused by a 401 on an authenticated call.
	ErrSessionExpired = errors.New("session expired")
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
	Payload []byte

	expired bool
}

func newError(status int, payload []byte) *Error {
	return &Error{Status: status, Message: errorMessage(status, payload), Payload: payload}
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrSessionExpired) see through a 401 that ended the session.
func (e *Error) Is(target error) bool {
	return target == ErrSessionExpired && e.expired
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not a backend answer.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// errorMessage prefers the server's own wording from the usual Spring-style payload fields.
func errorMessage(status int, payload []byte) string {
	if gjson.ValidBytes(payload) {
		for _, path := range []string{"message", "error", "detail"} {
			if v := gjson.GetBytes(payload, path); v.Exists() && v.String() != "" {
				return v.String()
			}
		}
	}
	if text := strings.TrimSpace(string(payload)); text != "" && len(text) <= 200 {
		return text
	}
	return http.StatusText(status)
}

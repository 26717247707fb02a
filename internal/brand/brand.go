package brand

import (
	"errors"
	"strings"
)

// Brand is the maker a product is sold under.
type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Input is the body of a create or update.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var ErrNameRequired = errors.New("name is required")

// Normalize trims the submitted fields and checks the name.
func (in Input) Normalize() (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, ErrNameRequired
	}
	return in, nil
}

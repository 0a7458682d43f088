//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxZoneNameLen = 255

// Zone is a named patrol zone. Zones carry no authorization logic of their
// own; write access is gated by the supervisor rank.
type Zone struct {
	ID        int64     `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateZoneRequest carries input for creating a zone.
type CreateZoneRequest struct {
	Name string `json:"name"`
}

// Validate checks the request and normalizes the name.
func (r *CreateZoneRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxZoneNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	r.Name = name
	return nil
}

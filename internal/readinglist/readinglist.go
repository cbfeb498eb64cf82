// Package readinglist manages per-user reading lists.
//
// A list is keyed by (id, userId). The owner is always the caller resolved by
// the auth package; a userId sent in a request body is never read.
package readinglist

import (
	"bytes"
	"errors"
	"time"

	"github.com/goccy/go-json"
)

var (
	ErrNotFound     = errors.New("reading list not found")
	ErrNameRequired = errors.New("list name is required")
	ErrIDRequired   = errors.New("list id is required")
)

// TimeLayout is the stored timestamp format: ISO 8601, UTC, millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type ReadingList struct {
	ID          string   `json:"id" dynamodbav:"id"`
	UserID      string   `json:"userId" dynamodbav:"userId"`
	Name        string   `json:"name" dynamodbav:"name"`
	Description string   `json:"description" dynamodbav:"description"`
	BookIDs     []string `json:"bookIds" dynamodbav:"bookIds"`
	CreatedAt   string   `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   string   `json:"updatedAt" dynamodbav:"updatedAt,omitempty"`

	// Records written by earlier deployments carry "updateAt".
	LegacyUpdatedAt string `json:"-" dynamodbav:"updateAt,omitempty"`
}

// normalize fills the defaults readers expect: a non-nil bookIds and updatedAt.
func (l *ReadingList) normalize() {
	if l.BookIDs == nil {
		l.BookIDs = []string{}
	}
	if l.UpdatedAt == "" {
		l.UpdatedAt = l.LegacyUpdatedAt
	}
	l.LegacyUpdatedAt = ""
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BookIDs     []string `json:"bookIds"`
}

// UpdateInput is the body of an update request. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	BookIDs     *[]string `json:"bookIds,omitempty"`
}

// UnmarshalJSON treats a field sent as null as present: a null name is blank,
// a null description or bookIds clears the field.
func (in *UpdateInput) UnmarshalJSON(b []byte) error {
	type plain UpdateInput
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var sent map[string]json.RawMessage
	if err := json.Unmarshal(b, &sent); err != nil {
		return err
	}

	isNull := func(key string) bool {
		raw, ok := sent[key]
		return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	}
	if p.Name == nil && isNull("name") {
		p.Name = new(string)
	}
	if p.Description == nil && isNull("description") {
		p.Description = new(string)
	}
	if p.BookIDs == nil && isNull("bookIds") {
		p.BookIDs = &[]string{}
	}
	*in = UpdateInput(p)
	return nil
}

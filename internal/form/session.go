package form

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
)

type Status string

const (
	StatusAwaitingInput Status = "awaiting_input"
	StatusConfirming    Status = "confirming"
	StatusCommitted     Status = "committed"
	StatusCancelled     Status = "cancelled"
)

// Terminal sessions are removed from the store.
func (s Status) Terminal() bool {
	return s == StatusCommitted || s == StatusCancelled
}

// Value is a collected answer. Skipped is the sentinel absence written by the
// skip control.
type Value struct {
	Text    string   `json:"text,omitempty"`
	Media   []string `json:"media,omitempty"`
	Skipped bool     `json:"skipped,omitempty"`
}

// Session is the per-user progress through one questionnaire.
// Step always lies in 1..TotalSteps of the variant's catalog.
type Session struct {
	UserID          int64              `json:"user_id"`
	ChatID          int64              `json:"chat_id"`
	Username        string             `json:"username,omitempty"`
	Variant         entity.FormVariant `json:"variant"`
	Step            int                `json:"step"`
	Status          Status             `json:"status"`
	Fields          map[string]Value   `json:"fields"`
	PromptMessageID int                `json:"prompt_message_id,omitempty"`
	StartedAt       time.Time          `json:"started_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Clone returns a deep copy so a failed operation can be rolled back.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	clone := *s
	clone.Fields = make(map[string]Value, len(s.Fields))
	for key, value := range s.Fields {
		value.Media = slices.Clone(value.Media)
		clone.Fields[key] = value
	}
	return &clone
}

// Text returns the collected text of a field.
func (s *Session) Text(field string) string {
	return s.Fields[field].Text
}

// FieldNames lists collected field names in sorted order.
func (s *Session) FieldNames() []string {
	return slices.Sorted(maps.Keys(s.Fields))
}

func (s *Session) String() string {
	return fmt.Sprintf("%s session of user %d at step %d (%s)", s.Variant, s.UserID, s.Step, s.Status)
}

// ValidationError is a rejected answer. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return entity.ErrValidationFailed
}

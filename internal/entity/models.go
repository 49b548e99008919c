package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FormVariant identifies a questionnaire and the collection its records land in.
type FormVariant string

const (
	FormVariantContractor FormVariant = "contractor"
	FormVariantOrder      FormVariant = "order"
	FormVariantSupplier   FormVariant = "supplier"
)

func (v FormVariant) Validate() error {
	switch v {
	case FormVariantContractor, FormVariantOrder, FormVariantSupplier:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
}

// Collection returns the storage table holding records of the variant.
func (v FormVariant) Collection() string {
	switch v {
	case FormVariantContractor:
		return "contractors"
	case FormVariantOrder:
		return "orders"
	case FormVariantSupplier:
		return "suppliers"
	default:
		return ""
	}
}

type RecordStatus string

const (
	RecordStatusPending  RecordStatus = "pending"
	RecordStatusApproved RecordStatus = "approved"
	RecordStatusRejected RecordStatus = "rejected"
)

func (s RecordStatus) Validate() error {
	switch s {
	case RecordStatusPending, RecordStatusApproved, RecordStatusRejected:
		return nil
	default:
		return fmt.Errorf("%w: record status %q", ErrInvalidStatus, string(s))
	}
}

// Record is a submitted form snapshot as stored in the directory.
type Record struct {
	ID          uuid.UUID         `json:"id"`
	Variant     FormVariant       `json:"variant"`
	TelegramID  int64             `json:"telegram_id"`
	Username    string            `json:"username"`
	TelegramTag string            `json:"telegram_tag,omitempty"`
	Fields      map[string]string `json:"fields"`
	Category    string            `json:"category,omitempty"`
	Status      RecordStatus      `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Field returns a collected value or an empty string when absent.
func (r *Record) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// RecordFilter narrows record listings.
type RecordFilter struct {
	Variant FormVariant
	Status  RecordStatus
	Limit   int
	Offset  int
}

// ContractorQuery is a directory search over approved contractors.
type ContractorQuery struct {
	City     string
	WorkType string
}

// DeepLinkPayload builds the /start payload that points back to a record.
func DeepLinkPayload(variant FormVariant, id uuid.UUID) string {
	return string(variant) + "_" + id.String()
}

// ParseDeepLinkPayload is the inverse of DeepLinkPayload.
func ParseDeepLinkPayload(payload string) (FormVariant, uuid.UUID, error) {
	prefix, rawID, ok := strings.Cut(payload, "_")
	if !ok {
		return "", uuid.Nil, fmt.Errorf("%w: deep link %q", ErrInvalidFormat, payload)
	}

	variant := FormVariant(prefix)
	if err := variant.Validate(); err != nil {
		return "", uuid.Nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("%w: deep link id: %v", ErrInvalidFormat, err)
	}

	return variant, id, nil
}

type ComplaintStatus string

const (
	ComplaintStatusNew      ComplaintStatus = "new"
	ComplaintStatusInReview ComplaintStatus = "in_review"
	ComplaintStatusResolved ComplaintStatus = "resolved"
)

func (s ComplaintStatus) Validate() error {
	switch s {
	case ComplaintStatusNew, ComplaintStatusInReview, ComplaintStatusResolved:
		return nil
	default:
		return fmt.Errorf("%w: complaint status %q", ErrInvalidStatus, string(s))
	}
}

type Complaint struct {
	ID          uuid.UUID       `json:"id"`
	TelegramID  int64           `json:"telegram_id"`
	TelegramTag string          `json:"telegram_tag,omitempty"`
	RecordID    *uuid.UUID      `json:"record_id,omitempty"`
	Message     string          `json:"message"`
	Status      ComplaintStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

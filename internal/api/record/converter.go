package record

import (
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/google/uuid"
)

type FieldDTO struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type RecordDTO struct {
	ID          uuid.UUID           `json:"id"`
	Variant     entity.FormVariant  `json:"variant"`
	TelegramID  int64               `json:"telegram_id"`
	Username    string              `json:"username,omitempty"`
	TelegramTag string              `json:"telegram_tag,omitempty"`
	Category    string              `json:"category,omitempty"`
	Status      entity.RecordStatus `json:"status"`
	Fields      []FieldDTO          `json:"fields"`
	CreatedAt   string              `json:"created_at"`
}

type ListRecordsResponse struct {
	Records []*RecordDTO `json:"records"`
	Count   int          `json:"count"`
}

// toRecordDTO lists answers in questionnaire order with their labels.
func toRecordDTO(r *entity.Record) *RecordDTO {
	dto := &RecordDTO{
		ID:          r.ID,
		Variant:     r.Variant,
		TelegramID:  r.TelegramID,
		Username:    r.Username,
		TelegramTag: r.TelegramTag,
		Category:    r.Category,
		Status:      r.Status,
		Fields:      make([]FieldDTO, 0, len(r.Fields)),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
	}

	catalog, err := form.Lookup(r.Variant)
	if err != nil {
		return dto
	}
	for _, step := range catalog.Steps {
		value := r.Field(step.Field)
		if value == "" {
			continue
		}
		dto.Fields = append(dto.Fields, FieldDTO{Field: step.Field, Label: step.Label, Value: value})
	}
	return dto
}

package record

import (
	"github.com/EdnondDantes/golosStroyki/internal/entity"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type listRecordsRequest struct {
	Variant string `validate:"required,variant"`
	Status  string `validate:"omitempty,record_status"`
	Limit   int    `validate:"min=1,max=200"`
	Offset  int    `validate:"min=0"`
}

func (r *listRecordsRequest) filter() entity.RecordFilter {
	return entity.RecordFilter{
		Variant: entity.FormVariant(r.Variant),
		Status:  entity.RecordStatus(r.Status),
		Limit:   r.Limit,
		Offset:  r.Offset,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,record_status"`
}

type exportRequest struct {
	Variant string `validate:"required,variant"`
	Status  string `validate:"omitempty,record_status"`
	Format  string `validate:"required,oneof=pdf docx md"`
}

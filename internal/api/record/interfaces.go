package record

import (
	"context"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/formatter"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/moderation"
	"github.com/google/uuid"
)

type ModerationUsecase interface {
	ListRecords(ctx context.Context, filter entity.RecordFilter) ([]*entity.Record, error)
	GetRecord(ctx context.Context, variant entity.FormVariant, id uuid.UUID) (*entity.Record, error)
	UpdateRecordStatus(ctx context.Context, variant entity.FormVariant, id uuid.UUID, status entity.RecordStatus) (*entity.Record, error)
	ExportRecords(ctx context.Context, variant entity.FormVariant, status entity.RecordStatus, format formatter.Format) (*moderation.Export, error)
}

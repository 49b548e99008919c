package moderation

import (
	"context"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/google/uuid"
)

type RecordRepository interface {
	GetRecord(ctx context.Context, variant entity.FormVariant, id uuid.UUID) (*entity.Record, error)
	ListRecords(ctx context.Context, filter entity.RecordFilter) ([]*entity.Record, error)
	UpdateRecordStatus(ctx context.Context, variant entity.FormVariant, id uuid.UUID, status entity.RecordStatus) (*entity.Record, error)
}

type ComplaintRepository interface {
	ListComplaints(ctx context.Context, status entity.ComplaintStatus, limit, offset int) ([]*entity.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id uuid.UUID, status entity.ComplaintStatus) (*entity.Complaint, error)
}

// SubmitterNotifier tells the author of a record about a moderation decision.
type SubmitterNotifier interface {
	NotifyStatus(ctx context.Context, record *entity.Record) error
}

type Webhook interface {
	RecordStatusChanged(ctx context.Context, record *entity.Record)
}

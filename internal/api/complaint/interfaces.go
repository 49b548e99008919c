package complaint

import (
	"context"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/google/uuid"
)

type ModerationUsecase interface {
	ListComplaints(ctx context.Context, status entity.ComplaintStatus, limit, offset int) ([]*entity.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id uuid.UUID, status entity.ComplaintStatus) (*entity.Complaint, error)
}

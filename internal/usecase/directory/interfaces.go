package directory

import (
	"context"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/google/uuid"
)

type Repository interface {
	GetRecord(ctx context.Context, variant entity.FormVariant, id uuid.UUID) (*entity.Record, error)
	SearchContractors(ctx context.Context, q entity.ContractorQuery, limit, offset int) ([]*entity.Record, error)
}

package submission

import (
	"context"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
)

type Repository interface {
	InsertRecord(ctx context.Context, record *entity.Record) error
}

// Publisher republishes a stored record to the public channel.
type Publisher interface {
	PublishRecord(ctx context.Context, record *entity.Record) error
}

type Classifier interface {
	ClassifyCategory(ctx context.Context, raw string) (string, error)
}

type Notifier interface {
	RecordSubmitted(ctx context.Context, record *entity.Record)
}

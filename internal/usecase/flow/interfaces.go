package flow

import (
	"context"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
)

// SessionStore keeps the user's open form.
type SessionStore interface {
	GetForm(ctx context.Context, userID int64) (*form.Session, error)
	SetForm(ctx context.Context, session *form.Session) error
	DeleteForm(ctx context.Context, userID int64) error
}

type Committer interface {
	Commit(ctx context.Context, session *form.Session) (*entity.Record, error)
}

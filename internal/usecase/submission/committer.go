package submission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// classifiedField is the contractor answer used to pick a directory category.
const classifiedField = "specialization"

// Committer turns a confirmed session into a stored record and fans it out.
type Committer struct {
	repo            Repository
	publisher       Publisher
	classifier      Classifier
	notifier        Notifier
	classifyTimeout time.Duration
	now             func() time.Time
}

// NewCommitter wires the committer. publisher, classifier and notifier may be
// nil when the corresponding feature is off.
func NewCommitter(
	repo Repository,
	publisher Publisher,
	classifier Classifier,
	notifier Notifier,
	classifyTimeout time.Duration,
) *Committer {
	return &Committer{
		repo:            repo,
		publisher:       publisher,
		classifier:      classifier,
		notifier:        notifier,
		classifyTimeout: classifyTimeout,
		now:             time.Now,
	}
}

// Commit stores the session as a pending record. Only the storage write can
// fail the commit; it is reported as entity.ErrCommitFailed and the caller
// keeps the session. Publishing and notification failures are logged.
func (c *Committer) Commit(ctx context.Context, s *form.Session) (*entity.Record, error) {
	catalog, err := form.Lookup(s.Variant)
	if err != nil {
		return nil, err
	}
	if s.Status != form.StatusConfirming {
		return nil, fmt.Errorf("%w: commit from %s", entity.ErrInvalidTransition, s.Status)
	}
	if missing := catalog.Missing(s); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrIncompleteForm, strings.Join(missing, ", "))
	}

	record := &entity.Record{
		ID:         uuid.New(),
		Variant:    s.Variant,
		TelegramID: s.UserID,
		Username:   s.Username,
		Fields:     catalog.Snapshot(s),
		Status:     entity.RecordStatusPending,
		CreatedAt:  c.now().UTC(),
	}
	if s.Username != "" {
		record.TelegramTag = "@" + s.Username
	}
	if s.Variant == entity.FormVariantContractor {
		record.Category = c.classify(ctx, record.Field(classifiedField))
	}

	if err := c.repo.InsertRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrCommitFailed, err)
	}

	ctxzap.Info(ctx, "record committed",
		zap.Stringer("record_id", record.ID),
		zap.String("variant", string(record.Variant)),
		zap.String("category", record.Category),
	)

	if c.publisher != nil {
		if err := c.publisher.PublishRecord(ctx, record); err != nil {
			ctxzap.Warn(ctx, "failed to publish record", zap.Stringer("record_id", record.ID), zap.Error(err))
		}
	}
	if c.notifier != nil {
		c.notifier.RecordSubmitted(ctx, record)
	}

	return record, nil
}

// classify is fail-open: any error or timeout leaves the category absent.
func (c *Committer) classify(ctx context.Context, raw string) string {
	if c.classifier == nil || strings.TrimSpace(raw) == "" {
		return ""
	}

	if c.classifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.classifyTimeout)
		defer cancel()
	}

	category, err := c.classifier.ClassifyCategory(ctx, raw)
	if err != nil {
		ctxzap.Warn(ctx, "category classification unavailable", zap.Error(err))
		return ""
	}
	return category
}

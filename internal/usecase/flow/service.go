package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Service runs Form Sessions on behalf of users. Every operation loads the
// user's session, works on a copy and stores it back only on success, so a
// failed operation never changes what is stored. Callers serialize operations
// of the same user.
type Service struct {
	machine   *form.Machine
	store     SessionStore
	committer Committer
}

func NewService(machine *form.Machine, store SessionStore, committer Committer) *Service {
	return &Service{
		machine:   machine,
		store:     store,
		committer: committer,
	}
}

// Start replaces any open form of the user with a fresh one at step 1.
func (s *Service) Start(ctx context.Context, userID, chatID int64, username string, variant entity.FormVariant) (*form.Session, error) {
	session, err := s.machine.Start(userID, chatID, username, variant)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetForm(ctx, session); err != nil {
		return nil, fmt.Errorf("store new session: %w", err)
	}

	ctxzap.Info(ctx, "form started", zap.String("variant", string(variant)))
	return session, nil
}

// Current returns the open form or entity.ErrSessionNotFound.
func (s *Service) Current(ctx context.Context, userID int64) (*form.Session, error) {
	return s.store.GetForm(ctx, userID)
}

// Submit answers the current step. A *form.ValidationError leaves the stored
// session unchanged.
func (s *Service) Submit(ctx context.Context, userID int64, in form.Input) (*form.Session, form.Outcome, error) {
	var outcome form.Outcome
	session, err := s.update(ctx, userID, func(session *form.Session) error {
		var err error
		outcome, err = s.machine.Submit(ctx, session, in)
		return err
	})
	if err != nil {
		return nil, form.Outcome{}, err
	}

	if outcome.EnrichmentErr != nil {
		ctxzap.Warn(ctx, "enrichment failed, raw answer kept", zap.Error(outcome.EnrichmentErr))
	}
	return session, outcome, nil
}

func (s *Service) Skip(ctx context.Context, userID int64) (*form.Session, error) {
	return s.update(ctx, userID, s.machine.Skip)
}

func (s *Service) Back(ctx context.Context, userID int64) (*form.Session, error) {
	return s.update(ctx, userID, s.machine.Back)
}

// SetPromptMessage remembers the message holding the current step prompt.
func (s *Service) SetPromptMessage(ctx context.Context, userID int64, messageID int) error {
	_, err := s.update(ctx, userID, func(session *form.Session) error {
		session.PromptMessageID = messageID
		return nil
	})
	return err
}

// Confirm commits the reviewed form. On success the session is removed, or
// stored as committed if removal fails; on commit failure it stays at the
// review step so the user can retry.
func (s *Service) Confirm(ctx context.Context, userID int64) (*entity.Record, error) {
	stored, err := s.store.GetForm(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := stored.Clone()
	if err := s.machine.Confirm(session); err != nil {
		return nil, err
	}

	record, err := s.committer.Commit(ctx, session)
	if err != nil {
		ctxzap.Error(ctx, "commit failed, session kept for retry", zap.Error(err))
		return nil, err
	}

	s.machine.Committed(session)
	if err := s.store.DeleteForm(ctx, userID); err != nil {
		ctxzap.Warn(ctx, "failed to drop committed session", zap.Error(err))
		// A stored committed session rejects another confirm until it expires.
		if err := s.store.SetForm(ctx, session); err != nil {
			return nil, fmt.Errorf("close committed session of record %s: %w", record.ID, err)
		}
	}

	return record, nil
}

// Cancel removes the user's form. Cancelling nothing is not an error.
func (s *Service) Cancel(ctx context.Context, userID int64) (*form.Session, error) {
	stored, err := s.store.GetForm(ctx, userID)
	if errors.Is(err, entity.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session := stored.Clone()
	s.machine.Cancel(session)
	if err := s.store.DeleteForm(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete cancelled session: %w", err)
	}

	ctxzap.Info(ctx, "form cancelled", zap.String("variant", string(session.Variant)), zap.Int("step", session.Step))
	return session, nil
}

func (s *Service) update(ctx context.Context, userID int64, apply func(*form.Session) error) (*form.Session, error) {
	stored, err := s.store.GetForm(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := stored.Clone()
	if err := apply(session); err != nil {
		return nil, err
	}

	if err := s.store.SetForm(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

package form

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/sanitize"
)

const (
	msgChooseButton = "❌ Выбери вариант из кнопок ниже."
	msgSendPhoto    = "❌ Отправь фото или нажми \"Пропустить\"."
	msgSendContact  = "❌ Отправь контакт кнопкой ниже или напиши номер телефона."
	msgSendText     = "❌ Напиши ответ текстом."
)

// Enricher cleans up free-text answers. Implementations may fail; the machine
// then keeps the raw answer.
type Enricher interface {
	NormalizeText(ctx context.Context, raw string, hint entity.EnrichHint) (string, error)
}

// Input is a single user event addressed to the current step.
type Input struct {
	Kind   InputKind
	Text   string
	Choice string
	Media  []string
}

func TextInput(text string) Input {
	return Input{Kind: InputText, Text: text}
}

func ChoiceInput(key string) Input {
	return Input{Kind: InputChoice, Choice: key}
}

func ContactInput(phone string) Input {
	return Input{Kind: InputContact, Text: phone}
}

func PhotoInput(fileIDs ...string) Input {
	return Input{Kind: InputPhoto, Media: fileIDs}
}

// Outcome describes side results of an accepted answer.
type Outcome struct {
	Enriched bool
	// EnrichmentErr is set when enrichment failed open and the raw answer was kept.
	EnrichmentErr error
}

// Machine drives Form Sessions through their catalogs.
type Machine struct {
	enricher Enricher
	timeout  time.Duration
	now      func() time.Time
}

func NewMachine(enricher Enricher, enrichTimeout time.Duration) *Machine {
	return &Machine{
		enricher: enricher,
		timeout:  enrichTimeout,
		now:      time.Now,
	}
}

// Start opens a fresh session at step 1.
func (m *Machine) Start(userID, chatID int64, username string, variant entity.FormVariant) (*Session, error) {
	if _, err := Lookup(variant); err != nil {
		return nil, err
	}

	now := m.now()
	return &Session{
		UserID:    userID,
		ChatID:    chatID,
		Username:  username,
		Variant:   variant,
		Step:      1,
		Status:    StatusAwaitingInput,
		Fields:    map[string]Value{},
		StartedAt: now,
		UpdatedAt: now,
	}, nil
}

// Submit applies an answer to the current step. Rejected answers return a
// *ValidationError and leave the session untouched.
func (m *Machine) Submit(ctx context.Context, s *Session, in Input) (Outcome, error) {
	catalog, step, err := m.current(s)
	if err != nil {
		return Outcome{}, err
	}

	switch in.Kind {
	case InputChoice:
		value, next, ok := catalog.Transition(s.Step, in.Choice)
		if !ok {
			return Outcome{}, fmt.Errorf("%w: choice %q on step %d of %s", entity.ErrInvalidTransition, in.Choice, s.Step, s.Variant)
		}
		m.write(catalog, s, step.Field, Value{Text: value}, next)
		return Outcome{}, nil

	case InputPhoto:
		if step.Input != InputPhoto {
			return Outcome{}, invalid(step, msgForStep(step))
		}
		if len(in.Media) == 0 {
			return Outcome{}, invalid(step, msgSendPhoto)
		}
		m.write(catalog, s, step.Field, Value{Media: in.Media}, s.Step+1)
		return Outcome{}, nil

	case InputContact:
		if step.Input != InputContact {
			return Outcome{}, invalid(step, msgForStep(step))
		}
		return m.submitText(ctx, catalog, s, step, in.Text)

	case InputText:
		if !step.AcceptsText() {
			return Outcome{}, invalid(step, msgForStep(step))
		}
		return m.submitText(ctx, catalog, s, step, in.Text)

	default:
		return Outcome{}, fmt.Errorf("%w: input kind %q", entity.ErrInvalidTransition, in.Kind)
	}
}

// submitText strips markup first so validators judge, and review shows, the
// value that is stored.
func (m *Machine) submitText(ctx context.Context, catalog *Catalog, s *Session, step Step, raw string) (Outcome, error) {
	result := validate(step, sanitize.Text(raw))
	if !result.Valid() {
		return Outcome{}, invalid(step, result.Message)
	}

	var outcome Outcome
	value := result.Value
	if step.Enrich != entity.EnrichHintNone && m.enricher != nil {
		value, outcome = m.enrich(ctx, step, value)
	}

	m.write(catalog, s, step.Field, Value{Text: value}, s.Step+1)
	return outcome, nil
}

// enrich never fails: on any problem the validated raw answer is returned.
func (m *Machine) enrich(ctx context.Context, step Step, raw string) (string, Outcome) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	normalized, err := m.enricher.NormalizeText(ctx, raw, step.Enrich)
	if err != nil {
		return raw, Outcome{EnrichmentErr: fmt.Errorf("%w: %v", entity.ErrEnrichmentUnavailable, err)}
	}

	normalized = sanitize.Text(normalized)
	if normalized == "" {
		return raw, Outcome{EnrichmentErr: fmt.Errorf("%w: empty result", entity.ErrEnrichmentUnavailable)}
	}

	if result := validate(step, normalized); !result.Valid() {
		return raw, Outcome{EnrichmentErr: fmt.Errorf("%w: unusable result: %s", entity.ErrEnrichmentUnavailable, result.Message)}
	}

	return normalized, Outcome{Enriched: normalized != raw}
}

// Skip writes the absence sentinel on a skippable step and advances.
func (m *Machine) Skip(s *Session) error {
	catalog, step, err := m.current(s)
	if err != nil {
		return err
	}
	if !step.Skippable {
		return fmt.Errorf("%w: step %d of %s is not skippable", entity.ErrInvalidTransition, s.Step, s.Variant)
	}

	m.write(catalog, s, step.Field, Value{Skipped: true}, s.Step+1)
	return nil
}

// Back returns to the previous question, or from the review to the last one.
// The answer of the re-entered step is dropped.
func (m *Machine) Back(s *Session) error {
	catalog, err := Lookup(s.Variant)
	if err != nil {
		return err
	}

	switch s.Status {
	case StatusConfirming:
		s.Status = StatusAwaitingInput
	case StatusAwaitingInput:
		if s.Step <= 1 {
			return fmt.Errorf("%w: no step before the first one", entity.ErrInvalidTransition)
		}
		s.Step--
	default:
		return fmt.Errorf("%w: back from %s", entity.ErrInvalidTransition, s.Status)
	}

	if step, ok := catalog.Step(s.Step); ok {
		delete(s.Fields, step.Field)
	}
	s.UpdatedAt = m.now()
	return nil
}

// Confirm checks the review state is complete. The caller commits and then
// calls Committed.
func (m *Machine) Confirm(s *Session) error {
	if s.Status != StatusConfirming {
		return fmt.Errorf("%w: confirm from %s", entity.ErrInvalidTransition, s.Status)
	}

	catalog, err := Lookup(s.Variant)
	if err != nil {
		return err
	}

	if missing := catalog.Missing(s); len(missing) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrIncompleteForm, strings.Join(missing, ", "))
	}
	return nil
}

func (m *Machine) Committed(s *Session) {
	s.Status = StatusCommitted
	s.UpdatedAt = m.now()
}

func (m *Machine) Cancel(s *Session) {
	s.Status = StatusCancelled
	s.UpdatedAt = m.now()
}

func (m *Machine) current(s *Session) (*Catalog, Step, error) {
	if s == nil {
		return nil, Step{}, entity.ErrSessionNotFound
	}
	if s.Status != StatusAwaitingInput {
		return nil, Step{}, fmt.Errorf("%w: input while %s", entity.ErrInvalidTransition, s.Status)
	}

	catalog, err := Lookup(s.Variant)
	if err != nil {
		return nil, Step{}, err
	}

	step, ok := catalog.Step(s.Step)
	if !ok {
		return nil, Step{}, fmt.Errorf("%w: step %d out of range", entity.ErrInvalidTransition, s.Step)
	}
	return catalog, step, nil
}

// write stores the answer and moves to next. Steps jumped over by a branch get
// the absence sentinel; moving past the last step enters the review.
func (m *Machine) write(catalog *Catalog, s *Session, field string, value Value, next int) {
	if s.Fields == nil {
		s.Fields = map[string]Value{}
	}
	s.Fields[field] = value

	total := catalog.TotalSteps()
	for index := s.Step + 1; index < next && index <= total; index++ {
		if jumped, ok := catalog.Step(index); ok {
			s.Fields[jumped.Field] = Value{Skipped: true}
		}
	}

	if next > total {
		s.Step = total
		s.Status = StatusConfirming
	} else {
		s.Step = next
	}
	s.UpdatedAt = m.now()
}

func validate(step Step, raw string) Result {
	if step.Validate == nil {
		text := strings.TrimSpace(raw)
		if text == "" {
			return reject(msgForStep(step))
		}
		return accept(text)
	}
	return step.Validate(raw)
}

func msgForStep(step Step) string {
	switch step.Input {
	case InputPhoto:
		return msgSendPhoto
	case InputContact:
		return msgSendContact
	case InputText:
		return msgSendText
	default:
		return msgChooseButton
	}
}

func invalid(step Step, message string) *ValidationError {
	return &ValidationError{Field: step.Field, Message: message}
}

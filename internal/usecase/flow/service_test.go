package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/state"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mu      sync.Mutex
	err     error
	records []*entity.Record
	calls   int
}

func (r *fakeRepository) InsertRecord(_ context.Context, record *entity.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

type failingEnricher struct{}

func (failingEnricher) NormalizeText(context.Context, string, entity.EnrichHint) (string, error) {
	return "", errors.New("503 service unavailable")
}

const userID int64 = 42

func contractorAnswers() []form.Input {
	return []form.Input{
		form.ChoiceInput("wf_brigade"),
		form.ChoiceInput("city_moscow"),
		form.TextInput("Отделка квартир, плитка"),
		form.ChoiceInput("exp_3_5"),
		form.TextInput("Квартиры и офисы до 200 кв.м."),
		form.TextInput("Бригада 4 человека"),
		form.ChoiceInput("doc_ip"),
		form.TextInput("от 2000 ₽/м², аванс 30%"),
		form.ContactInput("89123456789"),
		form.TextInput("нет"),
	}
}

func newTestService(enricher form.Enricher) (*Service, *fakeRepository, *state.Manager) {
	repo := &fakeRepository{}
	manager := state.NewManager(state.NewMemoryStorage(time.Hour, time.Hour))
	committer := submission.NewCommitter(repo, nil, nil, nil, time.Second)
	return NewService(form.NewMachine(enricher, 50*time.Millisecond), manager, committer), repo, manager
}

func fillContractor(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	_, err := svc.Start(ctx, userID, userID, "brigadir", entity.FormVariantContractor)
	require.NoError(t, err)
	for i, in := range contractorAnswers() {
		_, _, err := svc.Submit(ctx, userID, in)
		require.NoError(t, err, "step %d", i+1)
	}
	session, err := svc.Skip(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, form.StatusConfirming, session.Status)
}

func TestService_CompleteContractorFlow(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(nil)
	fillContractor(t, svc)

	record, err := svc.Confirm(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	require.Len(t, repo.records, 1)
	assert.Equal(t, record, repo.records[0])
	assert.Equal(t, entity.RecordStatusPending, record.Status)
	assert.Equal(t, "+79123456789", record.Field("contact"))
	assert.Equal(t, "Бригада", record.Field("work_format"))
	assert.Equal(t, "@brigadir", record.TelegramTag)
	for _, field := range []string{"city", "specialization", "experience", "objects_worked", "work_volume", "documents_form", "payment_conditions"} {
		assert.NotEmpty(t, record.Field(field), field)
	}

	_, err = svc.Current(ctx, userID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestService_CommitFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(nil)
	fillContractor(t, svc)
	before, err := svc.Current(ctx, userID)
	require.NoError(t, err)

	repo.err = errors.New("connection refused")
	_, err = svc.Confirm(ctx, userID)
	require.ErrorIs(t, err, entity.ErrCommitFailed)

	after, err := svc.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, form.StatusConfirming, after.Status)
	assert.Equal(t, before.Fields, after.Fields)
	assert.Empty(t, repo.records)

	repo.err = nil
	record, err := svc.Confirm(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.Len(t, repo.records, 1)
	assert.Equal(t, before.Text("contact"), record.Field("contact"))
}

type undeletableStore struct {
	*state.Manager
	setErr error
}

func (undeletableStore) DeleteForm(context.Context, int64) error {
	return errors.New("state table locked")
}

func (s undeletableStore) SetForm(ctx context.Context, session *form.Session) error {
	if session.Status == form.StatusCommitted && s.setErr != nil {
		return s.setErr
	}
	return s.Manager.SetForm(ctx, session)
}

func TestService_ConfirmTwiceAfterFailedCleanup(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{}
	store := undeletableStore{Manager: state.NewManager(state.NewMemoryStorage(time.Hour, time.Hour))}
	committer := submission.NewCommitter(repo, nil, nil, nil, time.Second)
	svc := NewService(form.NewMachine(nil, time.Second), store, committer)
	fillContractor(t, svc)

	_, err := svc.Confirm(ctx, userID)
	require.NoError(t, err)

	stored, err := svc.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, form.StatusCommitted, stored.Status)

	_, err = svc.Confirm(ctx, userID)
	require.ErrorIs(t, err, entity.ErrInvalidTransition)
	assert.Len(t, repo.records, 1, "second confirm must not insert again")
}

func TestService_ConfirmReportsUnclosedSession(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{}
	store := undeletableStore{
		Manager: state.NewManager(state.NewMemoryStorage(time.Hour, time.Hour)),
		setErr:  errors.New("state table locked"),
	}
	svc := NewService(form.NewMachine(nil, time.Second), store, submission.NewCommitter(repo, nil, nil, nil, time.Second))
	fillContractor(t, svc)

	record, err := svc.Confirm(ctx, userID)
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Len(t, repo.records, 1)
}

func TestService_ValidationErrorLeavesStoredSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil)

	_, err := svc.Start(ctx, userID, userID, "", entity.FormVariantContractor)
	require.NoError(t, err)
	_, _, err = svc.Submit(ctx, userID, form.ChoiceInput("wf_specialist"))
	require.NoError(t, err)

	_, _, err = svc.Submit(ctx, userID, form.TextInput("М"))
	var validationErr *form.ValidationError
	require.ErrorAs(t, err, &validationErr)

	session, err := svc.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Step)
	assert.NotContains(t, session.Fields, "city")
}

func TestService_CancelAndRestart(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(nil)

	_, err := svc.Start(ctx, userID, userID, "", entity.FormVariantContractor)
	require.NoError(t, err)
	for _, in := range contractorAnswers()[:4] {
		_, _, err := svc.Submit(ctx, userID, in)
		require.NoError(t, err)
	}

	cancelled, err := svc.Cancel(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, form.StatusCancelled, cancelled.Status)
	assert.Equal(t, 5, cancelled.Step)

	_, err = svc.Current(ctx, userID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	restarted, err := svc.Start(ctx, userID, userID, "", entity.FormVariantContractor)
	require.NoError(t, err)
	assert.Equal(t, 1, restarted.Step)
	assert.Empty(t, restarted.Fields)
	assert.Zero(t, repo.calls)

	again, err := svc.Cancel(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, again)
	none, err := svc.Cancel(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestService_EnrichmentFailureKeepsRawAnswer(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(failingEnricher{})

	_, err := svc.Start(ctx, userID, userID, "", entity.FormVariantContractor)
	require.NoError(t, err)
	for _, in := range contractorAnswers()[:2] {
		_, _, err := svc.Submit(ctx, userID, in)
		require.NoError(t, err)
	}

	session, outcome, err := svc.Submit(ctx, userID, form.TextInput("кладу плитку"))
	require.NoError(t, err)
	assert.ErrorIs(t, outcome.EnrichmentErr, entity.ErrEnrichmentUnavailable)
	assert.Equal(t, "кладу плитку", session.Text("specialization"))
	assert.Equal(t, 4, session.Step)
}

func TestService_BackAndPromptMessage(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil)

	_, err := svc.Start(ctx, userID, userID, "", entity.FormVariantOrder)
	require.NoError(t, err)
	require.NoError(t, svc.SetPromptMessage(ctx, userID, 777))

	_, err = svc.Back(ctx, userID)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	session, err := svc.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 777, session.PromptMessageID)
	assert.Equal(t, 1, session.Step)
}

func TestService_NoSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil)

	_, _, err := svc.Submit(ctx, userID, form.TextInput("привет"))
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	_, err = svc.Confirm(ctx, userID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestService_ConcurrentUsersDoNotInterfere(t *testing.T) {
	ctx := context.Background()
	svc, repo, manager := newTestService(nil)

	var wg sync.WaitGroup
	for id := int64(1); id <= 20; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			unlock := manager.Lock(id)
			defer unlock()

			_, err := svc.Start(ctx, id, id, "", entity.FormVariantContractor)
			assert.NoError(t, err)
			for _, in := range contractorAnswers() {
				_, _, err := svc.Submit(ctx, id, in)
				assert.NoError(t, err)
			}
			_, err = svc.Skip(ctx, id)
			assert.NoError(t, err)
			_, err = svc.Confirm(ctx, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.Len(t, repo.records, 20)
	seen := make(map[int64]bool)
	for _, record := range repo.records {
		assert.False(t, seen[record.TelegramID])
		seen[record.TelegramID] = true
	}
}

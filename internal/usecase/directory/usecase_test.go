package directory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	records []*entity.Record
	queries []entity.ContractorQuery
}

func (r *fakeRepository) GetRecord(_ context.Context, variant entity.FormVariant, id uuid.UUID) (*entity.Record, error) {
	for _, record := range r.records {
		if record.ID == id && record.Variant == variant {
			return record, nil
		}
	}
	return nil, entity.ErrRecordNotFound
}

func (r *fakeRepository) SearchContractors(_ context.Context, q entity.ContractorQuery, limit, offset int) ([]*entity.Record, error) {
	r.queries = append(r.queries, q)
	if offset >= len(r.records) {
		return nil, nil
	}
	end := min(offset+limit, len(r.records))
	return r.records[offset:end], nil
}

func contractors(n int) []*entity.Record {
	records := make([]*entity.Record, 0, n)
	for i := range n {
		records = append(records, &entity.Record{
			ID:        uuid.New(),
			Variant:   entity.FormVariantContractor,
			Fields:    map[string]string{"city": "Москва", "specialization": fmt.Sprintf("Плитка %d", i)},
			Status:    entity.RecordStatusApproved,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}
	return records
}

func TestUseCase_SearchPaging(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{records: contractors(7)}
	uc := New(repo, 3)
	q := entity.ContractorQuery{City: "моск", WorkType: "плит"}

	first, err := uc.Search(ctx, q, 0)
	require.NoError(t, err)
	assert.Len(t, first.Records, 3)
	assert.True(t, first.HasMore)
	assert.Equal(t, 3, first.NextOffset())

	second, err := uc.Search(ctx, q, first.NextOffset())
	require.NoError(t, err)
	assert.Len(t, second.Records, 3)
	assert.True(t, second.HasMore)

	last, err := uc.Search(ctx, q, second.NextOffset())
	require.NoError(t, err)
	assert.Len(t, last.Records, 1)
	assert.False(t, last.HasMore)
	assert.Equal(t, repo.records[6], last.Records[0])

	assert.Equal(t, q, repo.queries[0])
}

func TestUseCase_SearchEmpty(t *testing.T) {
	uc := New(&fakeRepository{}, 0)

	page, err := uc.Search(context.Background(), entity.ContractorQuery{City: "Тверь", WorkType: "кровля"}, -5)
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.False(t, page.HasMore)
	assert.Zero(t, page.Offset)
}

func TestValidateQueryParts(t *testing.T) {
	city, err := ValidateCity("  Казань ")
	require.NoError(t, err)
	assert.Equal(t, "Казань", city)

	_, err = ValidateCity(" К ")
	assert.ErrorIs(t, err, ErrCityTooShort)

	workType, err := ValidateWorkType("окна")
	require.NoError(t, err)
	assert.Equal(t, "окна", workType)

	_, err = ValidateWorkType("ок")
	assert.ErrorIs(t, err, ErrWorkTypeTooShort)
}

func TestUseCase_Lookup(t *testing.T) {
	ctx := context.Background()
	approved := &entity.Record{ID: uuid.New(), Variant: entity.FormVariantOrder, Status: entity.RecordStatusApproved}
	pending := &entity.Record{ID: uuid.New(), Variant: entity.FormVariantContractor, Status: entity.RecordStatusPending}
	rejected := &entity.Record{ID: uuid.New(), Variant: entity.FormVariantContractor, Status: entity.RecordStatusRejected}
	uc := New(&fakeRepository{records: []*entity.Record{approved, pending, rejected}}, 3)

	got, err := uc.Lookup(ctx, entity.DeepLinkPayload(approved.Variant, approved.ID))
	require.NoError(t, err)
	assert.Equal(t, approved, got)

	got, err = uc.Lookup(ctx, entity.DeepLinkPayload(pending.Variant, pending.ID))
	require.NoError(t, err)
	assert.Equal(t, pending, got)

	for name, payload := range map[string]string{
		"rejected":      entity.DeepLinkPayload(rejected.Variant, rejected.ID),
		"unknown id":    entity.DeepLinkPayload(entity.FormVariantContractor, uuid.New()),
		"wrong variant": entity.DeepLinkPayload(entity.FormVariantSupplier, approved.ID),
		"garbage":       "hello",
		"bad uuid":      "order_123",
	} {
		_, err := uc.Lookup(ctx, payload)
		assert.ErrorIs(t, err, entity.ErrRecordNotFound, name)
	}
}

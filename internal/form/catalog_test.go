package form

import (
	"testing"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for _, variant := range []entity.FormVariant{
		entity.FormVariantContractor,
		entity.FormVariantOrder,
		entity.FormVariantSupplier,
	} {
		catalog, err := Lookup(variant)
		require.NoError(t, err)
		assert.Equal(t, variant, catalog.Variant)
	}

	_, err := Lookup("landlord")
	assert.ErrorIs(t, err, entity.ErrUnknownVariant)
}

func TestCatalogs_WellFormed(t *testing.T) {
	for _, catalog := range []*Catalog{Contractor, Order, Supplier} {
		seen := map[string]bool{}
		keys := map[string]bool{}

		for i, step := range catalog.Steps {
			assert.NotEmpty(t, step.Field, "%s step %d", catalog.Variant, i+1)
			assert.NotEmpty(t, step.Label, "%s step %d", catalog.Variant, i+1)
			assert.False(t, seen[step.Field], "%s duplicate field %s", catalog.Variant, step.Field)
			seen[step.Field] = true

			if step.AcceptsText() && step.Input != InputContact {
				assert.NotNil(t, step.Validate, "%s field %s accepts text without validator", catalog.Variant, step.Field)
			}
			for _, choice := range step.Choices {
				assert.False(t, keys[choice.Key], "%s duplicate choice %s", catalog.Variant, choice.Key)
				keys[choice.Key] = true
			}
		}
	}

	assert.Equal(t, 11, Contractor.TotalSteps())
	assert.Equal(t, 9, Order.TotalSteps())
	assert.Equal(t, 7, Supplier.TotalSteps())
}

func TestCatalog_Step(t *testing.T) {
	_, ok := Contractor.Step(0)
	assert.False(t, ok)

	_, ok = Contractor.Step(Contractor.TotalSteps() + 1)
	assert.False(t, ok)

	step, ok := Contractor.Step(3)
	require.True(t, ok)
	assert.Equal(t, "specialization", step.Field)
	assert.Equal(t, entity.EnrichHintSpecialization, step.Enrich)
}

func TestCatalog_Transition(t *testing.T) {
	value, next, ok := Contractor.Transition(1, "wf_specialist")
	require.True(t, ok)
	assert.Equal(t, "Специалист", value)
	assert.Equal(t, 2, next)

	value, next, ok = Contractor.Transition(2, "city_any")
	require.True(t, ok)
	assert.Equal(t, "Готов работать в любом городе", value)
	assert.Equal(t, 3, next)

	_, _, ok = Contractor.Transition(2, "wf_specialist")
	assert.False(t, ok, "choice of another step")

	_, _, ok = Contractor.Transition(42, "wf_specialist")
	assert.False(t, ok)
}

func TestCatalog_SnapshotAndSummary(t *testing.T) {
	session := &Session{
		Variant: entity.FormVariantContractor,
		Fields: map[string]Value{
			"work_format":    {Text: "Бригада"},
			"city":           {Text: "Казань"},
			"portfolio_link": {Skipped: true},
			"photo_file_id":  {Media: []string{"file-1", "file-2"}},
		},
	}

	snapshot := Contractor.Snapshot(session)
	assert.Equal(t, map[string]string{
		"work_format":   "Бригада",
		"city":          "Казань",
		"photo_file_id": "file-1",
	}, snapshot)

	summary := Contractor.Summary(session)
	require.Len(t, summary, 4)
	assert.Equal(t, SummaryLine{Index: 1, Label: "Формат работы", Value: "Бригада"}, summary[0])
	assert.Equal(t, SummaryLine{Index: 10, Label: "Портфолио", Value: "пропущено"}, summary[2])
	assert.Equal(t, SummaryLine{Index: 11, Label: "Фото", Value: "добавлено"}, summary[3])
}

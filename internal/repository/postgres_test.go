package repository

import (
	"context"
	"testing"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/state"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresTC "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// setupTestDB starts a disposable postgres and applies the migrations.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgresTC.Run(ctx,
		"postgres:16-alpine",
		postgresTC.WithDatabase("golos"),
		postgresTC.WithUsername("golos"),
		postgresTC.WithPassword("golos"),
		postgresTC.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "Failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(dsn), "Failed to run migrations")
	require.NoError(t, RunMigrations(dsn), "Migrations must be idempotent")

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func contractorRecord(city, specialization string, status entity.RecordStatus) *entity.Record {
	return &entity.Record{
		Variant:     entity.FormVariantContractor,
		TelegramID:  1001,
		Username:    "ivan",
		TelegramTag: "@ivan",
		Status:      status,
		Category:    "Отделка",
		Fields: map[string]string{
			"work_format":    "Бригада",
			"city":           city,
			"specialization": specialization,
			"contact":        "+79123456789",
		},
	}
}

func TestPostgres(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	t.Run("records", func(t *testing.T) {
		repo := NewRecordPostgres(pool)

		record := contractorRecord("Москва", "Плиточник, отделка ванных", "")
		require.NoError(t, repo.InsertRecord(ctx, record))
		assert.NotEqual(t, uuid.Nil, record.ID)
		assert.Equal(t, entity.RecordStatusPending, record.Status)

		got, err := repo.GetRecord(ctx, entity.FormVariantContractor, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, int64(1001), got.TelegramID)
		assert.Equal(t, "@ivan", got.TelegramTag)
		assert.Equal(t, "Отделка", got.Category)
		assert.Equal(t, record.Fields, got.Fields)

		_, err = repo.GetRecord(ctx, entity.FormVariantContractor, uuid.New())
		require.ErrorIs(t, err, entity.ErrRecordNotFound)

		err = repo.InsertRecord(ctx, &entity.Record{
			Variant: entity.FormVariantOrder,
			Fields:  map[string]string{"drop table": "x"},
		})
		require.ErrorIs(t, err, entity.ErrInvalidParameter)

		updated, err := repo.UpdateRecordStatus(ctx, entity.FormVariantContractor, record.ID, entity.RecordStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, entity.RecordStatusApproved, updated.Status)

		pending, err := repo.ListRecords(ctx, entity.RecordFilter{
			Variant: entity.FormVariantContractor,
			Status:  entity.RecordStatusPending,
		})
		require.NoError(t, err)
		assert.Empty(t, pending)

		all, err := repo.ListRecords(ctx, entity.RecordFilter{Variant: entity.FormVariantContractor})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("search contractors", func(t *testing.T) {
		repo := NewRecordPostgres(pool)

		older := contractorRecord("Санкт-Петербург", "Электрик, монтаж щитов", entity.RecordStatusApproved)
		older.CreatedAt = time.Now().Add(-time.Hour)
		newer := contractorRecord("санкт-петербург", "электромонтаж", entity.RecordStatusApproved)
		hidden := contractorRecord("Санкт-Петербург", "Электрик", entity.RecordStatusRejected)
		for _, r := range []*entity.Record{older, newer, hidden} {
			require.NoError(t, repo.InsertRecord(ctx, r))
		}

		found, err := repo.SearchContractors(ctx, entity.ContractorQuery{City: "ПЕТЕРБУРГ", WorkType: "электр"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, newer.ID, found[0].ID)
		assert.Equal(t, older.ID, found[1].ID)

		page, err := repo.SearchContractors(ctx, entity.ContractorQuery{City: "Петербург", WorkType: "электр"}, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, older.ID, page[0].ID)

		none, err := repo.SearchContractors(ctx, entity.ContractorQuery{City: "%", WorkType: "_"}, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("complaints", func(t *testing.T) {
		repo := NewComplaintPostgres(pool)

		recordID := uuid.New()
		complaint := &entity.Complaint{
			TelegramID:  2002,
			TelegramTag: "@petr",
			RecordID:    &recordID,
			Message:     "Подрядчик не вышел на связь",
		}
		require.NoError(t, repo.InsertComplaint(ctx, complaint))
		assert.Equal(t, entity.ComplaintStatusNew, complaint.Status)

		list, err := repo.ListComplaints(ctx, entity.ComplaintStatusNew, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "@petr", list[0].TelegramTag)
		require.NotNil(t, list[0].RecordID)
		assert.Equal(t, recordID, *list[0].RecordID)

		updated, err := repo.UpdateComplaintStatus(ctx, complaint.ID, entity.ComplaintStatusResolved)
		require.NoError(t, err)
		assert.Equal(t, entity.ComplaintStatusResolved, updated.Status)

		_, err = repo.UpdateComplaintStatus(ctx, uuid.New(), entity.ComplaintStatusResolved)
		require.ErrorIs(t, err, entity.ErrComplaintNotFound)
	})

	t.Run("telegram state", func(t *testing.T) {
		storage := NewTelegramStatePostgres(pool, time.Hour)
		manager := state.NewManager(storage)

		session := &form.Session{
			UserID:  3003,
			Variant: entity.FormVariantSupplier,
			Step:    2,
			Status:  form.StatusAwaitingInput,
			Fields:  map[string]form.Value{"supplier_type": {Text: "Производитель"}},
		}
		require.NoError(t, manager.SetForm(ctx, session))

		got, err := manager.GetForm(ctx, 3003)
		require.NoError(t, err)
		assert.Equal(t, "Производитель", got.Text("supplier_type"))

		require.NoError(t, manager.DeleteForm(ctx, 3003))
		_, err = storage.Get(ctx, 3003)
		require.ErrorIs(t, err, entity.ErrSessionNotFound)

		expired := NewTelegramStatePostgres(pool, -time.Second)
		require.NoError(t, expired.Set(ctx, &state.UserState{UserID: 3004, Search: &state.SearchState{}}))
		_, err = expired.Get(ctx, 3004)
		require.ErrorIs(t, err, entity.ErrSessionNotFound)

		purged, err := expired.PurgeExpired(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, purged)
	})
}

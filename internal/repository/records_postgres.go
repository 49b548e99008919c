package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

const defaultListLimit = 50

var recordBaseColumns = []string{"id", "telegram_id", "username", "telegram_tag", "status", "category", "created_at"}

// RecordRepository stores submitted form records, one table per variant.
type RecordRepository interface {
	InsertRecord(ctx context.Context, record *entity.Record) error
	GetRecord(ctx context.Context, variant entity.FormVariant, id uuid.UUID) (*entity.Record, error)
	ListRecords(ctx context.Context, filter entity.RecordFilter) ([]*entity.Record, error)
	UpdateRecordStatus(ctx context.Context, variant entity.FormVariant, id uuid.UUID, status entity.RecordStatus) (*entity.Record, error)
	SearchContractors(ctx context.Context, query entity.ContractorQuery, limit, offset int) ([]*entity.Record, error)
}

var _ RecordRepository = &RecordPostgres{}

type RecordPostgres struct {
	db *pgxpool.Pool
}

func NewRecordPostgres(db *pgxpool.Pool) *RecordPostgres {
	return &RecordPostgres{db: db}
}

// InsertRecord writes the record into its variant table. Fields outside the
// variant catalog are rejected rather than silently dropped.
func (r *RecordPostgres) InsertRecord(ctx context.Context, record *entity.Record) error {
	table, fieldColumns, err := variantTable(record.Variant)
	if err != nil {
		return err
	}

	unknown, _ := lo.Difference(lo.Keys(record.Fields), fieldColumns)
	if len(unknown) > 0 {
		return fmt.Errorf("%w: unknown %s fields %v", entity.ErrInvalidParameter, record.Variant, unknown)
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = entity.RecordStatusPending
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	columns := slices.Clone(recordBaseColumns)
	args := []any{
		record.ID,
		record.TelegramID,
		record.Username,
		nullString(record.TelegramTag),
		string(record.Status),
		nullString(record.Category),
		record.CreatedAt,
	}
	for _, name := range slices.Sorted(maps.Keys(record.Fields)) {
		columns = append(columns, name)
		args = append(args, nullString(record.Fields[name]))
	}

	placeholders := lo.Map(columns, func(_ string, i int) string {
		return fmt.Sprintf("$%d", i+1)
	})

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{table}.Sanitize(),
		quoteColumns(columns),
		strings.Join(placeholders, ", "),
	)

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s record: %w", record.Variant, err)
	}

	return nil
}

func (r *RecordPostgres) GetRecord(ctx context.Context, variant entity.FormVariant, id uuid.UUID) (*entity.Record, error) {
	table, _, err := variantTable(variant)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", pgx.Identifier{table}.Sanitize())
	records, err := r.query(ctx, variant, query, id)
	if err != nil {
		return nil, fmt.Errorf("get %s record: %w", variant, err)
	}
	if len(records) == 0 {
		return nil, entity.ErrRecordNotFound
	}

	return records[0], nil
}

func (r *RecordPostgres) ListRecords(ctx context.Context, filter entity.RecordFilter) ([]*entity.Record, error) {
	table, _, err := variantTable(filter.Variant)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE ($1::text = '' OR status = $1::text) ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		pgx.Identifier{table}.Sanitize(),
	)

	records, err := r.query(ctx, filter.Variant, query, string(filter.Status), limit, max(filter.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", filter.Variant, err)
	}

	return records, nil
}

func (r *RecordPostgres) UpdateRecordStatus(ctx context.Context, variant entity.FormVariant, id uuid.UUID, status entity.RecordStatus) (*entity.Record, error) {
	table, _, err := variantTable(variant)
	if err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("UPDATE %s SET status = $2 WHERE id = $1 RETURNING *", pgx.Identifier{table}.Sanitize())
	records, err := r.query(ctx, variant, query, id, string(status))
	if err != nil {
		return nil, fmt.Errorf("update %s record status: %w", variant, err)
	}
	if len(records) == 0 {
		return nil, entity.ErrRecordNotFound
	}

	return records[0], nil
}

// SearchContractors matches approved contractors by case-insensitive
// substrings of city and specialization, newest first.
func (r *RecordPostgres) SearchContractors(ctx context.Context, q entity.ContractorQuery, limit, offset int) ([]*entity.Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	const query = `
		SELECT * FROM contractors
		WHERE status = $1
		  AND city ILIKE '%' || $2::text || '%'
		  AND specialization ILIKE '%' || $3::text || '%'
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`

	records, err := r.query(ctx, entity.FormVariantContractor, query,
		string(entity.RecordStatusApproved),
		escapeLike(strings.TrimSpace(q.City)),
		escapeLike(strings.TrimSpace(q.WorkType)),
		limit,
		max(offset, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("search contractors: %w", err)
	}

	return records, nil
}

func (r *RecordPostgres) query(ctx context.Context, variant entity.FormVariant, query string, args ...any) ([]*entity.Record, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rowMaps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}

	records := make([]*entity.Record, 0, len(rowMaps))
	for _, row := range rowMaps {
		record, err := toEntityRecord(variant, row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// variantTable resolves the table and catalog field columns of a variant.
func variantTable(variant entity.FormVariant) (string, []string, error) {
	catalog, err := form.Lookup(variant)
	if err != nil {
		return "", nil, err
	}

	fields := lo.Map(catalog.Steps, func(step form.Step, _ int) string {
		return step.Field
	})
	return variant.Collection(), fields, nil
}

func toEntityRecord(variant entity.FormVariant, row map[string]any) (*entity.Record, error) {
	record := &entity.Record{
		Variant:     variant,
		TelegramID:  cast.ToInt64(row["telegram_id"]),
		Username:    cast.ToString(row["username"]),
		TelegramTag: cast.ToString(row["telegram_tag"]),
		Category:    cast.ToString(row["category"]),
		Status:      entity.RecordStatus(cast.ToString(row["status"])),
		CreatedAt:   cast.ToTime(row["created_at"]),
		Fields:      make(map[string]string),
	}

	switch id := row["id"].(type) {
	case [16]byte:
		record.ID = uuid.UUID(id)
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse record id: %w", err)
		}
		record.ID = parsed
	default:
		return nil, fmt.Errorf("unexpected record id type %T", id)
	}

	for column, value := range row {
		if value == nil || slices.Contains(recordBaseColumns, column) {
			continue
		}
		if text := cast.ToString(value); text != "" {
			record.Fields[column] = text
		}
	}

	return record, nil
}

func quoteColumns(columns []string) string {
	quoted := lo.Map(columns, func(column string, _ int) string {
		return pgx.Identifier{column}.Sanitize()
	})
	return strings.Join(quoted, ", ")
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ComplaintRepository stores user complaints.
type ComplaintRepository interface {
	InsertComplaint(ctx context.Context, complaint *entity.Complaint) error
	ListComplaints(ctx context.Context, status entity.ComplaintStatus, limit, offset int) ([]*entity.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id uuid.UUID, status entity.ComplaintStatus) (*entity.Complaint, error)
}

var _ ComplaintRepository = &ComplaintPostgres{}

type ComplaintPostgres struct {
	db *pgxpool.Pool
}

func NewComplaintPostgres(db *pgxpool.Pool) *ComplaintPostgres {
	return &ComplaintPostgres{db: db}
}

const complaintColumns = "id, telegram_id, telegram_tag, record_id, message, status, created_at"

type complaintRow struct {
	ID          uuid.UUID  `db:"id"`
	TelegramID  int64      `db:"telegram_id"`
	TelegramTag *string    `db:"telegram_tag"`
	RecordID    *uuid.UUID `db:"record_id"`
	Message     string     `db:"message"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (r *ComplaintPostgres) InsertComplaint(ctx context.Context, complaint *entity.Complaint) error {
	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	if complaint.Status == "" {
		complaint.Status = entity.ComplaintStatusNew
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		"INSERT INTO complaints ("+complaintColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		complaint.ID,
		complaint.TelegramID,
		nullString(complaint.TelegramTag),
		complaint.RecordID,
		complaint.Message,
		string(complaint.Status),
		complaint.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}

	return nil
}

func (r *ComplaintPostgres) ListComplaints(ctx context.Context, status entity.ComplaintStatus, limit, offset int) ([]*entity.Complaint, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.db.Query(ctx,
		"SELECT "+complaintColumns+" FROM complaints WHERE ($1::text = '' OR status = $1::text) ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		string(status), limit, max(offset, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[complaintRow])
	if err != nil {
		return nil, fmt.Errorf("scan complaints: %w", err)
	}

	complaints := make([]*entity.Complaint, 0, len(results))
	for i := range results {
		complaints = append(complaints, toEntityComplaint(&results[i]))
	}

	return complaints, nil
}

func (r *ComplaintPostgres) UpdateComplaintStatus(ctx context.Context, id uuid.UUID, status entity.ComplaintStatus) (*entity.Complaint, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		"UPDATE complaints SET status = $2 WHERE id = $1 RETURNING "+complaintColumns,
		id, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("update complaint status: %w", err)
	}

	result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[complaintRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("scan complaint: %w", err)
	}

	return toEntityComplaint(&result), nil
}

func toEntityComplaint(row *complaintRow) *entity.Complaint {
	complaint := &entity.Complaint{
		ID:         row.ID,
		TelegramID: row.TelegramID,
		RecordID:   row.RecordID,
		Message:    row.Message,
		Status:     entity.ComplaintStatus(row.Status),
		CreatedAt:  row.CreatedAt,
	}
	if row.TelegramTag != nil {
		complaint.TelegramTag = *row.TelegramTag
	}
	return complaint
}

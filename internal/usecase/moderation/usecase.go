package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/formatter"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// exportLimit bounds a single export file.
const exportLimit = 1000

// Export is a rendered listing ready to be served as an attachment.
type Export struct {
	Data        []byte
	ContentType string
	Filename    string
}

type UseCase struct {
	records    RecordRepository
	complaints ComplaintRepository
	notifier   SubmitterNotifier
	webhook    Webhook
	formatters *formatter.Factory
	now        func() time.Time
}

// New wires moderation. notifier and webhook may be nil.
func New(
	records RecordRepository,
	complaints ComplaintRepository,
	notifier SubmitterNotifier,
	webhook Webhook,
	formatters *formatter.Factory,
) *UseCase {
	return &UseCase{
		records:    records,
		complaints: complaints,
		notifier:   notifier,
		webhook:    webhook,
		formatters: formatters,
		now:        time.Now,
	}
}

func (u *UseCase) ListRecords(ctx context.Context, filter entity.RecordFilter) ([]*entity.Record, error) {
	if err := filter.Variant.Validate(); err != nil {
		return nil, err
	}
	if filter.Status != "" {
		if err := filter.Status.Validate(); err != nil {
			return nil, err
		}
	}
	return u.records.ListRecords(ctx, filter)
}

func (u *UseCase) GetRecord(ctx context.Context, variant entity.FormVariant, id uuid.UUID) (*entity.Record, error) {
	if err := variant.Validate(); err != nil {
		return nil, err
	}
	return u.records.GetRecord(ctx, variant, id)
}

// UpdateRecordStatus applies a moderation decision. Approval and rejection are
// reported to the submitter; notification failures do not undo the update.
func (u *UseCase) UpdateRecordStatus(ctx context.Context, variant entity.FormVariant, id uuid.UUID, status entity.RecordStatus) (*entity.Record, error) {
	if err := variant.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	record, err := u.records.UpdateRecordStatus(ctx, variant, id, status)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "record status updated",
		zap.Stringer("record_id", id),
		zap.String("variant", string(variant)),
		zap.String("status", string(status)),
	)

	if status != entity.RecordStatusPending && u.notifier != nil {
		if err := u.notifier.NotifyStatus(ctx, record); err != nil {
			ctxzap.Warn(ctx, "failed to notify submitter", zap.Stringer("record_id", id), zap.Error(err))
		}
	}
	if u.webhook != nil {
		u.webhook.RecordStatusChanged(ctx, record)
	}

	return record, nil
}

// ExportRecords renders the records of a variant into the requested format.
func (u *UseCase) ExportRecords(ctx context.Context, variant entity.FormVariant, status entity.RecordStatus, format formatter.Format) (*Export, error) {
	catalog, err := form.Lookup(variant)
	if err != nil {
		return nil, err
	}

	records, err := u.ListRecords(ctx, entity.RecordFilter{Variant: variant, Status: status, Limit: exportLimit})
	if err != nil {
		return nil, err
	}

	f, err := u.formatters.Create(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidFormat, err)
	}

	data, err := f.Format(buildDocument(catalog, status, records, u.now()))
	if err != nil {
		return nil, fmt.Errorf("format export: %w", err)
	}

	ctxzap.Info(ctx, "records exported",
		zap.String("variant", string(variant)),
		zap.String("format", string(format)),
		zap.Int("count", len(records)),
	)

	return &Export{
		Data:        data,
		ContentType: f.ContentType(),
		Filename:    fmt.Sprintf("%s_%s%s", variant.Collection(), u.now().Format("20060102"), f.FileExtension()),
	}, nil
}

func buildDocument(catalog *form.Catalog, status entity.RecordStatus, records []*entity.Record, at time.Time) *formatter.Document {
	subtitle := fmt.Sprintf("Выгрузка от %s, записей: %d", at.Format("02.01.2006 15:04"), len(records))
	if status != "" {
		subtitle += ", статус: " + string(status)
	}

	doc := &formatter.Document{
		Title:    catalog.Title,
		Subtitle: subtitle,
		Sections: make([]formatter.Section, 0, len(records)),
	}

	for i, record := range records {
		lines := lo.FilterMap(catalog.Steps, func(step form.Step, _ int) (formatter.Line, bool) {
			value := record.Field(step.Field)
			return formatter.Line{Label: step.Label, Value: value}, value != ""
		})
		if record.Category != "" {
			lines = append(lines, formatter.Line{Label: "Категория", Value: record.Category})
		}
		if record.TelegramTag != "" {
			lines = append(lines, formatter.Line{Label: "Telegram", Value: record.TelegramTag})
		}
		lines = append(lines,
			formatter.Line{Label: "Статус", Value: string(record.Status)},
			formatter.Line{Label: "ID", Value: record.ID.String()},
		)

		doc.Sections = append(doc.Sections, formatter.Section{
			Heading: fmt.Sprintf("%d. %s", i+1, record.CreatedAt.Format("02.01.2006 15:04")),
			Lines:   lines,
		})
	}

	return doc
}

func (u *UseCase) ListComplaints(ctx context.Context, status entity.ComplaintStatus, limit, offset int) ([]*entity.Complaint, error) {
	if status != "" {
		if err := status.Validate(); err != nil {
			return nil, err
		}
	}
	return u.complaints.ListComplaints(ctx, status, limit, offset)
}

func (u *UseCase) UpdateComplaintStatus(ctx context.Context, id uuid.UUID, status entity.ComplaintStatus) (*entity.Complaint, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	complaint, err := u.complaints.UpdateComplaintStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "complaint status updated", zap.Stringer("complaint_id", id), zap.String("status", string(status)))
	return complaint, nil
}

package webhook

import (
	"context"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// NopConnector only logs events; used when no webhook is configured.
type NopConnector struct{}

func NewNopConnector() *NopConnector {
	return &NopConnector{}
}

func (NopConnector) RecordSubmitted(ctx context.Context, record *entity.Record) {
	ctxzap.Debug(ctx, "webhook disabled, record submitted", zap.Stringer("record_id", record.ID))
}

func (NopConnector) RecordStatusChanged(ctx context.Context, record *entity.Record) {
	ctxzap.Debug(ctx, "webhook disabled, record status changed", zap.Stringer("record_id", record.ID))
}

func (NopConnector) ComplaintSubmitted(ctx context.Context, complaint *entity.Complaint) {
	ctxzap.Debug(ctx, "webhook disabled, complaint submitted", zap.Stringer("complaint_id", complaint.ID))
}

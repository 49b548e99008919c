package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/config"
	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/integration/common"
	pkghttp "github.com/EdnondDantes/golosStroyki/pkg/http"
	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector posts moderation events to an external webhook.
type Connector struct {
	config    config.WebhookConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.WebhookConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// RecordSubmitted notifies moderators about a new pending record.
func (c *Connector) RecordSubmitted(ctx context.Context, record *entity.Record) {
	c.sendAndLog(ctx, &entity.WebhookEvent{
		Event:    entity.WebhookEventRecordSubmitted,
		Variant:  record.Variant,
		RecordID: record.ID.String(),
		Status:   string(record.Status),
	})
}

// RecordStatusChanged reports a moderation decision.
func (c *Connector) RecordStatusChanged(ctx context.Context, record *entity.Record) {
	c.sendAndLog(ctx, &entity.WebhookEvent{
		Event:    entity.WebhookEventRecordStatusChanged,
		Variant:  record.Variant,
		RecordID: record.ID.String(),
		Status:   string(record.Status),
	})
}

// ComplaintSubmitted notifies moderators about a new complaint.
func (c *Connector) ComplaintSubmitted(ctx context.Context, complaint *entity.Complaint) {
	c.sendAndLog(ctx, &entity.WebhookEvent{
		Event:    entity.WebhookEventComplaintSubmitted,
		RecordID: complaint.ID.String(),
		Status:   string(complaint.Status),
	})
}

func (c *Connector) sendAndLog(ctx context.Context, event *entity.WebhookEvent) {
	if err := c.Send(ctx, event); err != nil {
		ctxzap.Error(ctx, "failed to send webhook event",
			zap.String("event_type", string(event.Event)),
			zap.Error(err),
		)
	}
}

func (c *Connector) Send(ctx context.Context, event *entity.WebhookEvent) error {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	requestID := uuid.NewString()

	ctxzap.Debug(ctx, "sending webhook event",
		zap.String("event_type", string(event.Event)),
		zap.String("record_id", event.RecordID),
		zap.String("request_id", requestID),
	)

	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, event, nil,
			pkghttp.WithHeader("X-Request-ID", requestID))
	}, c.config.Retry.ToRetryOptions(ctx, pkghttp.IsRetryable)...)
	if err != nil {
		return fmt.Errorf("send webhook, event_type: %s: %w", event.Event, err)
	}

	ctxzap.Info(ctx, "webhook sent successfully",
		zap.String("event_type", string(event.Event)),
		zap.String("request_id", requestID),
	)
	return nil
}

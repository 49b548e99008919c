package record

import (
	"context"
	"net/http"

	"github.com/EdnondDantes/golosStroyki/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "moderation request failed", zap.Error(err))
	response.FromError(w, err)
}

package record

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/formatter"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/logger"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/response"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

type Handler struct {
	usecase   ModerationUsecase
	validator *validator.Validator
}

func NewHandler(usecase ModerationUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// ListRecords handles GET /records/{variant}
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListRecords")

	limit, err := validator.QueryInt(r.URL.Query(), "limit", defaultLimit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	offset, err := validator.QueryInt(r.URL.Query(), "offset", 0)
	if err != nil {
		response.FromError(w, err)
		return
	}

	req := listRecordsRequest{
		Variant: chi.URLParam(r, "variant"),
		Status:  r.URL.Query().Get("status"),
		Limit:   min(limit, maxLimit),
		Offset:  offset,
	}
	if err := h.validator.Struct(&req); err != nil {
		ctxzap.Warn(ctx, "invalid list request", zap.Error(err))
		response.FromError(w, err)
		return
	}

	records, err := h.usecase.ListRecords(ctx, req.filter())
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	dtos := make([]*RecordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toRecordDTO(record))
	}

	ctxzap.Info(ctx, "records listed",
		zap.String("variant", req.Variant),
		zap.String("status", req.Status),
		zap.Int("count", len(dtos)),
	)
	response.Success(w, &ListRecordsResponse{Records: dtos, Count: len(dtos)})
}

// GetRecord handles GET /records/{variant}/{record_id}
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	variant, id, err := recordKey(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	ctx := logger.AddFields(r.Context(),
		zap.Stringer("record_id", id),
		zap.String("action", "GetRecord"),
	)

	record, err := h.usecase.GetRecord(ctx, variant, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toRecordDTO(record))
}

// UpdateStatus handles PATCH /records/{variant}/{record_id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	variant, id, err := recordKey(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	ctx := logger.AddFields(r.Context(),
		zap.Stringer("record_id", id),
		zap.String("action", "UpdateRecordStatus"),
	)

	var req UpdateStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.FromError(w, err)
		return
	}

	record, err := h.usecase.UpdateRecordStatus(ctx, variant, id, entity.RecordStatus(req.Status))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toRecordDTO(record))
}

// ExportRecords handles GET /records/{variant}/export
func (h *Handler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportRecords")

	req := exportRequest{
		Variant: chi.URLParam(r, "variant"),
		Status:  r.URL.Query().Get("status"),
		Format:  r.URL.Query().Get("format"),
	}
	if req.Format == "" {
		req.Format = string(formatter.FormatDOCX)
	}
	if err := h.validator.Struct(&req); err != nil {
		response.FromError(w, err)
		return
	}

	export, err := h.usecase.ExportRecords(ctx,
		entity.FormVariant(req.Variant),
		entity.RecordStatus(req.Status),
		formatter.Format(req.Format),
	)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.File(w, export.ContentType, export.Filename, export.Data)
}

func recordKey(r *http.Request) (entity.FormVariant, uuid.UUID, error) {
	variant := entity.FormVariant(chi.URLParam(r, "variant"))
	if err := variant.Validate(); err != nil {
		return "", uuid.Nil, err
	}

	id, err := uuid.Parse(chi.URLParam(r, "record_id"))
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("%w: record id: %v", entity.ErrInvalidParameter, err)
	}
	return variant, id, nil
}

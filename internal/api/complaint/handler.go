package complaint

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/logger"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/response"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	maxBodySize  = 1 << 10
	defaultLimit = 50
	maxLimit     = 200
)

type listComplaintsRequest struct {
	Status string `validate:"omitempty,complaint_status"`
	Limit  int    `validate:"min=1"`
	Offset int    `validate:"min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,complaint_status"`
}

type ListComplaintsResponse struct {
	Complaints []*entity.Complaint `json:"complaints"`
	Count      int                 `json:"count"`
}

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

// ListComplaints handles GET /complaints
func (h *Handler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListComplaints")
	query := r.URL.Query()

	req := listComplaintsRequest{Status: query.Get("status")}
	limit, err := validator.QueryInt(query, "limit", defaultLimit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	offset, err := validator.QueryInt(query, "offset", 0)
	if err != nil {
		response.FromError(w, err)
		return
	}
	req.Limit = min(limit, maxLimit)
	req.Offset = offset

	if err := h.validator.Struct(&req); err != nil {
		response.FromError(w, err)
		return
	}

	complaints, err := h.usecase.ListComplaints(ctx, entity.ComplaintStatus(req.Status), req.Limit, req.Offset)
	if err != nil {
		ctxzap.Error(ctx, "failed to list complaints", zap.Error(err))
		response.FromError(w, err)
		return
	}
	if complaints == nil {
		complaints = []*entity.Complaint{}
	}

	ctxzap.Info(ctx, "complaints listed", zap.Int("count", len(complaints)))
	response.Success(w, &ListComplaintsResponse{Complaints: complaints, Count: len(complaints)})
}

// UpdateStatus handles PATCH /complaints/{complaint_id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "complaint_id"))
	if err != nil {
		response.FromError(w, fmt.Errorf("%w: complaint id: %v", entity.ErrInvalidParameter, err))
		return
	}

	ctx := logger.AddFields(r.Context(),
		zap.Stringer("complaint_id", id),
		zap.String("action", "UpdateComplaintStatus"),
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

	complaint, err := h.usecase.UpdateComplaintStatus(ctx, id, entity.ComplaintStatus(req.Status))
	if err != nil {
		ctxzap.Error(ctx, "failed to update complaint", zap.Error(err))
		response.FromError(w, err)
		return
	}

	response.Success(w, complaint)
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openraise/screening/internal/domain/enums"
	authsvc "github.com/openraise/screening/internal/services/auth"
	reviewsvc "github.com/openraise/screening/internal/services/review"
	"github.com/openraise/screening/internal/transport/http/dto"
	httperrors "github.com/openraise/screening/internal/transport/http/errors"
)

// ImagePresigner mints short-lived links to archived campaign images.
type ImagePresigner interface {
	ReviewURL(ctx context.Context, objectKey string) (string, error)
}

type ReviewHandler struct {
	service   *reviewsvc.Service
	presigner ImagePresigner
}

func NewReviewHandler(service *reviewsvc.Service) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// AttachPresigner enables presigned image links in queue payloads.
func (h *ReviewHandler) AttachPresigner(p ImagePresigner) {
	h.presigner = p
}

func (h *ReviewHandler) imageURLs(ctx context.Context, item reviewsvc.Item) map[string]string {
	if h.presigner == nil {
		return nil
	}

	var urls map[string]string
	for _, img := range item.Campaign.Images {
		if img.ObjectKey == nil {
			continue
		}
		url, err := h.presigner.ReviewURL(ctx, *img.ObjectKey)
		if err != nil {
			continue
		}
		if urls == nil {
			urls = make(map[string]string)
		}
		urls[img.ID] = url
	}
	return urls
}

func (h *ReviewHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "REVIEW_SERVICE_UNAVAILABLE", "review service is unavailable")
		return
	}

	items, err := h.service.ListPending(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list pending reviews")
		return
	}

	out := make([]dto.ReviewItemResponse, 0, len(items))
	for _, item := range items {
		res := dto.ReviewItemResponseFromDomain(item)
		res.ImageURLs = h.imageURLs(r.Context(), item)
		out = append(out, res)
	}

	httperrors.Write(w, http.StatusOK, dto.ReviewListResponse{Items: out, Total: len(out)})
}

func (h *ReviewHandler) PendingCount(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "REVIEW_SERVICE_UNAVAILABLE", "review service is unavailable")
		return
	}

	count, err := h.service.PendingCount(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to count pending reviews")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PendingCountResponse{Pending: count})
}

func (h *ReviewHandler) Decide(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "REVIEW_SERVICE_UNAVAILABLE", "review service is unavailable")
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "item id is required")
		return
	}

	var req dto.ReviewDecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	decision, ok := enums.ParseDecision(req.Decision)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "decision must be APPROVE or REJECT")
		return
	}

	item, err := h.service.Review(r.Context(), itemID, decision, req.Notes, identity.ReviewerID)
	if err != nil {
		handleReviewError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ReviewItemResponseFromDomain(item))
}

func handleReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviewsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "review item not found")
	case errors.Is(err, reviewsvc.ErrInvalidDecision):
		writeBadRequest(w, "VALIDATION_ERROR", "decision must be APPROVE or REJECT")
	case errors.Is(err, reviewsvc.ErrAlreadyReviewed):
		writeConflict(w, "ALREADY_REVIEWED", "review item was already resolved")
	default:
		writeInternal(w, "INTERNAL_ERROR", "review operation failed")
	}
}

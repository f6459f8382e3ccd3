package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/openraise/screening/internal/domain"
	campaignsvc "github.com/openraise/screening/internal/services/campaigns"
	decisionsvc "github.com/openraise/screening/internal/services/decision"
	"github.com/openraise/screening/internal/transport/http/dto"
	httperrors "github.com/openraise/screening/internal/transport/http/errors"
)

const maxScreenUploadSize = 120 << 20 // 120 MiB

type ImageArchiver interface {
	Archive(ctx context.Context, campaignHash, imageID, contentType string, data []byte) (string, error)
}

type ScreenHandler struct {
	campaigns *campaignsvc.Service
	engine    *decisionsvc.Engine
	archiver  ImageArchiver
	log       *zap.Logger
}

func NewScreenHandler(campaigns *campaignsvc.Service, engine *decisionsvc.Engine, log *zap.Logger) *ScreenHandler {
	return &ScreenHandler{
		campaigns: campaigns,
		engine:    engine,
		log:       log,
	}
}

// AttachArchiver enables best-effort archival of submitted images. A
// storage failure is logged and never blocks the verdict.
func (h *ScreenHandler) AttachArchiver(archiver ImageArchiver) {
	h.archiver = archiver
}

// Handle screens one campaign submission. The request is either plain JSON
// or multipart with a "campaign" JSON part and one file part per image
// named "images", in the same order as the campaign's images array.
func (h *ScreenHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.campaigns == nil || h.engine == nil {
		writeInternal(w, "SCREENING_UNAVAILABLE", "screening service is unavailable")
		return
	}

	req, payloads, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	campaign, err := h.campaigns.Normalize(req.ToDomain())
	if err != nil {
		if errors.Is(err, campaignsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", err.Error())
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "campaign validation failed")
		return
	}
	if len(payloads) > 0 && len(payloads) != len(campaign.Images) {
		writeBadRequest(w, "VALIDATION_ERROR", "image file count must match images array")
		return
	}

	h.archiveImages(r.Context(), &campaign, payloads)

	verdict, err := h.engine.Decide(r.Context(), campaign, payloads)
	if err != nil {
		if h.log != nil {
			h.log.Error("screening failed", zap.Error(err))
		}
		writeInternal(w, "INTERNAL_ERROR", "screening failed")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.VerdictResponseFromDomain(verdict))
}

func (h *ScreenHandler) parseRequest(w http.ResponseWriter, r *http.Request) (dto.ScreenCampaignRequest, [][]byte, bool) {
	var req dto.ScreenCampaignRequest

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/") {
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
			return req, nil, false
		}
		return req, nil, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxScreenUploadSize)
	if err := r.ParseMultipartForm(maxScreenUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return req, nil, false
	}

	raw := r.FormValue("campaign")
	if raw == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "campaign part is required")
		return req, nil, false
	}
	if err := decodeJSONString(raw, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid campaign json")
		return req, nil, false
	}

	var payloads [][]byte
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				writeBadRequest(w, "VALIDATION_ERROR", "unreadable image part")
				return req, nil, false
			}
			data, err := io.ReadAll(file)
			_ = file.Close()
			if err != nil {
				writeBadRequest(w, "VALIDATION_ERROR", "unreadable image part")
				return req, nil, false
			}
			payloads = append(payloads, data)
		}
	}

	return req, payloads, true
}

func (h *ScreenHandler) archiveImages(ctx context.Context, campaign *domain.Campaign, payloads [][]byte) {
	if h.archiver == nil || len(payloads) == 0 {
		return
	}

	hash := decisionsvc.ContentHash(*campaign, payloads)
	for i := range campaign.Images {
		if i >= len(payloads) || len(payloads[i]) == 0 {
			continue
		}
		key, err := h.archiver.Archive(ctx, hash, campaign.Images[i].ID, campaign.Images[i].MIMEType, payloads[i])
		if err != nil {
			if h.log != nil {
				h.log.Warn("image archival failed", zap.String("image_id", campaign.Images[i].ID), zap.Error(err))
			}
			continue
		}
		campaign.Images[i].ObjectKey = &key
	}
}

package handlers

import (
	"net/http"

	"github.com/openraise/screening/internal/config"
	"github.com/openraise/screening/internal/services/classifier"
	"github.com/openraise/screening/internal/transport/http/dto"
	httperrors "github.com/openraise/screening/internal/transport/http/errors"
)

type ConfigHandler struct {
	moderation config.ModerationConfig
}

func NewConfigHandler(moderation config.ModerationConfig) *ConfigHandler {
	return &ConfigHandler{moderation: moderation}
}

func (h *ConfigHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.ConfigResponse{
		Thresholds: dto.ConfigThresholdsResponse{
			ApproveBelow: h.moderation.ApproveBelow,
			HoldBelow:    h.moderation.HoldBelow,
		},
		Images: dto.ConfigImagesResponse{
			MaxCount:     h.moderation.MaxImageCount,
			MaxBytes:     h.moderation.MaxImageBytes,
			AllowedMIMEs: h.moderation.AllowedImageMIMEs,
		},
		PromptVersion: classifier.PromptVersion,
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openraise/screening/internal/config"
	"github.com/openraise/screening/internal/transport/http/dto"
)

func TestConfigHandlerExposesThresholds(t *testing.T) {
	handler := NewConfigHandler(config.Default().Moderation)

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	rr := httptest.NewRecorder()
	handler.Handle(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var res dto.ConfigResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Thresholds.ApproveBelow != 0.3 || res.Thresholds.HoldBelow != 0.6 {
		t.Fatalf("unexpected thresholds: %+v", res.Thresholds)
	}
	if res.Images.MaxCount != 10 {
		t.Fatalf("unexpected image config: %+v", res.Images)
	}
	if res.PromptVersion == "" {
		t.Fatalf("prompt version should be exposed")
	}
}

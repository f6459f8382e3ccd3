package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	campaignsvc "github.com/openraise/screening/internal/services/campaigns"
	classifiersvc "github.com/openraise/screening/internal/services/classifier"
	decisionsvc "github.com/openraise/screening/internal/services/decision"
	"github.com/openraise/screening/internal/services/imagescan"
	reviewsvc "github.com/openraise/screening/internal/services/review"
	"github.com/openraise/screening/internal/services/rules"
	"github.com/openraise/screening/internal/services/urlcheck"
	"github.com/openraise/screening/internal/transport/http/dto"
)

type stubRecognizer struct{}

func (stubRecognizer) Recognize(_ context.Context, _ []byte) (string, error) { return "", nil }

func newTestScreenHandler(t *testing.T) (*ScreenHandler, *reviewsvc.Service) {
	t.Helper()

	queue := reviewsvc.NewService(reviewsvc.NewMemoryStore())
	engine := decisionsvc.NewEngine(decisionsvc.Dependencies{
		Rules:      rules.NewEngine(rules.Config{HighGoalThreshold: 500000}),
		URLs:       urlcheck.NewChecker(),
		Images:     imagescan.NewScanner(imagescan.Config{MaxBytes: 1 << 20, AllowedMIMEs: []string{"image/jpeg", "image/png"}}, stubRecognizer{}),
		Classifier: classifiersvc.NewAdapter(nil, classifiersvc.Thresholds{ApproveBelow: 0.3, HoldBelow: 0.6}),
		Queue:      queue,
	}, decisionsvc.Config{ApproveBelow: 0.3, HoldBelow: 0.6})

	campaigns := campaignsvc.NewService(campaignsvc.Config{MaxImageCount: 10})
	return NewScreenHandler(campaigns, engine, zap.NewNop()), queue
}

func cleanRequest() dto.ScreenCampaignRequest {
	return dto.ScreenCampaignRequest{
		Title: "Community garden for Riverside school",
		Description: "We are organizing a community garden project for our neighborhood school. The funds " +
			"will cover soil, seeds, tools, and a small greenhouse. Volunteers from the local council have " +
			"already prepared the ground and families nearby promised weekly help with watering and " +
			"maintenance during summer.",
		Goal:     50000,
		Category: "community",
		Creator: dto.ScreenCreatorRequest{
			UserID:         "u-1",
			AccountAgeDays: 400,
			VerifiedEmail:  true,
		},
	}
}

func TestScreenHandlerApprovesCleanCampaign(t *testing.T) {
	handler, _ := newTestScreenHandler(t)

	body, err := json.Marshal(cleanRequest())
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/screen", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.Handle(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rr.Code, rr.Body.String())
	}
	var res dto.VerdictResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Decision != "APPROVE" {
		t.Fatalf("clean campaign should approve, got %s (%v)", res.Decision, res.Rationale)
	}
}

func TestScreenHandlerRejectsScamCampaign(t *testing.T) {
	handler, _ := newTestScreenHandler(t)

	scam := cleanRequest()
	scam.Title = "Investment opportunity - guaranteed returns!"
	scam.Description = "Double your investment in thirty days, everyone wins and nobody loses anything. " +
		"Send your contribution straight to rahul.kumar@ybl and watch the money grow every single week."

	body, err := json.Marshal(scam)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/screen", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.Handle(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rr.Code, rr.Body.String())
	}
	var res dto.VerdictResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Decision != "REJECT" {
		t.Fatalf("scam campaign should reject, got %s", res.Decision)
	}
	if res.Risk < 0.9 {
		t.Fatalf("scam risk should be at least 0.9, got %v", res.Risk)
	}
}

func TestScreenHandlerValidatesInput(t *testing.T) {
	handler, _ := newTestScreenHandler(t)

	invalid := cleanRequest()
	invalid.Title = "Hi"

	body, err := json.Marshal(invalid)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/screen", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.Handle(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("short title should fail validation, got %d", rr.Code)
	}
}

func TestScreenHandlerRejectsGarbageBody(t *testing.T) {
	handler, _ := newTestScreenHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/screen", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.Handle(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("garbage body should be a bad request, got %d", rr.Code)
	}
}

type recordingArchiver struct {
	calls int
}

func (a *recordingArchiver) Archive(_ context.Context, _, imageID, _ string, _ []byte) (string, error) {
	a.calls++
	return "campaigns/20250615/hash/" + imageID + ".png", nil
}

func TestScreenHandlerMultipartWithImages(t *testing.T) {
	handler, _ := newTestScreenHandler(t)
	archiver := &recordingArchiver{}
	handler.AttachArchiver(archiver)

	campaign := cleanRequest()
	campaign.Images = []dto.ScreenImageRequest{{ID: "img-1", MIMEType: "image/png"}}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	campaignJSON, err := json.Marshal(campaign)
	if err != nil {
		t.Fatalf("marshal campaign: %v", err)
	}
	if err := mw.WriteField("campaign", string(campaignJSON)); err != nil {
		t.Fatalf("write campaign field: %v", err)
	}
	part, err := mw.CreateFormFile("images", "img-1.png")
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/screen", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	handler.Handle(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rr.Code, rr.Body.String())
	}
	if archiver.calls != 1 {
		t.Fatalf("image should be archived once, got %d calls", archiver.calls)
	}
}

func TestScreenHandlerRejectsMismatchedImageCount(t *testing.T) {
	handler, _ := newTestScreenHandler(t)

	campaign := cleanRequest()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	campaignJSON, err := json.Marshal(campaign)
	if err != nil {
		t.Fatalf("marshal campaign: %v", err)
	}
	if err := mw.WriteField("campaign", string(campaignJSON)); err != nil {
		t.Fatalf("write campaign field: %v", err)
	}
	part, err := mw.CreateFormFile("images", "stray.png")
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	if _, err := part.Write([]byte("stray")); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/screen", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	handler.Handle(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("stray image part should fail validation, got %d", rr.Code)
	}
}

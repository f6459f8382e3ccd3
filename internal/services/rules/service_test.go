package rules

import (
	"strings"
	"testing"

	"github.com/openraise/screening/internal/domain"
)

const cleanDescription = "We are organizing a community garden project for our neighborhood school. " +
	"The funds will cover soil, seeds, tools, and a small greenhouse. Volunteers from the local " +
	"council have already prepared the ground and families nearby promised weekly help with " +
	"watering and maintenance during summer."

func cleanCampaign() domain.Campaign {
	return domain.Campaign{
		Title:       "Community garden for Riverside school",
		Description: cleanDescription,
		Goal:        50000,
		Category:    "community",
		Creator: domain.Creator{
			UserID:         "u-1",
			DisplayName:    "Jordan",
			AccountAgeDays: 400,
			PastCampaigns:  2,
			VerifiedEmail:  true,
		},
	}
}

func TestEvaluateCleanCampaign(t *testing.T) {
	engine := NewEngine(Config{HighGoalThreshold: 500000})

	result := engine.Evaluate(cleanCampaign())
	if result.Score != 0 {
		t.Fatalf("clean campaign should score 0, got %v (%v)", result.Score, result.Findings)
	}
	if len(result.Findings) != 0 {
		t.Fatalf("clean campaign should have no findings, got %v", result.Findings)
	}
}

func TestEvaluatePaymentBypassDominates(t *testing.T) {
	engine := NewEngine(Config{HighGoalThreshold: 500000})

	campaign := cleanCampaign()
	campaign.Description = cleanDescription + " Send donations directly to rahul.kumar@ybl please."

	result := engine.Evaluate(campaign)
	if result.Score < 0.9 {
		t.Fatalf("payment bypass should raise score to at least 0.9, got %v", result.Score)
	}
	if !containsFinding(result.Findings, "payment bypass") {
		t.Fatalf("expected a payment bypass finding, got %v", result.Findings)
	}
}

func TestEvaluateScoreIsMaxNotSum(t *testing.T) {
	engine := NewEngine(Config{HighGoalThreshold: 500000})

	campaign := cleanCampaign()
	campaign.Title = "Act now, last chance to help"
	campaign.Description = cleanDescription + " Hurry, this is urgently needed, only today."

	result := engine.Evaluate(campaign)
	if result.Score != 0.3 {
		t.Fatalf("co-occurring mild heuristics must not compound, got %v", result.Score)
	}
}

func TestEvaluateMedicalClaimsWithoutVerification(t *testing.T) {
	engine := NewEngine(Config{HighGoalThreshold: 500000})

	campaign := cleanCampaign()
	campaign.Description = "My younger brother needs a heart surgery next month and our family " +
		"cannot afford the hospital expenses alone. Any contribution helps us cover the operation " +
		"and the recovery period afterwards. Thank you all for reading and sharing our story with " +
		"people you know."

	result := engine.Evaluate(campaign)
	if result.Score != 0.4 {
		t.Fatalf("expected medical-claims floor 0.4, got %v (%v)", result.Score, result.Findings)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected exactly one finding, got %v", result.Findings)
	}

	campaign.Description += " We will share the medical report and discharge summary with donors."
	result = engine.Evaluate(campaign)
	if containsFinding(result.Findings, "medical claims") {
		t.Fatalf("verification language should suppress the medical finding, got %v", result.Findings)
	}
}

func TestEvaluateCreatorHeuristics(t *testing.T) {
	engine := NewEngine(Config{HighGoalThreshold: 500000})

	campaign := cleanCampaign()
	campaign.Goal = 1000000
	campaign.Creator.AccountAgeDays = 1
	campaign.Creator.VerifiedEmail = false

	result := engine.Evaluate(campaign)
	if result.Score != 0.4 {
		t.Fatalf("new-account-high-goal floor should win, got %v", result.Score)
	}
	if !containsFinding(result.Findings, "new account") || !containsFinding(result.Findings, "unverified email") {
		t.Fatalf("expected both creator findings, got %v", result.Findings)
	}
}

func TestEvaluateOCRTextIsScanned(t *testing.T) {
	engine := NewEngine(Config{HighGoalThreshold: 500000})

	campaign := cleanCampaign()
	campaign.Images = []domain.Image{
		{ID: "img-1", MIMEType: "image/png", ExtractedText: "Guaranteed returns! Contact us on WhatsApp"},
	}

	result := engine.Evaluate(campaign)
	if result.Score < 0.9 {
		t.Fatalf("OCR text should feed the banned and bypass checks, got %v", result.Score)
	}
	if !containsFinding(result.Findings, "banned financial phrase") {
		t.Fatalf("expected banned phrase finding from OCR text, got %v", result.Findings)
	}
}

func TestEvaluateShortAndRepetitiveText(t *testing.T) {
	engine := NewEngine(Config{HighGoalThreshold: 500000})

	campaign := cleanCampaign()
	campaign.Description = "Please help us now thanks."
	result := engine.Evaluate(campaign)
	if result.Score != 0.2 {
		t.Fatalf("short text floor should be 0.2, got %v (%v)", result.Score, result.Findings)
	}

	campaign.Description = strings.Repeat("Please donate to our great cause today. ", 10)
	result = engine.Evaluate(campaign)
	if !containsFinding(result.Findings, "repetitive") {
		t.Fatalf("expected repetitive-text finding, got %v", result.Findings)
	}
	if result.Score != 0.3 {
		t.Fatalf("repetitive floor should be 0.3, got %v", result.Score)
	}
}

func TestEvaluateFindingsKeepCheckOrder(t *testing.T) {
	engine := NewEngine(Config{HighGoalThreshold: 500000})

	campaign := cleanCampaign()
	campaign.Title = "Official fundraiser - guaranteed returns, act now"
	campaign.Creator.VerifiedIdentity = false

	result := engine.Evaluate(campaign)
	var idxBanned, idxImpersonation, idxUrgency = -1, -1, -1
	for i, f := range result.Findings {
		switch {
		case strings.Contains(f, "banned financial phrase"):
			idxBanned = i
		case strings.Contains(f, "impersonation"):
			idxImpersonation = i
		case strings.Contains(f, "urgency"):
			idxUrgency = i
		}
	}
	if idxBanned == -1 || idxImpersonation == -1 || idxUrgency == -1 {
		t.Fatalf("expected banned, impersonation and urgency findings, got %v", result.Findings)
	}
	if !(idxBanned < idxImpersonation && idxImpersonation < idxUrgency) {
		t.Fatalf("findings out of check order: %v", result.Findings)
	}
}

func containsFinding(findings []string, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}

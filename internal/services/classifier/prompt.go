package classifier

import (
	"encoding/json"
	"fmt"

	"github.com/openraise/screening/internal/domain"
)

// PromptVersion identifies the instruction set sent to the collaborator.
// Bump it whenever the category list or output schema changes.
const PromptVersion = "fundraising-screening/1"

const systemPrompt = `You are a content-policy reviewer for a fundraising platform (instruction set ` + PromptVersion + `).
Assess the submitted campaign against exactly these categories:
SCAM_FINANCIAL, IMPERSONATION, MEDICAL_CLAIMS, PAYMENT_BYPASS, VIOLENT_ADULT_HATE, SENSITIVE_DOCS, LOW_QUALITY_SPAM.

Respond with a single JSON object and nothing else:
{
  "categories": {"SCAM_FINANCIAL": 0.0, "IMPERSONATION": 0.0, "MEDICAL_CLAIMS": 0.0, "PAYMENT_BYPASS": 0.0, "VIOLENT_ADULT_HATE": 0.0, "SENSITIVE_DOCS": 0.0, "LOW_QUALITY_SPAM": 0.0},
  "decision": "APPROVE" | "HOLD" | "REJECT",
  "rationale": ["..."],
  "required_edits": ["..."],
  "highlights": [{"field": "title|description", "text": "...", "start": 0, "end": 0}]
}

Every category score is a number in [0,1]. Your judgment is advisory: deterministic checks run alongside you, and their findings are included as context.`

type promptPayload struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Goal            int64    `json:"goal"`
	Category        string   `json:"category"`
	Links           []string `json:"links"`
	AccountAgeDays  int      `json:"account_age_days"`
	PastCampaigns   int      `json:"past_campaigns"`
	VerifiedEmail   bool     `json:"verified_email"`
	VerifiedIdent   bool     `json:"verified_identity"`
	PIIDetected     bool     `json:"pii_detected"`
	DuplicateScore  float64  `json:"duplicate_score"`
	SimilarityScore float64  `json:"similarity_score"`
	RuleFindings    []string `json:"rule_findings"`
	URLFindings     []string `json:"url_findings"`
	ImageOCRTexts   []string `json:"image_ocr_texts"`
}

func buildUserPrompt(campaign domain.Campaign, signals Signals) string {
	urlFindings := make([]string, 0, len(signals.URLFindings))
	for _, f := range signals.URLFindings {
		urlFindings = append(urlFindings, fmt.Sprintf("%s: %s", f.URL, f.Reason))
	}

	payload := promptPayload{
		Title:           campaign.Title,
		Description:     campaign.Description,
		Goal:            campaign.Goal,
		Category:        campaign.Category,
		Links:           campaign.Links,
		AccountAgeDays:  campaign.Creator.AccountAgeDays,
		PastCampaigns:   campaign.Creator.PastCampaigns,
		VerifiedEmail:   campaign.Creator.VerifiedEmail,
		VerifiedIdent:   campaign.Creator.VerifiedIdentity,
		PIIDetected:     signals.PIIDetected,
		DuplicateScore:  signals.DuplicateScore,
		SimilarityScore: signals.SimilarityScore,
		RuleFindings:    signals.RuleFindings,
		URLFindings:     urlFindings,
		ImageOCRTexts:   signals.OCRTexts,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		// Marshalling a plain struct cannot realistically fail; keep the
		// pipeline moving with an empty context rather than aborting.
		return "{}"
	}
	return string(encoded)
}

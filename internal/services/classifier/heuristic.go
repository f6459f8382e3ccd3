package classifier

import (
	"fmt"
	"strings"

	"github.com/openraise/screening/internal/domain"
	"github.com/openraise/screening/internal/domain/enums"
)

const heuristicScore = 0.8

// Reduced per-category keyword subsets used when no classifier credential is
// configured. Deterministic on purpose: the same campaign always yields the
// same result.
var heuristicKeywords = map[enums.PolicyCategory][]string{
	enums.CategoryScamFinancial:    {"guaranteed return", "double your", "get rich quick", "ponzi"},
	enums.CategoryImpersonation:    {"official fundraiser", "on behalf of", "endorsed by"},
	enums.CategoryMedicalClaims:    {"cancer", "chemotherapy", "surgery", "transplant"},
	enums.CategoryPaymentBypass:    {"upi", "whatsapp", "telegram", "paypal.me", "venmo"},
	enums.CategoryViolentAdultHate: {"violence", "weapon", "explicit content"},
	enums.CategorySensitiveDocs:    {"aadhaar", "passport number", "social security"},
	enums.CategoryLowQualitySpam:   {"click here", "free money", "limited offer"},
}

func (a *Adapter) heuristicResult(campaign domain.Campaign, signals Signals) Result {
	text := strings.ToLower(campaign.Title + "\n" + campaign.Description)
	for _, ocr := range signals.OCRTexts {
		text += "\n" + strings.ToLower(ocr)
	}

	scores := zeroScores()
	var rationale []string
	for _, cat := range enums.PolicyCategories() {
		for _, keyword := range heuristicKeywords[cat] {
			if strings.Contains(text, keyword) {
				scores[cat] = heuristicScore
				rationale = append(rationale, fmt.Sprintf("local heuristic matched %s: %q", cat, keyword))
				break
			}
		}
	}

	return Result{
		CategoryScores: scores,
		Decision:       a.decisionFromScore(maxScore(scores)),
		Rationale:      rationale,
		Source:         SourceHeuristic,
	}
}

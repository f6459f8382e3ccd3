package domain

import "github.com/openraise/screening/internal/domain/enums"

// Verdict is the final moderation output. Risk is the maximum across all
// producer scores, never a sum or an average; Rationale concatenates the
// producers' findings in fixed order (rules, classifier, URLs, images).
type Verdict struct {
	Decision       enums.Decision                   `json:"decision"`
	Risk           float64                          `json:"risk"`
	Rationale      []string                         `json:"rationale"`
	CategoryScores map[enums.PolicyCategory]float64 `json:"category_scores"`
	RequiredEdits  []string                         `json:"required_edits,omitempty"`
	Highlights     []Highlight                      `json:"highlights,omitempty"`
	ImageFindings  []SignalResult                   `json:"image_findings,omitempty"`
	URLFindings    []URLFinding                     `json:"url_findings,omitempty"`

	// ClassifierSource records which analysis path produced the category
	// scores; ClassifierDegraded marks verdicts reached while automated
	// policy analysis was unavailable.
	ClassifierSource   string `json:"classifier_source,omitempty"`
	ClassifierDegraded bool   `json:"classifier_degraded,omitempty"`
}

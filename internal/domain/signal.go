package domain

// SignalResult is the common output shape of every signal producer. Score is
// bounded to [0,1]; Findings are human-readable reason strings in check
// order and are never deduplicated or reordered.
type SignalResult struct {
	Score    float64  `json:"score"`
	Findings []string `json:"findings,omitempty"`
}

// URLFinding is one flagged link. Clean URLs produce no finding.
type URLFinding struct {
	URL    string  `json:"url"`
	Risk   float64 `json:"risk"`
	Reason string  `json:"reason"`
}

// Highlight marks a span of campaign text the classifier flagged. Start and
// End are byte offsets into Field's value and may be absent.
type Highlight struct {
	Field string `json:"field"`
	Text  string `json:"text"`
	Start *int   `json:"start,omitempty"`
	End   *int   `json:"end,omitempty"`
}

package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/openraise/screening/internal/domain"
	"github.com/openraise/screening/internal/domain/enums"
)

// Result sources. The advisory classifier is never solely authoritative, so
// downstream code can always see where a result came from.
const (
	SourceProvider  = "provider"
	SourceHeuristic = "heuristic"
	SourceFallback  = "fallback"
)

const failureRationale = "automated policy analysis failed; campaign held for manual review"

// Signals is the context bundle handed to the classifier: everything the
// deterministic producers already know. DuplicateScore and SimilarityScore
// are currently always zero; the prompt references them, so they stay as
// named inputs rather than being dropped.
type Signals struct {
	PIIDetected     bool
	DuplicateScore  float64
	SimilarityScore float64
	RuleFindings    []string
	URLFindings     []domain.URLFinding
	OCRTexts        []string
}

// Result is the defensively validated classifier output. CategoryScores
// always contains every fixed category; absent or invalid provider values
// are clamped to zero.
type Result struct {
	CategoryScores map[enums.PolicyCategory]float64
	Decision       enums.Decision
	Rationale      []string
	RequiredEdits  []string
	Highlights     []domain.Highlight
	Source         string
	Degraded       bool
}

// MaxCategoryScore is the classifier's contribution to the fused risk.
func (r Result) MaxCategoryScore() float64 {
	max := 0.0
	for _, v := range r.CategoryScores {
		if v > max {
			max = v
		}
	}
	return max
}

// Provider is the external collaborator. It returns the raw model output,
// which is never trusted to be well-formed JSON.
type Provider interface {
	Classify(ctx context.Context, systemPrompt, userPrompt string) ([]byte, error)
}

type Thresholds struct {
	ApproveBelow float64
	HoldBelow    float64
}

// Adapter wraps the advisory classifier. With a nil provider it falls back
// to the deterministic local heuristic so the pipeline stays exercisable
// without a credential.
type Adapter struct {
	provider   Provider
	thresholds Thresholds
}

func NewAdapter(provider Provider, thresholds Thresholds) *Adapter {
	if thresholds.ApproveBelow <= 0 {
		thresholds.ApproveBelow = 0.3
	}
	if thresholds.HoldBelow <= thresholds.ApproveBelow {
		thresholds.HoldBelow = 0.6
	}
	return &Adapter{provider: provider, thresholds: thresholds}
}

// Evaluate classifies the campaign in the context of the collected signals.
// It never returns an error: collaborator failure degrades to an all-zero
// result with decision HOLD.
func (a *Adapter) Evaluate(ctx context.Context, campaign domain.Campaign, signals Signals) Result {
	if a.provider == nil {
		return a.heuristicResult(campaign, signals)
	}

	raw, err := a.provider.Classify(ctx, systemPrompt, buildUserPrompt(campaign, signals))
	if err != nil {
		return a.failureResult()
	}

	result, err := a.parseResult(raw)
	if err != nil {
		return a.failureResult()
	}
	result.Source = SourceProvider
	return result
}

func (a *Adapter) failureResult() Result {
	return Result{
		CategoryScores: zeroScores(),
		Decision:       enums.DecisionHold,
		Rationale:      []string{failureRationale},
		Source:         SourceFallback,
		Degraded:       true,
	}
}

type rawResult struct {
	Categories    map[string]any    `json:"categories"`
	Decision      string            `json:"decision"`
	Rationale     []string          `json:"rationale"`
	RequiredEdits []string          `json:"required_edits"`
	Highlights    []json.RawMessage `json:"highlights"`
}

type rawHighlight struct {
	Field string `json:"field"`
	Text  string `json:"text"`
	Start *int   `json:"start"`
	End   *int   `json:"end"`
}

// parseResult validates the collaborator output field by field. Category
// scores that are missing, non-numeric or out of range clamp to zero; an
// invalid suggested decision is re-derived from the clamped scores.
func (a *Adapter) parseResult(raw []byte) (Result, error) {
	payload := extractJSON(raw)
	if payload == nil {
		return Result{}, fmt.Errorf("no JSON object in classifier output")
	}

	var parsed rawResult
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return Result{}, fmt.Errorf("decode classifier output: %w", err)
	}

	scores := zeroScores()
	for _, cat := range enums.PolicyCategories() {
		if v, ok := parsed.Categories[string(cat)]; ok {
			scores[cat] = clampScore(v)
		}
	}

	decision, ok := enums.ParseDecision(parsed.Decision)
	if !ok {
		decision = a.decisionFromScore(maxScore(scores))
	}

	var highlights []domain.Highlight
	for _, rawH := range parsed.Highlights {
		var h rawHighlight
		if err := json.Unmarshal(rawH, &h); err != nil || h.Field == "" {
			continue
		}
		highlights = append(highlights, domain.Highlight{Field: h.Field, Text: h.Text, Start: h.Start, End: h.End})
	}

	return Result{
		CategoryScores: scores,
		Decision:       decision,
		Rationale:      parsed.Rationale,
		RequiredEdits:  parsed.RequiredEdits,
		Highlights:     highlights,
	}, nil
}

func (a *Adapter) decisionFromScore(score float64) enums.Decision {
	switch {
	case score < a.thresholds.ApproveBelow:
		return enums.DecisionApprove
	case score < a.thresholds.HoldBelow:
		return enums.DecisionHold
	default:
		return enums.DecisionReject
	}
}

func zeroScores() map[enums.PolicyCategory]float64 {
	scores := make(map[enums.PolicyCategory]float64, 7)
	for _, cat := range enums.PolicyCategories() {
		scores[cat] = 0
	}
	return scores
}

func maxScore(scores map[enums.PolicyCategory]float64) float64 {
	max := 0.0
	for _, v := range scores {
		if v > max {
			max = v
		}
	}
	return max
}

func clampScore(v any) float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f < 0 || f > 1 {
		return 0
	}
	return f
}

// extractJSON tolerates models that wrap their answer in prose or markdown
// fences by slicing from the first '{' to the last '}'.
func extractJSON(raw []byte) []byte {
	s := string(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil
	}
	return []byte(s[start : end+1])
}

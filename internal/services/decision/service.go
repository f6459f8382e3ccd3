package decision

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/openraise/screening/internal/domain"
	"github.com/openraise/screening/internal/domain/enums"
	"github.com/openraise/screening/internal/services/classifier"
	"github.com/openraise/screening/internal/services/imagescan"
	"github.com/openraise/screening/internal/services/review"
	"github.com/openraise/screening/internal/services/urlcheck"
)

type RuleEngine interface {
	Evaluate(campaign domain.Campaign) domain.SignalResult
}

type URLChecker interface {
	Evaluate(urls []string) []domain.URLFinding
}

type ImageScanner interface {
	EvaluateAll(ctx context.Context, images []domain.Image, payloads [][]byte) ([]domain.Image, []domain.SignalResult)
}

type PolicyClassifier interface {
	Evaluate(ctx context.Context, campaign domain.Campaign, signals classifier.Signals) classifier.Result
}

type ReviewQueue interface {
	Enqueue(ctx context.Context, campaign domain.Campaign, verdict domain.Verdict) (review.Item, error)
}

type VerdictCache interface {
	Get(ctx context.Context, key string) (domain.Verdict, bool, error)
	Set(ctx context.Context, key string, verdict domain.Verdict) error
}

type Dependencies struct {
	Rules      RuleEngine
	URLs       URLChecker
	Images     ImageScanner
	Classifier PolicyClassifier
	Queue      ReviewQueue
}

type Config struct {
	ApproveBelow float64
	HoldBelow    float64
}

// Engine fuses the signal producers into one verdict. Given a fixed
// classifier response it is fully deterministic, which is what makes
// verdicts reproducible for audit.
type Engine struct {
	deps  Dependencies
	cfg   Config
	cache VerdictCache
}

func NewEngine(deps Dependencies, cfg Config) *Engine {
	if cfg.ApproveBelow <= 0 {
		cfg.ApproveBelow = 0.3
	}
	if cfg.HoldBelow <= cfg.ApproveBelow {
		cfg.HoldBelow = 0.6
	}
	return &Engine{deps: deps, cfg: cfg}
}

// AttachVerdictCache enables content-hash short-circuiting for identical
// resubmissions.
func (e *Engine) AttachVerdictCache(cache VerdictCache) {
	e.cache = cache
}

var piiRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}|\+?\d[\d\s-]{8,}\d`)

// Decide runs the full pipeline for one campaign. The rule, URL and image
// producers have no data dependency on each other and run concurrently; the
// classifier consumes their findings and always runs after them. There is no
// cancellation mid-pipeline: once started, a verdict is always produced.
func (e *Engine) Decide(ctx context.Context, campaign domain.Campaign, payloads [][]byte) (domain.Verdict, error) {
	if e.deps.Rules == nil || e.deps.URLs == nil || e.deps.Images == nil || e.deps.Classifier == nil {
		return domain.Verdict{}, fmt.Errorf("decision engine dependencies are not configured")
	}

	cacheKey := ContentHash(campaign, payloads)
	if e.cache != nil {
		if cached, ok, err := e.cache.Get(ctx, cacheKey); err == nil && ok {
			return cached, nil
		}
	}

	var (
		wg           sync.WaitGroup
		ruleResult   domain.SignalResult
		urlFindings  []domain.URLFinding
		images       []domain.Image
		imageResults []domain.SignalResult
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		ruleResult = e.deps.Rules.Evaluate(campaign)
	}()
	go func() {
		defer wg.Done()
		urlFindings = e.deps.URLs.Evaluate(campaign.Links)
	}()
	go func() {
		defer wg.Done()
		images, imageResults = e.deps.Images.EvaluateAll(ctx, campaign.Images, payloads)
	}()
	wg.Wait()

	campaign.Images = images

	var ocrTexts []string
	for _, img := range images {
		if img.ExtractedText != "" {
			ocrTexts = append(ocrTexts, img.ExtractedText)
		}
	}

	signals := classifier.Signals{
		PIIDetected:  piiRe.MatchString(campaign.Description),
		RuleFindings: ruleResult.Findings,
		URLFindings:  urlFindings,
		OCRTexts:     ocrTexts,
	}
	clsResult := e.deps.Classifier.Evaluate(ctx, campaign, signals)

	risk := maxOf(
		ruleResult.Score,
		urlcheck.MaxRisk(urlFindings),
		imagescan.MaxRisk(imageResults),
		clsResult.MaxCategoryScore(),
	)

	decision := e.baselineDecision(risk)
	// The classifier may only tighten the outcome, never loosen it.
	switch clsResult.Decision {
	case enums.DecisionReject:
		decision = enums.DecisionReject
	case enums.DecisionHold:
		if decision == enums.DecisionApprove {
			decision = enums.DecisionHold
		}
	}

	verdict := domain.Verdict{
		Decision:       decision,
		Risk:           risk,
		Rationale:      buildRationale(ruleResult, clsResult, urlFindings, imageResults),
		CategoryScores: clsResult.CategoryScores,
		RequiredEdits:  clsResult.RequiredEdits,
		Highlights:     clsResult.Highlights,
		ImageFindings:  imageResults,
		URLFindings:    urlFindings,

		ClassifierSource:   clsResult.Source,
		ClassifierDegraded: clsResult.Degraded,
	}

	if decision == enums.DecisionHold {
		if e.deps.Queue == nil {
			return domain.Verdict{}, fmt.Errorf("review queue is not configured")
		}
		if _, err := e.deps.Queue.Enqueue(ctx, campaign, verdict); err != nil {
			return domain.Verdict{}, fmt.Errorf("enqueue held campaign: %w", err)
		}
	}

	if e.cache != nil {
		_ = e.cache.Set(ctx, cacheKey, verdict)
	}

	return verdict, nil
}

func (e *Engine) baselineDecision(risk float64) enums.Decision {
	switch {
	case risk < e.cfg.ApproveBelow:
		return enums.DecisionApprove
	case risk < e.cfg.HoldBelow:
		return enums.DecisionHold
	default:
		return enums.DecisionReject
	}
}

// buildRationale concatenates producer findings in fixed order: rules,
// classifier, URLs, images. The order is a stable contract for downstream
// audit display.
func buildRationale(ruleResult domain.SignalResult, clsResult classifier.Result, urlFindings []domain.URLFinding, imageResults []domain.SignalResult) []string {
	rationale := make([]string, 0, len(ruleResult.Findings)+len(clsResult.Rationale)+len(urlFindings)+len(imageResults))
	rationale = append(rationale, ruleResult.Findings...)
	rationale = append(rationale, clsResult.Rationale...)
	for _, f := range urlFindings {
		rationale = append(rationale, fmt.Sprintf("URL risk: %s", f.Reason))
	}
	for _, r := range imageResults {
		if len(r.Findings) > 0 {
			rationale = append(rationale, fmt.Sprintf("Image: %s", strings.Join(r.Findings, ", ")))
		}
	}
	return rationale
}

func maxOf(values ...float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}

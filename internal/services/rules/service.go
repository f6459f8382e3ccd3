package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openraise/screening/internal/domain"
)

const (
	newAccountMaxAgeDays = 3
	minWordCount         = 30
	minUniqueWordRatio   = 0.4
)

// Score floors per heuristic. Matching a heuristic raises the running score
// to at least its floor; scores are never summed.
const (
	scoreBannedFinancial = 0.7
	scorePaymentBypass   = 0.9
	scoreMedicalClaims   = 0.4
	scoreNewAccountGoal  = 0.4
	scoreUnverifiedEmail = 0.3
	scoreRepetitiveText  = 0.3
	scoreLowQualityText  = 0.2
	scoreImpersonation   = 0.5
	scoreUrgency         = 0.3
)

var bannedFinancialPhrases = []string{
	"guaranteed return",
	"guaranteed profit",
	"double your money",
	"double your investment",
	"triple your money",
	"get rich quick",
	"risk-free investment",
	"pyramid scheme",
	"multi-level marketing",
	"multi level marketing",
	"mlm opportunity",
	"ponzi",
}

var medicalKeywords = []string{
	"cancer",
	"chemotherapy",
	"surgery",
	"transplant",
	"tumor",
	"dialysis",
	"life-saving treatment",
	"terminal illness",
}

var medicalVerificationPhrases = []string{
	"medical report",
	"medical records",
	"hospital letter",
	"discharge summary",
	"doctor's certificate",
	"bills attached",
	"documents attached",
	"verified documents",
}

var impersonationPhrases = []string{
	"official fundraiser",
	"official campaign",
	"on behalf of",
	"endorsed by",
	"official charity",
	"verified partner",
}

var urgencyPhrases = []string{
	"act now",
	"hurry",
	"last chance",
	"only today",
	"limited time",
	"before it's too late",
	"don't wait",
	"urgently needed",
}

var paymentBypassPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"UPI identifier", regexp.MustCompile(`\b[a-z0-9._-]{2,}@(?:upi|ybl|ibl|axl|apl|paytm|oksbi|okaxis|okicici|okhdfcbank)\b`)},
	{"IFSC bank code", regexp.MustCompile(`\b[a-z]{4}0[a-z0-9]{6}\b`)},
	{"bank account number", regexp.MustCompile(`\b(?:a/c|acc(?:oun)?t)\s*(?:no|number)?\s*[:.]?\s*\d{9,18}\b`)},
	{"phone number", regexp.MustCompile(`(?:\+|\b)\d[\d\s()-]{8,}\d\b`)},
	{"messaging handle", regexp.MustCompile(`\b(?:whatsapp|telegram|signal)\b|t\.me/|wa\.me/`)},
	{"wallet address", regexp.MustCompile(`paypal\.me/|\bvenmo\b|\bcashapp\b|\$[a-z][a-z0-9_]{3,}`)},
}

var sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)

type Config struct {
	HighGoalThreshold int64
}

// Engine runs the deterministic rule checks. It is pure: no I/O, no clock,
// no state beyond its configuration.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.HighGoalThreshold <= 0 {
		cfg.HighGoalThreshold = 500000
	}
	return &Engine{cfg: cfg}
}

// Evaluate scans the campaign text plus any OCR text already attached to its
// images. The score is the running maximum across matched heuristics and the
// findings keep check order.
func (e *Engine) Evaluate(campaign domain.Campaign) domain.SignalResult {
	text := strings.ToLower(campaign.Title + "\n" + campaign.Description)

	var ocrParts []string
	for _, img := range campaign.Images {
		if img.ExtractedText != "" {
			ocrParts = append(ocrParts, strings.ToLower(img.ExtractedText))
		}
	}
	full := text
	if len(ocrParts) > 0 {
		full = text + "\n" + strings.Join(ocrParts, "\n")
	}

	result := domain.SignalResult{}

	for _, phrase := range bannedFinancialPhrases {
		if strings.Contains(full, phrase) {
			raise(&result, scoreBannedFinancial, fmt.Sprintf("banned financial phrase: %q", phrase))
		}
	}

	for _, pat := range paymentBypassPatterns {
		if pat.re.MatchString(full) {
			raise(&result, scorePaymentBypass, fmt.Sprintf("payment bypass pattern: %s", pat.label))
		}
	}

	if hasAny(full, medicalKeywords) && !hasAny(full, medicalVerificationPhrases) {
		raise(&result, scoreMedicalClaims, "medical claims without verification documents mentioned")
	}

	if campaign.Creator.AccountAgeDays < newAccountMaxAgeDays && campaign.Goal > e.cfg.HighGoalThreshold {
		raise(&result, scoreNewAccountGoal, fmt.Sprintf("new account (%d days) with high goal", campaign.Creator.AccountAgeDays))
	}

	if !campaign.Creator.VerifiedEmail && campaign.Goal > e.cfg.HighGoalThreshold {
		raise(&result, scoreUnverifiedEmail, "unverified email with high goal")
	}

	if isRepetitive(campaign.Description) {
		raise(&result, scoreRepetitiveText, "repetitive or duplicated text")
	}

	if words, ratio := lexicalProfile(campaign.Description); words < minWordCount {
		raise(&result, scoreLowQualityText, fmt.Sprintf("description too short (%d words)", words))
	} else if ratio < minUniqueWordRatio {
		raise(&result, scoreLowQualityText, "low lexical diversity")
	}

	if hasAny(text, impersonationPhrases) && !campaign.Creator.VerifiedIdentity {
		raise(&result, scoreImpersonation, "impersonation-suggestive phrasing without verified identity")
	}

	if hasAny(text, urgencyPhrases) {
		raise(&result, scoreUrgency, "urgency or pressure phrasing")
	}

	return result
}

// HasRiskyText reports whether free text matches the patterns that also make
// image OCR text risky: payment identifiers, guaranteed-return language and
// messaging handles.
func HasRiskyText(text string) bool {
	folded := strings.ToLower(text)
	if hasAny(folded, bannedFinancialPhrases) {
		return true
	}
	for _, pat := range paymentBypassPatterns {
		if pat.re.MatchString(folded) {
			return true
		}
	}
	return false
}

func raise(result *domain.SignalResult, floor float64, finding string) {
	if floor > result.Score {
		result.Score = floor
	}
	result.Findings = append(result.Findings, finding)
}

func hasAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func isRepetitive(text string) bool {
	seen := map[string]int{}
	for _, raw := range sentenceSplitRe.Split(strings.ToLower(text), -1) {
		sentence := strings.Join(strings.Fields(raw), " ")
		if len(sentence) < 12 {
			continue
		}
		seen[sentence]++
		if seen[sentence] >= 3 {
			return true
		}
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) < 10 {
		return false
	}
	counts := map[string]int{}
	max := 0
	for _, w := range words {
		counts[w]++
		if counts[w] > max {
			max = counts[w]
		}
	}
	return float64(max)/float64(len(words)) > 0.3
}

func lexicalProfile(text string) (int, float64) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0, 0
	}
	unique := map[string]struct{}{}
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return len(words), float64(len(unique)) / float64(len(words))
}

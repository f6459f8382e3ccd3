package urlcheck

import (
	"net"
	"net/url"
	"strings"

	"github.com/openraise/screening/internal/domain"
)

// Risk levels per category. Categories are structurally mutually exclusive;
// a URL contributes at most one finding.
const (
	riskMalformed     = 0.3
	riskShortener     = 0.4
	riskSuspiciousTLD = 0.5
	riskBareIP        = 0.6
)

var shortenerDomains = map[string]struct{}{
	"bit.ly":      {},
	"tinyurl.com": {},
	"t.co":        {},
	"goo.gl":      {},
	"is.gd":       {},
	"ow.ly":       {},
	"cutt.ly":     {},
	"rb.gy":       {},
}

var suspiciousTLDs = map[string]struct{}{
	"tk":    {},
	"ml":    {},
	"ga":    {},
	"cf":    {},
	"gq":    {},
	"top":   {},
	"xyz":   {},
	"click": {},
	"loan":  {},
	"zip":   {},
}

type Checker struct{}

func NewChecker() *Checker {
	return &Checker{}
}

// Evaluate classifies each link by structural heuristics. Clean URLs produce
// no finding; the overall contribution is the maximum risk across findings.
func (c *Checker) Evaluate(urls []string) []domain.URLFinding {
	findings := make([]domain.URLFinding, 0, len(urls))
	for _, raw := range urls {
		parsed, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || !parsed.IsAbs() || parsed.Hostname() == "" {
			findings = append(findings, domain.URLFinding{URL: raw, Risk: riskMalformed, Reason: "malformed URL"})
			continue
		}

		host := strings.ToLower(parsed.Hostname())

		if net.ParseIP(host) != nil {
			findings = append(findings, domain.URLFinding{URL: raw, Risk: riskBareIP, Reason: "bare IP address host"})
			continue
		}
		if _, ok := shortenerDomains[host]; ok {
			findings = append(findings, domain.URLFinding{URL: raw, Risk: riskShortener, Reason: "link shortener domain"})
			continue
		}
		if _, ok := suspiciousTLDs[tld(host)]; ok {
			findings = append(findings, domain.URLFinding{URL: raw, Risk: riskSuspiciousTLD, Reason: "suspicious top-level domain"})
		}
	}
	return findings
}

// MaxRisk is the checker's contribution to the overall risk score.
func MaxRisk(findings []domain.URLFinding) float64 {
	max := 0.0
	for _, f := range findings {
		if f.Risk > max {
			max = f.Risk
		}
	}
	return max
}

func tld(host string) string {
	idx := strings.LastIndex(host, ".")
	if idx < 0 || idx == len(host)-1 {
		return ""
	}
	return host[idx+1:]
}

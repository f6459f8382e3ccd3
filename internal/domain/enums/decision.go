package enums

import "strings"

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionHold    Decision = "HOLD"
	DecisionReject  Decision = "REJECT"
)

func ParseDecision(value string) (Decision, bool) {
	switch Decision(strings.ToUpper(strings.TrimSpace(value))) {
	case DecisionApprove:
		return DecisionApprove, true
	case DecisionHold:
		return DecisionHold, true
	case DecisionReject:
		return DecisionReject, true
	default:
		return "", false
	}
}

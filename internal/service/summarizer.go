package service

import (
	"github.com/lab-interpretation-server/internal/domain"
)

// Summarize rolls a batch of interpretations up into severity counts and an
// overall flag. The summary is recomputed from scratch on every call; it is
// never updated incrementally, so it cannot drift from the results it
// describes. An empty batch yields zero counts, a NORMAL flag, and no alert.
func Summarize(interpretations []*domain.Interpretation) domain.Summary {
	summary := domain.Summary{
		OverallFlag:    domain.SeverityNormal,
		EvaluatedCount: len(interpretations),
	}

	for _, interp := range interpretations {
		switch interp.Severity {
		case domain.SeverityCritical:
			summary.CriticalCount++
		case domain.SeverityAbnormal:
			summary.AbnormalCount++
		case domain.SeverityBorderline:
			summary.BorderlineCount++
		default:
			summary.NormalCount++
		}
		if interp.Severity.Rank() > summary.OverallFlag.Rank() {
			summary.OverallFlag = interp.Severity
		}
	}

	summary.CriticalAlert = summary.CriticalCount > 0
	return summary
}

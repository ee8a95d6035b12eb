package lighthouse

import (
	"github.com/cx-miguel-neiva/cwv-audit/internal/handler"
)

// FailingThreshold is the score at and above which a check counts as passed.
const FailingThreshold = 0.5

// ParseAudits returns one issue per failing check in payload order, keeping
// only the first check for any given title.
func ParseAudits(p *Payload) []handler.AuditIssue {
	results := []handler.AuditIssue{}
	if p == nil || p.LighthouseResult == nil || p.LighthouseResult.Audits == nil {
		return results
	}

	audits := p.LighthouseResult.Audits
	seen := make(map[string]struct{}, audits.Len())

	for _, key := range audits.Keys() {
		audit, _ := audits.Get(key)

		if !audit.Score.Valid {
			continue
		}
		if audit.Score.Value >= FailingThreshold {
			continue
		}
		if _, dup := seen[audit.Title]; dup {
			continue
		}
		seen[audit.Title] = struct{}{}

		id := audit.ID
		if id == "" {
			id = key
		}
		results = append(results, handler.AuditIssue{
			Category:         CategoryOf(id),
			Title:            handler.StrPtr(audit.Title),
			PotentialSavings: handler.StrPtr(audit.DisplayValue),
			Description:      handler.StrPtr(audit.Description),
			Score:            audit.Score.Value,
		})
	}

	return results
}

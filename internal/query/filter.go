package query

import (
	"strconv"
	"strings"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
)

// StatusAll is the status filter sentinel meaning "no filter".
const StatusAll = "ALL"

// FilterClaims narrows enriched claims by exact status and a
// case-insensitive substring search. The search term is matched against
// the claim id (base-10), description, enriched customer name and enriched
// policy type; a claim matches if any of those contains the term.
//
// With statusFilter == StatusAll (or empty) and an empty term the input is
// returned as-is. The input slice is never mutated; recomputation is O(n)
// per call, which is fine at back-office entity counts.
func FilterClaims(claims []domain.EnrichedClaim, statusFilter string, searchTerm string) []domain.EnrichedClaim {
	noStatus := statusFilter == "" || statusFilter == StatusAll
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	if noStatus && term == "" {
		return claims
	}

	out := make([]domain.EnrichedClaim, 0, len(claims))
	for _, c := range claims {
		if !noStatus && string(c.Status) != statusFilter {
			continue
		}
		if term != "" && !matchesTerm(c, term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesTerm(c domain.EnrichedClaim, term string) bool {
	if strings.Contains(strconv.FormatInt(c.ID, 10), term) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Description), term) {
		return true
	}
	if strings.Contains(strings.ToLower(c.CustomerName), term) {
		return true
	}
	return strings.Contains(strings.ToLower(c.PolicyType), term)
}

// Package query builds denormalized read views by joining claims,
// policies and customers, and filters them for list/search UIs.
//
// Everything here is a pure function over the collections the caller
// currently holds: no I/O, no retained state, inputs never mutated. Joins
// never fail — a missing related record leaves the derived fields absent.
package query

import "github.com/coverdesk/insurance-backoffice-go/internal/domain"

// EnrichClaims joins each claim with its owning policy and that policy's
// customer, attaching policyType and a formatted customer name. When the
// policy (or its customer) is missing from the supplied collections, the
// derived fields stay empty; the result always has one entry per input
// claim, in input order.
func EnrichClaims(claims []domain.Claim, policies []domain.Policy, customers []domain.Customer) []domain.EnrichedClaim {
	policyByID := make(map[int64]domain.Policy, len(policies))
	for _, p := range policies {
		if _, ok := policyByID[p.ID]; !ok { // first match wins
			policyByID[p.ID] = p
		}
	}
	customerByID := make(map[int64]domain.Customer, len(customers))
	for _, c := range customers {
		if _, ok := customerByID[c.ID]; !ok {
			customerByID[c.ID] = c
		}
	}

	enriched := make([]domain.EnrichedClaim, 0, len(claims))
	for _, cl := range claims {
		e := domain.EnrichedClaim{Claim: cl}
		if p, ok := policyByID[cl.PolicyID]; ok {
			e.PolicyType = string(p.Type)
			if cust, ok := customerByID[p.CustomerID]; ok {
				e.CustomerName = cust.FullName()
			}
		}
		enriched = append(enriched, e)
	}
	return enriched
}

// JoinPolicyWithCustomer attaches the owning customer to a policy for
// detail views. Customer is nil when the join does not resolve.
func JoinPolicyWithCustomer(policy domain.Policy, customers []domain.Customer) domain.PolicyWithCustomer {
	out := domain.PolicyWithCustomer{Policy: policy}
	for i := range customers {
		if customers[i].ID == policy.CustomerID {
			c := customers[i]
			out.Customer = &c
			break
		}
	}
	return out
}

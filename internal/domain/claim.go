package domain

// ============================================================
// Claim — a request for payment under a policy, tied to one incident.
// ============================================================

// ClaimStatus enumerates the claim lifecycle states.
// REJECTED and SETTLED are terminal.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "PENDING"
	ClaimApproved ClaimStatus = "APPROVED"
	ClaimRejected ClaimStatus = "REJECTED"
	ClaimSettled  ClaimStatus = "SETTLED"
)

// Valid reports whether s is one of the four known statuses.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimPending, ClaimApproved, ClaimRejected, ClaimSettled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimRejected || s == ClaimSettled
}

// Claim is a single incident claim against a policy.
//
// Invariants maintained by the lifecycle engine:
//   - SettledAmount is non-nil exactly when Status is SETTLED
//   - when present, 0 < *SettledAmount <= ClaimedAmount
type Claim struct {
	ID            int64       `json:"id"`
	Date          Date        `json:"date" validate:"required"`
	Description   string      `json:"description" validate:"required"`
	ClaimedAmount float64     `json:"claimedAmount" validate:"required,gt=0"`
	SettledAmount *float64    `json:"settledAmount,omitempty"`
	Status        ClaimStatus `json:"status"`
	PolicyID      int64       `json:"policyId" validate:"required,gt=0"`
}

// ClaimUpdate carries the mutable claim fields for full-record updates.
// Status and SettledAmount are deliberately absent: those change only
// through lifecycle transitions.
type ClaimUpdate struct {
	Date          Date    `json:"date" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	ClaimedAmount float64 `json:"claimedAmount" validate:"required,gt=0"`
	PolicyID      int64   `json:"policyId" validate:"required,gt=0"`
}

// EnrichedClaim is a claim joined with its owning policy and customer for
// list/search views. PolicyType and CustomerName are empty when the join
// does not resolve (e.g. the policy was deleted); the view itself is never
// persisted and goes stale if the underlying collections change.
type EnrichedClaim struct {
	Claim
	PolicyType   string `json:"policyType,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
}

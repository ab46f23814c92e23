// Package lifecycle implements the claim status state machine.
//
// States: PENDING (initial) -> APPROVED -> SETTLED, PENDING -> REJECTED.
// REJECTED and SETTLED are terminal. The machine only decides whether a
// transition is legal and what the resulting record looks like; persisting
// the change atomically is the store's job.
package lifecycle

import (
	"github.com/coverdesk/insurance-backoffice-go/internal/domain"

	"github.com/qmuntal/stateless"
)

// Action is a caller-requested lifecycle action.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionSettle  Action = "settle"
)

// ActionForTarget maps a requested target status onto the action that
// reaches it. The status-update API is expressed in target states (the
// frontend PATCHes {status: "APPROVED"}), the transition table in actions.
func ActionForTarget(target domain.ClaimStatus) (Action, bool) {
	switch target {
	case domain.ClaimApproved:
		return ActionApprove, true
	case domain.ClaimRejected:
		return ActionReject, true
	case domain.ClaimSettled:
		return ActionSettle, true
	}
	return "", false
}

// Outcome is the decided result of a legal transition: the status to write
// and, for settlements, the amount.
type Outcome struct {
	Status        domain.ClaimStatus
	SettledAmount *float64
}

// newMachine builds the transition table anchored at the claim's current
// status. Firing an unconfigured trigger returns an error, which is how
// illegal transitions are detected.
func newMachine(current domain.ClaimStatus) *stateless.StateMachine {
	m := stateless.NewStateMachine(current)

	m.Configure(domain.ClaimPending).
		Permit(ActionApprove, domain.ClaimApproved).
		Permit(ActionReject, domain.ClaimRejected)

	m.Configure(domain.ClaimApproved).
		Permit(ActionSettle, domain.ClaimSettled)

	m.Configure(domain.ClaimRejected)
	m.Configure(domain.ClaimSettled)

	return m
}

// Decide applies the transition table to the claim's current state.
//
// It never mutates the claim. On success it returns the Outcome to
// persist; otherwise ErrInvalidTransition (action not permitted from the
// current status) or ErrInvalidSettlementAmount (settle with an amount
// outside (0, claimedAmount]). The amount guard runs only once the settle
// action itself is known to be legal, so settling a PENDING claim with a
// bad amount still reports the transition error.
func Decide(claim *domain.Claim, action Action, amount *float64) (Outcome, error) {
	m := newMachine(claim.Status)

	ok, err := m.CanFire(action)
	if err != nil || !ok {
		return Outcome{}, &domain.ErrInvalidTransition{From: claim.Status, Action: string(action)}
	}

	if action == ActionSettle {
		// Positive form so NaN fails the guard too.
		if amount == nil || !(*amount > 0 && *amount <= claim.ClaimedAmount) {
			got := 0.0
			if amount != nil {
				got = *amount
			}
			return Outcome{}, &domain.ErrInvalidSettlementAmount{Amount: got, ClaimedAmount: claim.ClaimedAmount}
		}
	}

	if err := m.Fire(action); err != nil {
		return Outcome{}, &domain.ErrInvalidTransition{From: claim.Status, Action: string(action)}
	}

	out := Outcome{Status: m.MustState().(domain.ClaimStatus)}
	if action == ActionSettle {
		v := *amount
		out.SettledAmount = &v
	}
	return out, nil
}

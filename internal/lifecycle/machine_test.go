package lifecycle_test

import (
	"errors"
	"math"
	"testing"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/lifecycle"
)

func float64Ptr(v float64) *float64 { return &v }

func pendingClaim(claimed float64) *domain.Claim {
	return &domain.Claim{
		ID:            1,
		Date:          domain.NewDate(2024, 3, 15),
		Description:   "Rear-end collision on I-80",
		ClaimedAmount: claimed,
		Status:        domain.ClaimPending,
		PolicyID:      10,
	}
}

func TestDecide_ApprovePending(t *testing.T) {
	out, err := lifecycle.Decide(pendingClaim(5000), lifecycle.ActionApprove, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Status != domain.ClaimApproved {
		t.Errorf("expected status APPROVED, got %s", out.Status)
	}
	if out.SettledAmount != nil {
		t.Errorf("expected no settled amount, got %v", *out.SettledAmount)
	}
}

func TestDecide_RejectPending(t *testing.T) {
	out, err := lifecycle.Decide(pendingClaim(5000), lifecycle.ActionReject, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Status != domain.ClaimRejected {
		t.Errorf("expected status REJECTED, got %s", out.Status)
	}
}

func TestDecide_SettleApproved(t *testing.T) {
	claim := pendingClaim(5000)
	claim.Status = domain.ClaimApproved

	out, err := lifecycle.Decide(claim, lifecycle.ActionSettle, float64Ptr(4500))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Status != domain.ClaimSettled {
		t.Errorf("expected status SETTLED, got %s", out.Status)
	}
	if out.SettledAmount == nil || *out.SettledAmount != 4500 {
		t.Errorf("expected settled amount 4500, got %v", out.SettledAmount)
	}
}

func TestDecide_SettleAtFullClaimedAmount(t *testing.T) {
	claim := pendingClaim(5000)
	claim.Status = domain.ClaimApproved

	out, err := lifecycle.Decide(claim, lifecycle.ActionSettle, float64Ptr(5000))
	if err != nil {
		t.Fatalf("settling at exactly the claimed amount should be legal, got %v", err)
	}
	if *out.SettledAmount != 5000 {
		t.Errorf("expected settled amount 5000, got %v", *out.SettledAmount)
	}
}

func TestDecide_IllegalTransitions(t *testing.T) {
	cases := []struct {
		name   string
		from   domain.ClaimStatus
		action lifecycle.Action
	}{
		{"settle pending", domain.ClaimPending, lifecycle.ActionSettle},
		{"approve approved", domain.ClaimApproved, lifecycle.ActionApprove},
		{"reject approved", domain.ClaimApproved, lifecycle.ActionReject},
		{"approve rejected", domain.ClaimRejected, lifecycle.ActionApprove},
		{"settle rejected", domain.ClaimRejected, lifecycle.ActionSettle},
		{"approve settled", domain.ClaimSettled, lifecycle.ActionApprove},
		{"settle settled", domain.ClaimSettled, lifecycle.ActionSettle},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claim := pendingClaim(5000)
			claim.Status = tc.from

			_, err := lifecycle.Decide(claim, tc.action, float64Ptr(1000))
			if err == nil {
				t.Fatalf("expected error for %s from %s, got nil", tc.action, tc.from)
			}
			var invalid *domain.ErrInvalidTransition
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidTransition, got %T: %v", err, err)
			}
			if invalid.From != tc.from {
				t.Errorf("expected From=%s, got %s", tc.from, invalid.From)
			}
		})
	}
}

// Settling a PENDING claim with a bad amount is still a transition error:
// the state check runs before the amount guard.
func TestDecide_SettlePendingWithBadAmount(t *testing.T) {
	_, err := lifecycle.Decide(pendingClaim(5000), lifecycle.ActionSettle, float64Ptr(999999))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var invalid *domain.ErrInvalidTransition
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidTransition, got %T: %v", err, err)
	}
}

func TestDecide_SettleAmountGuard(t *testing.T) {
	cases := []struct {
		name   string
		amount *float64
	}{
		{"missing amount", nil},
		{"zero amount", float64Ptr(0)},
		{"negative amount", float64Ptr(-100)},
		{"amount above claimed", float64Ptr(5001)},
		{"NaN amount", float64Ptr(math.NaN())},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claim := pendingClaim(5000)
			claim.Status = domain.ClaimApproved

			_, err := lifecycle.Decide(claim, lifecycle.ActionSettle, tc.amount)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var bad *domain.ErrInvalidSettlementAmount
			if !errors.As(err, &bad) {
				t.Fatalf("expected ErrInvalidSettlementAmount, got %T: %v", err, err)
			}
			if bad.ClaimedAmount != 5000 {
				t.Errorf("expected claimed amount 5000 in error, got %v", bad.ClaimedAmount)
			}
		})
	}
}

func TestDecide_DoesNotMutateClaim(t *testing.T) {
	claim := pendingClaim(5000)
	if _, err := lifecycle.Decide(claim, lifecycle.ActionApprove, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claim.Status != domain.ClaimPending {
		t.Errorf("Decide mutated the claim: status is now %s", claim.Status)
	}
}

func TestActionForTarget(t *testing.T) {
	cases := []struct {
		target domain.ClaimStatus
		want   lifecycle.Action
		ok     bool
	}{
		{domain.ClaimApproved, lifecycle.ActionApprove, true},
		{domain.ClaimRejected, lifecycle.ActionReject, true},
		{domain.ClaimSettled, lifecycle.ActionSettle, true},
		{domain.ClaimPending, "", false},
		{domain.ClaimStatus("BOGUS"), "", false},
	}

	for _, tc := range cases {
		got, ok := lifecycle.ActionForTarget(tc.target)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ActionForTarget(%s) = (%s, %v), want (%s, %v)", tc.target, got, ok, tc.want, tc.ok)
		}
	}
}

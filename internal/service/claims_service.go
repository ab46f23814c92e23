package service

import (
	"context"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/lifecycle"
	"github.com/coverdesk/insurance-backoffice-go/internal/query"
	"github.com/coverdesk/insurance-backoffice-go/internal/validate"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Claims — CRUD + lifecycle transitions
// ============================================================

func (s *BackofficeService) ListClaims(ctx context.Context) ([]domain.Claim, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListClaims")
	defer span.End()

	return s.store.ListClaims(ctx)
}

func (s *BackofficeService) GetClaim(ctx context.Context, id int64) (*domain.Claim, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.GetClaim")
	defer span.End()
	span.SetAttributes(attribute.Int64("claim.id", id))

	return s.store.GetClaim(ctx, id)
}

func (s *BackofficeService) ListClaimsByPolicy(ctx context.Context, policyID int64) ([]domain.Claim, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListClaimsByPolicy")
	defer span.End()

	return s.store.ListClaimsByPolicy(ctx, policyID)
}

// ListEnrichedClaims assembles the claims list view: claims joined with
// policy type and customer name, then narrowed by status filter and search
// term. Claims, policies and customers are fetched concurrently; the
// enrich/filter step itself is pure computation over those snapshots.
func (s *BackofficeService) ListEnrichedClaims(ctx context.Context, statusFilter, searchTerm string) ([]domain.EnrichedClaim, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListEnrichedClaims")
	defer span.End()

	var (
		claims    []domain.Claim
		policies  []domain.Policy
		customers []domain.Customer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		claims, err = s.store.ListClaims(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		policies, err = s.cachedPolicies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.cachedCustomers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	enriched := query.EnrichClaims(claims, policies, customers)
	return query.FilterClaims(enriched, statusFilter, searchTerm), nil
}

// CreateClaim validates the draft, verifies the owning policy exists, and
// persists the claim with status forced to PENDING regardless of input.
func (s *BackofficeService) CreateClaim(ctx context.Context, c *domain.Claim) (*domain.Claim, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.CreateClaim")
	defer span.End()

	if res := validate.Claim(*c); !res.Valid() {
		return nil, &domain.ErrValidationFailed{Fields: res}
	}

	if _, err := s.store.GetPolicy(ctx, c.PolicyID); err != nil {
		return nil, err
	}

	draft := *c
	draft.Status = domain.ClaimPending
	draft.SettledAmount = nil

	created, err := s.store.CreateClaim(ctx, &draft)
	if err != nil {
		s.metrics.IncrStoreError("claims")
		return nil, err
	}
	s.metrics.IncrClaimCreated()

	s.logger.Info("claim created",
		zap.Int64("claim_id", created.ID),
		zap.Int64("policy_id", created.PolicyID),
		zap.Float64("claimed_amount", created.ClaimedAmount),
	)
	return created, nil
}

// UpdateClaim replaces the mutable claim fields (date, description,
// claimedAmount, policyId). Status and settledAmount are only reachable
// through Transition. Claims in a terminal state are immutable.
func (s *BackofficeService) UpdateClaim(ctx context.Context, id int64, u *domain.ClaimUpdate) (*domain.Claim, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.UpdateClaim")
	defer span.End()

	if res := validate.ClaimUpdate(*u); !res.Valid() {
		return nil, &domain.ErrValidationFailed{Fields: res}
	}

	current, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, &domain.ErrInvalidTransition{From: current.Status, Action: "update"}
	}

	if u.PolicyID != current.PolicyID {
		if _, err := s.store.GetPolicy(ctx, u.PolicyID); err != nil {
			return nil, err
		}
	}

	return s.store.UpdateClaim(ctx, id, u)
}

// Transition applies a lifecycle action (approve, reject, settle) to the
// claim. The decision is made against the freshly-read claim and persisted
// as a compare-and-swap on the status column, so concurrent transitions
// cannot both win and no partial update is ever visible.
func (s *BackofficeService) Transition(ctx context.Context, id int64, action lifecycle.Action, settledAmount *float64) (*domain.Claim, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.Transition")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("claim.id", id),
		attribute.String("claim.action", string(action)),
	)

	claim, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}

	outcome, err := lifecycle.Decide(claim, action, settledAmount)
	if err != nil {
		switch err.(type) {
		case *domain.ErrInvalidSettlementAmount:
			s.metrics.IncrTransition(string(action), "invalid_amount")
		default:
			s.metrics.IncrTransition(string(action), "invalid_transition")
		}
		s.logger.Warn("claim transition rejected",
			zap.Int64("claim_id", id),
			zap.String("action", string(action)),
			zap.String("from", string(claim.Status)),
			zap.Error(err),
		)
		return nil, err
	}

	updated, err := s.store.UpdateClaimStatus(ctx, id, claim.Status, outcome.Status, outcome.SettledAmount)
	if err != nil {
		if _, raced := err.(*domain.ErrInvalidTransition); !raced {
			s.metrics.IncrStoreError("claims")
		} else {
			s.metrics.IncrTransition(string(action), "invalid_transition")
		}
		return nil, err
	}
	s.metrics.IncrTransition(string(action), "applied")

	s.logger.Info("claim transitioned",
		zap.Int64("claim_id", id),
		zap.String("action", string(action)),
		zap.String("from", string(claim.Status)),
		zap.String("to", string(updated.Status)),
	)
	return updated, nil
}

// DeleteClaim removes the claim from any state. Deleting a missing id
// fails with NotFound.
func (s *BackofficeService) DeleteClaim(ctx context.Context, id int64) error {
	ctx, span := boTracer.Start(ctx, "BackofficeService.DeleteClaim")
	defer span.End()

	if err := s.store.DeleteClaim(ctx, id); err != nil {
		return err
	}

	s.logger.Info("claim deleted", zap.Int64("claim_id", id))
	return nil
}

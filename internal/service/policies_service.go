package service

import (
	"context"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/query"
	"github.com/coverdesk/insurance-backoffice-go/internal/validate"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Policies
// ============================================================

func (s *BackofficeService) ListPolicies(ctx context.Context) ([]domain.Policy, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListPolicies")
	defer span.End()

	return s.cachedPolicies(ctx)
}

func (s *BackofficeService) GetPolicy(ctx context.Context, id int64) (*domain.Policy, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.GetPolicy")
	defer span.End()
	span.SetAttributes(attribute.Int64("policy.id", id))

	return s.store.GetPolicy(ctx, id)
}

func (s *BackofficeService) ListPoliciesByCustomer(ctx context.Context, customerID int64) ([]domain.Policy, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListPoliciesByCustomer")
	defer span.End()

	return s.store.ListPoliciesByCustomer(ctx, customerID)
}

// GetPolicyWithCustomer returns the policy joined with its owning
// customer for detail views. A missing customer degrades to a nil
// Customer field, it is not an error.
func (s *BackofficeService) GetPolicyWithCustomer(ctx context.Context, id int64) (*domain.PolicyWithCustomer, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.GetPolicyWithCustomer")
	defer span.End()

	policy, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}

	customers, err := s.cachedCustomers(ctx)
	if err != nil {
		return nil, err
	}

	joined := query.JoinPolicyWithCustomer(*policy, customers)
	return &joined, nil
}

// ListPoliciesWithCustomers returns every policy joined with its owning
// customer. Policies and customers are fetched concurrently.
func (s *BackofficeService) ListPoliciesWithCustomers(ctx context.Context) ([]domain.PolicyWithCustomer, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListPoliciesWithCustomers")
	defer span.End()

	var (
		policies  []domain.Policy
		customers []domain.Customer
	)

	g, gctx := errgroup.WithContext(ctx)
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

	out := make([]domain.PolicyWithCustomer, 0, len(policies))
	for _, p := range policies {
		out = append(out, query.JoinPolicyWithCustomer(p, customers))
	}
	return out, nil
}

// CreatePolicy validates the draft and verifies the owning customer
// exists before writing.
func (s *BackofficeService) CreatePolicy(ctx context.Context, p *domain.Policy) (*domain.Policy, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.CreatePolicy")
	defer span.End()

	if res := validate.Policy(*p); !res.Valid() {
		return nil, &domain.ErrValidationFailed{Fields: res}
	}

	if _, err := s.store.GetCustomer(ctx, p.CustomerID); err != nil {
		return nil, err
	}

	created, err := s.store.CreatePolicy(ctx, p)
	if err != nil {
		s.metrics.IncrStoreError("policies")
		return nil, err
	}
	s.policiesCache.Delete(policiesCacheKey)

	s.logger.Info("policy created",
		zap.Int64("policy_id", created.ID),
		zap.String("type", string(created.Type)),
		zap.Int64("customer_id", created.CustomerID),
	)
	return created, nil
}

func (s *BackofficeService) UpdatePolicy(ctx context.Context, id int64, p *domain.Policy) (*domain.Policy, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.UpdatePolicy")
	defer span.End()

	if res := validate.Policy(*p); !res.Valid() {
		return nil, &domain.ErrValidationFailed{Fields: res}
	}

	updated, err := s.store.UpdatePolicy(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.policiesCache.Delete(policiesCacheKey)
	return updated, nil
}

func (s *BackofficeService) DeletePolicy(ctx context.Context, id int64) error {
	ctx, span := boTracer.Start(ctx, "BackofficeService.DeletePolicy")
	defer span.End()

	if err := s.store.DeletePolicy(ctx, id); err != nil {
		return err
	}
	s.policiesCache.Delete(policiesCacheKey)

	s.logger.Info("policy deleted", zap.Int64("policy_id", id))
	return nil
}

func (s *BackofficeService) cachedPolicies(ctx context.Context) ([]domain.Policy, error) {
	if policies, ok := s.policiesCache.Get(policiesCacheKey); ok {
		s.metrics.IncrCacheHit("policies")
		return policies, nil
	}
	s.metrics.IncrCacheMiss("policies")

	policies, err := s.store.ListPolicies(ctx)
	if err != nil {
		s.metrics.IncrStoreError("policies")
		return nil, err
	}
	s.policiesCache.Set(policiesCacheKey, policies)
	return policies, nil
}

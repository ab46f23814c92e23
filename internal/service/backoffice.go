// Package service provides the business logic layer (use cases).
// BackofficeService handles customer, policy and claim operations,
// including the claim lifecycle and the enriched read views.
package service

import (
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/infra/observability"
	"github.com/coverdesk/insurance-backoffice-go/internal/port"
)

var boTracer = otel.Tracer("service/backoffice")

const (
	customersCacheKey = "customers/all"
	policiesCacheKey  = "policies/all"
)

// Store bundles the per-entity persistence ports the back office needs.
// The Supabase client satisfies all of them.
type Store interface {
	port.CustomerStore
	port.PolicyStore
	port.ClaimStore
}

// BackofficeService orchestrates all insurance desk operations via the
// persistence store.
type BackofficeService struct {
	store          Store
	customersCache port.Cache[[]domain.Customer]
	policiesCache  port.Cache[[]domain.Policy]
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// NewBackofficeService creates a new back-office service.
func NewBackofficeService(
	store Store,
	customersCache port.Cache[[]domain.Customer],
	policiesCache port.Cache[[]domain.Policy],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *BackofficeService {
	return &BackofficeService{
		store:          store,
		customersCache: customersCache,
		policiesCache:  policiesCache,
		metrics:        metrics,
		logger:         logger,
	}
}

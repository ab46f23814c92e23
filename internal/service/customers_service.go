package service

import (
	"context"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/validate"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Customers
// ============================================================

func (s *BackofficeService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.ListCustomers")
	defer span.End()

	return s.cachedCustomers(ctx)
}

func (s *BackofficeService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.GetCustomer")
	defer span.End()
	span.SetAttributes(attribute.Int64("customer.id", id))

	return s.store.GetCustomer(ctx, id)
}

func (s *BackofficeService) SearchCustomers(ctx context.Context, lastName string) ([]domain.Customer, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.SearchCustomers")
	defer span.End()

	if lastName == "" {
		return s.cachedCustomers(ctx)
	}
	return s.store.SearchCustomersByLastName(ctx, lastName)
}

func (s *BackofficeService) CreateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.CreateCustomer")
	defer span.End()

	if res := validate.Customer(*c); !res.Valid() {
		return nil, &domain.ErrValidationFailed{Fields: res}
	}

	created, err := s.store.CreateCustomer(ctx, c)
	if err != nil {
		s.metrics.IncrStoreError("customers")
		return nil, err
	}
	s.customersCache.Delete(customersCacheKey)

	s.logger.Info("customer created",
		zap.Int64("customer_id", created.ID),
		zap.String("last_name", created.LastName),
	)
	return created, nil
}

// UpdateCustomer replaces all customer fields.
func (s *BackofficeService) UpdateCustomer(ctx context.Context, id int64, c *domain.Customer) (*domain.Customer, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.UpdateCustomer")
	defer span.End()

	if res := validate.Customer(*c); !res.Valid() {
		return nil, &domain.ErrValidationFailed{Fields: res}
	}

	updated, err := s.store.UpdateCustomer(ctx, id, c)
	if err != nil {
		return nil, err
	}
	s.customersCache.Delete(customersCacheKey)
	return updated, nil
}

func (s *BackofficeService) DeleteCustomer(ctx context.Context, id int64) error {
	ctx, span := boTracer.Start(ctx, "BackofficeService.DeleteCustomer")
	defer span.End()

	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.customersCache.Delete(customersCacheKey)

	s.logger.Info("customer deleted", zap.Int64("customer_id", id))
	return nil
}

// cachedCustomers serves the full customer collection from the TTL cache,
// falling back to the store on a miss.
func (s *BackofficeService) cachedCustomers(ctx context.Context) ([]domain.Customer, error) {
	if customers, ok := s.customersCache.Get(customersCacheKey); ok {
		s.metrics.IncrCacheHit("customers")
		return customers, nil
	}
	s.metrics.IncrCacheMiss("customers")

	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		s.metrics.IncrStoreError("customers")
		return nil, err
	}
	s.customersCache.Set(customersCacheKey, customers)
	return customers, nil
}

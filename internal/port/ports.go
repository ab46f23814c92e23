// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
)

// CustomerStore defines persistence operations for customers.
// Implemented by the Supabase adapter (or any other persistence layer).
type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	SearchCustomersByLastName(ctx context.Context, lastName string) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, c *domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

// PolicyStore defines persistence operations for policies.
type PolicyStore interface {
	ListPolicies(ctx context.Context) ([]domain.Policy, error)
	GetPolicy(ctx context.Context, id int64) (*domain.Policy, error)
	ListPoliciesByCustomer(ctx context.Context, customerID int64) ([]domain.Policy, error)
	CreatePolicy(ctx context.Context, p *domain.Policy) (*domain.Policy, error)
	UpdatePolicy(ctx context.Context, id int64, p *domain.Policy) (*domain.Policy, error)
	DeletePolicy(ctx context.Context, id int64) error
}

// ClaimStore defines persistence operations for claims.
//
// UpdateClaimStatus must be a compare-and-swap on the claim's current
// status: the write succeeds only if the stored status still equals
// expected, so two racing transitions cannot both apply (one observes
// ErrInvalidTransition). This is the atomicity contract the lifecycle
// engine relies on.
type ClaimStore interface {
	ListClaims(ctx context.Context) ([]domain.Claim, error)
	GetClaim(ctx context.Context, id int64) (*domain.Claim, error)
	ListClaimsByPolicy(ctx context.Context, policyID int64) ([]domain.Claim, error)
	CreateClaim(ctx context.Context, c *domain.Claim) (*domain.Claim, error)
	UpdateClaim(ctx context.Context, id int64, u *domain.ClaimUpdate) (*domain.Claim, error)
	UpdateClaimStatus(ctx context.Context, id int64, expected, next domain.ClaimStatus, settledAmount *float64) (*domain.Claim, error)
	DeleteClaim(ctx context.Context, id int64) error
}

// AuthStore defines persistence operations for staff accounts.
type AuthStore interface {
	GetStaffByUsername(ctx context.Context, username string) (*domain.StaffAccount, error)
	CreateStaff(ctx context.Context, account *domain.StaffAccount) (*domain.StaffAccount, error)
}

// Pinger reports whether the backing store is reachable; used by /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

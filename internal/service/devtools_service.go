package service

import (
	"context"
	"fmt"
	"time"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Dev Tools (testing helpers; enabled with DEV_TOOLS=true)
// ============================================================

// SeedFixtures inserts a linked fixture set for manual testing: two
// customers, three policies (two on the first customer), and one PENDING
// claim per policy. Emails get a uuid suffix so repeated seeding never
// collides on unique columns.
func (s *BackofficeService) SeedFixtures(ctx context.Context) (*domain.SeedResult, error) {
	ctx, span := boTracer.Start(ctx, "BackofficeService.SeedFixtures")
	defer span.End()

	tag := uuid.NewString()[:8]
	result := &domain.SeedResult{}

	customers := []domain.Customer{
		{FirstName: "Harriet", LastName: "Ford", Address: "12 Mill Lane", Phone: "555-0101",
			Email: fmt.Sprintf("harriet.ford+%s@example.com", tag)},
		{FirstName: "Oscar", LastName: "Velez", Address: "88 Harbor Rd", Phone: "555-0102",
			Email: fmt.Sprintf("oscar.velez+%s@example.com", tag)},
	}

	var created []domain.Customer
	for i := range customers {
		c, err := s.CreateCustomer(ctx, &customers[i])
		if err != nil {
			return nil, err
		}
		created = append(created, *c)
		result.CustomerIDs = append(result.CustomerIDs, c.ID)
	}

	year := time.Now().Year()
	policies := []domain.Policy{
		{Type: domain.PolicyAuto, CoverageAmount: 25000, CustomerID: created[0].ID,
			StartDate: domain.NewDate(year, time.January, 1), EndDate: domain.NewDate(year, time.December, 31)},
		{Type: domain.PolicyHome, CoverageAmount: 300000, CustomerID: created[0].ID,
			StartDate: domain.NewDate(year, time.March, 1), EndDate: domain.NewDate(year+1, time.February, 28)},
		{Type: domain.PolicyHealth, CoverageAmount: 50000, CustomerID: created[1].ID,
			StartDate: domain.NewDate(year, time.June, 1), EndDate: domain.NewDate(year+1, time.May, 31)},
	}

	descriptions := []string{
		"Rear-end collision at traffic lights",
		"Burst pipe damaged kitchen floor",
		"Emergency appendectomy",
	}

	for i := range policies {
		p, err := s.CreatePolicy(ctx, &policies[i])
		if err != nil {
			return nil, err
		}
		result.PolicyIDs = append(result.PolicyIDs, p.ID)

		claim := domain.Claim{
			Date:          domain.NewDate(year, time.July, 10+i),
			Description:   descriptions[i],
			ClaimedAmount: float64(1000 * (i + 1)),
			PolicyID:      p.ID,
		}
		cl, err := s.CreateClaim(ctx, &claim)
		if err != nil {
			return nil, err
		}
		result.ClaimIDs = append(result.ClaimIDs, cl.ID)
	}

	s.logger.Info("dev fixtures seeded",
		zap.String("tag", tag),
		zap.Int("customers", len(result.CustomerIDs)),
		zap.Int("policies", len(result.PolicyIDs)),
		zap.Int("claims", len(result.ClaimIDs)),
	)
	return result, nil
}

package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
)

// ============================================================
// Policies — CRUD via PostgREST (implements port.PolicyStore)
// ============================================================

// policyRow maps the policies table columns to the domain entity.
// Dates are stored as Postgres `date` and travel as "2006-01-02".
type policyRow struct {
	ID             int64   `json:"id"`
	PolicyType     string  `json:"policy_type"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	CoverageAmount float64 `json:"coverage_amount"`
	CustomerID     int64   `json:"customer_id"`
}

func (r policyRow) toDomain() domain.Policy {
	start, _ := domain.ParseDate(r.StartDate)
	end, _ := domain.ParseDate(r.EndDate)
	return domain.Policy{
		ID:             r.ID,
		Type:           domain.PolicyType(r.PolicyType),
		StartDate:      start,
		EndDate:        end,
		CoverageAmount: r.CoverageAmount,
		CustomerID:     r.CustomerID,
	}
}

func policyColumns(p *domain.Policy) map[string]any {
	return map[string]any{
		"policy_type":     string(p.Type),
		"start_date":      p.StartDate.String(),
		"end_date":        p.EndDate.String(),
		"coverage_amount": p.CoverageAmount,
		"customer_id":     p.CustomerID,
	}
}

func (c *Client) ListPolicies(ctx context.Context) ([]domain.Policy, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPolicies")
	defer span.End()

	rows, err := getRows[policyRow](ctx, c, "policies?order=id.asc")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/policies", Err: err}
	}
	return policiesToDomain(rows), nil
}

func (c *Client) GetPolicy(ctx context.Context, id int64) (*domain.Policy, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetPolicy")
	defer span.End()

	rows, err := getRows[policyRow](ctx, c, fmt.Sprintf("policies?id=eq.%d&limit=1", id))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/policies", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "policy", ID: id}
	}
	p := rows[0].toDomain()
	return &p, nil
}

func (c *Client) ListPoliciesByCustomer(ctx context.Context, customerID int64) ([]domain.Policy, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPoliciesByCustomer")
	defer span.End()

	rows, err := getRows[policyRow](ctx, c, fmt.Sprintf("policies?customer_id=eq.%d&order=id.asc", customerID))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/policies", Err: err}
	}
	return policiesToDomain(rows), nil
}

func (c *Client) CreatePolicy(ctx context.Context, p *domain.Policy) (*domain.Policy, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreatePolicy")
	defer span.End()

	body, err := c.doPost(ctx, "policies", policyColumns(p))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/policies", Err: err}
	}

	var rows []policyRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/policies", Err: fmt.Errorf("decode policy: %w", err)}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase/policies", Err: fmt.Errorf("no result from policies insert")}
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdatePolicy(ctx context.Context, id int64, p *domain.Policy) (*domain.Policy, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePolicy")
	defer span.End()

	body, err := c.doPatch(ctx, fmt.Sprintf("policies?id=eq.%d", id), policyColumns(p))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/policies", Err: err}
	}
	if emptyRows(body) {
		return nil, &domain.ErrNotFound{Resource: "policy", ID: id}
	}

	var rows []policyRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/policies", Err: fmt.Errorf("decode policy: %w", err)}
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

func (c *Client) DeletePolicy(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeletePolicy")
	defer span.End()

	body, err := c.doDelete(ctx, fmt.Sprintf("policies?id=eq.%d", id))
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/policies", Err: err}
	}
	if emptyRows(body) {
		return &domain.ErrNotFound{Resource: "policy", ID: id}
	}
	return nil
}

func policiesToDomain(rows []policyRow) []domain.Policy {
	out := make([]domain.Policy, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

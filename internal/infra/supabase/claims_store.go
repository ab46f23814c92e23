package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Claims — CRUD + conditional status writes (implements port.ClaimStore)
// ============================================================

// claimRow maps the claims table columns to the domain entity.
type claimRow struct {
	ID            int64    `json:"id"`
	IncidentDate  string   `json:"incident_date"`
	Description   string   `json:"description"`
	ClaimedAmount float64  `json:"claimed_amount"`
	SettledAmount *float64 `json:"settled_amount"`
	Status        string   `json:"status"`
	PolicyID      int64    `json:"policy_id"`
}

func (r claimRow) toDomain() domain.Claim {
	date, _ := domain.ParseDate(r.IncidentDate)
	return domain.Claim{
		ID:            r.ID,
		Date:          date,
		Description:   r.Description,
		ClaimedAmount: r.ClaimedAmount,
		SettledAmount: r.SettledAmount,
		Status:        domain.ClaimStatus(r.Status),
		PolicyID:      r.PolicyID,
	}
}

func (c *Client) ListClaims(ctx context.Context) ([]domain.Claim, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListClaims")
	defer span.End()

	rows, err := getRows[claimRow](ctx, c, "claims?order=id.asc")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: err}
	}
	return claimsToDomain(rows), nil
}

func (c *Client) GetClaim(ctx context.Context, id int64) (*domain.Claim, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetClaim")
	defer span.End()
	span.SetAttributes(attribute.Int64("claim.id", id))

	rows, err := getRows[claimRow](ctx, c, fmt.Sprintf("claims?id=eq.%d&limit=1", id))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "claim", ID: id}
	}
	cl := rows[0].toDomain()
	return &cl, nil
}

func (c *Client) ListClaimsByPolicy(ctx context.Context, policyID int64) ([]domain.Claim, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListClaimsByPolicy")
	defer span.End()

	rows, err := getRows[claimRow](ctx, c, fmt.Sprintf("claims?policy_id=eq.%d&order=id.asc", policyID))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: err}
	}
	return claimsToDomain(rows), nil
}

func (c *Client) CreateClaim(ctx context.Context, cl *domain.Claim) (*domain.Claim, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateClaim")
	defer span.End()

	row := map[string]any{
		"incident_date":  cl.Date.String(),
		"description":    cl.Description,
		"claimed_amount": cl.ClaimedAmount,
		"status":         string(cl.Status),
		"policy_id":      cl.PolicyID,
	}

	body, err := c.doPost(ctx, "claims", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: err}
	}

	var rows []claimRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: fmt.Errorf("decode claim: %w", err)}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: fmt.Errorf("no result from claims insert")}
	}
	created := rows[0].toDomain()
	return &created, nil
}

// UpdateClaim replaces the mutable claim fields. Status and settlement
// columns are never part of this patch, and the filter only matches
// non-terminal rows, so a transition landing between the caller's read
// and this write cannot make the patch touch a settled or rejected
// claim. Zero rows back means the claim is gone or turned terminal; a
// follow-up read disambiguates.
func (c *Client) UpdateClaim(ctx context.Context, id int64, u *domain.ClaimUpdate) (*domain.Claim, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateClaim")
	defer span.End()

	patch := map[string]any{
		"incident_date":  u.Date.String(),
		"description":    u.Description,
		"claimed_amount": u.ClaimedAmount,
		"policy_id":      u.PolicyID,
	}

	path := fmt.Sprintf("claims?id=eq.%d&status=not.in.(%s,%s)", id, domain.ClaimSettled, domain.ClaimRejected)
	body, err := c.doPatch(ctx, path, patch)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: err}
	}
	if emptyRows(body) {
		current, err := c.GetClaim(ctx, id)
		if err != nil {
			return nil, err // NotFound or upstream failure
		}
		return nil, &domain.ErrInvalidTransition{From: current.Status, Action: "update"}
	}

	var rows []claimRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: fmt.Errorf("decode claim: %w", err)}
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

// UpdateClaimStatus writes status (and optionally settled_amount) only if
// the stored status still equals expected — a compare-and-swap expressed as
// a PostgREST filtered PATCH. Zero rows back means either the claim is gone
// or a concurrent transition changed it first; the caller disambiguates
// with a follow-up read.
func (c *Client) UpdateClaimStatus(ctx context.Context, id int64, expected, next domain.ClaimStatus, settledAmount *float64) (*domain.Claim, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateClaimStatus")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("claim.id", id),
		attribute.String("claim.status", string(next)),
	)

	patch := map[string]any{"status": string(next)}
	if settledAmount != nil {
		patch["settled_amount"] = *settledAmount
	}

	path := fmt.Sprintf("claims?id=eq.%d&status=eq.%s", id, expected)
	body, err := c.doPatch(ctx, path, patch)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: err}
	}

	if emptyRows(body) {
		current, err := c.GetClaim(ctx, id)
		if err != nil {
			return nil, err // NotFound or upstream failure
		}
		return nil, &domain.ErrInvalidTransition{From: current.Status, Action: "update status"}
	}

	var rows []claimRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/claims", Err: fmt.Errorf("decode claim: %w", err)}
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

func (c *Client) DeleteClaim(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteClaim")
	defer span.End()

	body, err := c.doDelete(ctx, fmt.Sprintf("claims?id=eq.%d", id))
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/claims", Err: err}
	}
	if emptyRows(body) {
		return &domain.ErrNotFound{Resource: "claim", ID: id}
	}
	return nil
}

func claimsToDomain(rows []claimRow) []domain.Claim {
	out := make([]domain.Claim, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

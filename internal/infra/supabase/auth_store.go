package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
)

// ============================================================
// Staff accounts — auth backing table (implements port.AuthStore)
// ============================================================

type staffRow struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"password_hash"`
	Roles        []string `json:"roles"`
}

func (r staffRow) toDomain() domain.StaffAccount {
	return domain.StaffAccount{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Roles:        r.Roles,
	}
}

// GetStaffByUsername returns nil, nil when no account matches.
func (c *Client) GetStaffByUsername(ctx context.Context, username string) (*domain.StaffAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetStaffByUsername")
	defer span.End()

	path := fmt.Sprintf("staff_accounts?username=eq.%s&limit=1", url.QueryEscape(username))
	rows, err := getRows[staffRow](ctx, c, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/staff", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	acct := rows[0].toDomain()
	return &acct, nil
}

func (c *Client) CreateStaff(ctx context.Context, account *domain.StaffAccount) (*domain.StaffAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateStaff")
	defer span.End()

	row := map[string]any{
		"username":      account.Username,
		"email":         account.Email,
		"password_hash": account.PasswordHash,
		"roles":         account.Roles,
	}

	body, err := c.doPost(ctx, "staff_accounts", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/staff", Err: err}
	}

	var rows []staffRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/staff", Err: fmt.Errorf("decode staff account: %w", err)}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase/staff", Err: fmt.Errorf("no result from staff_accounts insert")}
	}
	created := rows[0].toDomain()
	return &created, nil
}

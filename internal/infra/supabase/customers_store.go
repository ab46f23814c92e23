package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
)

// ============================================================
// Customers — CRUD via PostgREST (implements port.CustomerStore)
// ============================================================

// customerRow maps the customers table columns to the domain entity.
type customerRow struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

func (r customerRow) toDomain() domain.Customer {
	return domain.Customer{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Address:   r.Address,
		Phone:     r.Phone,
	}
}

func customerColumns(c *domain.Customer) map[string]any {
	return map[string]any{
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"email":      c.Email,
		"address":    c.Address,
		"phone":      c.Phone,
	}
}

func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCustomers")
	defer span.End()

	rows, err := getRows[customerRow](ctx, c, "customers?order=id.asc")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/customers", Err: err}
	}
	return customersToDomain(rows), nil
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCustomer")
	defer span.End()

	rows, err := getRows[customerRow](ctx, c, fmt.Sprintf("customers?id=eq.%d&limit=1", id))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/customers", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: id}
	}
	cust := rows[0].toDomain()
	return &cust, nil
}

func (c *Client) SearchCustomersByLastName(ctx context.Context, lastName string) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SearchCustomersByLastName")
	defer span.End()

	path := fmt.Sprintf("customers?last_name=ilike.%s&order=id.asc", url.QueryEscape("*"+lastName+"*"))
	rows, err := getRows[customerRow](ctx, c, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/customers", Err: err}
	}
	return customersToDomain(rows), nil
}

func (c *Client) CreateCustomer(ctx context.Context, cust *domain.Customer) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCustomer")
	defer span.End()

	body, err := c.doPost(ctx, "customers", customerColumns(cust))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/customers", Err: err}
	}

	var rows []customerRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/customers", Err: fmt.Errorf("decode customer: %w", err)}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase/customers", Err: fmt.Errorf("no result from customers insert")}
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, cust *domain.Customer) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateCustomer")
	defer span.End()

	body, err := c.doPatch(ctx, fmt.Sprintf("customers?id=eq.%d", id), customerColumns(cust))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/customers", Err: err}
	}
	if emptyRows(body) {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: id}
	}

	var rows []customerRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/customers", Err: fmt.Errorf("decode customer: %w", err)}
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCustomer")
	defer span.End()

	body, err := c.doDelete(ctx, fmt.Sprintf("customers?id=eq.%d", id))
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/customers", Err: err}
	}
	if emptyRows(body) {
		return &domain.ErrNotFound{Resource: "customer", ID: id}
	}
	return nil
}

func customersToDomain(rows []customerRow) []domain.Customer {
	out := make([]domain.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

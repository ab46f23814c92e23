package query_test

import (
	"testing"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/query"
)

var (
	customers = []domain.Customer{
		{ID: 1, FirstName: "Harriet", LastName: "Ford"},
		{ID: 2, FirstName: "Oscar", LastName: "Velez"},
	}
	policies = []domain.Policy{
		{ID: 10, Type: domain.PolicyAuto, CustomerID: 1},
		{ID: 11, Type: domain.PolicyHome, CustomerID: 1},
		{ID: 12, Type: domain.PolicyHealth, CustomerID: 2},
	}
)

func TestEnrichClaims_FullJoin(t *testing.T) {
	claims := []domain.Claim{
		{ID: 100, Description: "fender bender", Status: domain.ClaimPending, PolicyID: 10},
		{ID: 101, Description: "burst pipe", Status: domain.ClaimApproved, PolicyID: 11},
		{ID: 102, Description: "hospital stay", Status: domain.ClaimPending, PolicyID: 12},
	}

	out := query.EnrichClaims(claims, policies, customers)
	if len(out) != 3 {
		t.Fatalf("expected 3 enriched claims, got %d", len(out))
	}

	if out[0].PolicyType != "AUTO" || out[0].CustomerName != "Harriet Ford" {
		t.Errorf("claim 100: got type=%q name=%q", out[0].PolicyType, out[0].CustomerName)
	}
	if out[1].PolicyType != "HOME" || out[1].CustomerName != "Harriet Ford" {
		t.Errorf("claim 101: got type=%q name=%q", out[1].PolicyType, out[1].CustomerName)
	}
	if out[2].PolicyType != "HEALTH" || out[2].CustomerName != "Oscar Velez" {
		t.Errorf("claim 102: got type=%q name=%q", out[2].PolicyType, out[2].CustomerName)
	}
}

func TestEnrichClaims_PreservesInputOrder(t *testing.T) {
	claims := []domain.Claim{
		{ID: 102, PolicyID: 12},
		{ID: 100, PolicyID: 10},
		{ID: 101, PolicyID: 11},
	}

	out := query.EnrichClaims(claims, policies, customers)
	for i, want := range []int64{102, 100, 101} {
		if out[i].ID != want {
			t.Errorf("position %d: expected claim %d, got %d", i, want, out[i].ID)
		}
	}
}

func TestEnrichClaims_MissingPolicy(t *testing.T) {
	claims := []domain.Claim{
		{ID: 100, PolicyID: 999},
	}

	out := query.EnrichClaims(claims, policies, customers)
	if len(out) != 1 {
		t.Fatalf("expected 1 enriched claim, got %d", len(out))
	}
	if out[0].PolicyType != "" || out[0].CustomerName != "" {
		t.Errorf("expected empty derived fields, got type=%q name=%q", out[0].PolicyType, out[0].CustomerName)
	}
}

func TestEnrichClaims_MissingCustomer(t *testing.T) {
	orphanPolicies := []domain.Policy{
		{ID: 10, Type: domain.PolicyAuto, CustomerID: 999},
	}
	claims := []domain.Claim{{ID: 100, PolicyID: 10}}

	out := query.EnrichClaims(claims, orphanPolicies, customers)
	if out[0].PolicyType != "AUTO" {
		t.Errorf("expected policy type to resolve, got %q", out[0].PolicyType)
	}
	if out[0].CustomerName != "" {
		t.Errorf("expected empty customer name, got %q", out[0].CustomerName)
	}
}

func TestEnrichClaims_EmptyCollections(t *testing.T) {
	out := query.EnrichClaims(nil, nil, nil)
	if len(out) != 0 {
		t.Errorf("expected empty result, got %d entries", len(out))
	}
}

func TestJoinPolicyWithCustomer(t *testing.T) {
	out := query.JoinPolicyWithCustomer(policies[2], customers)
	if out.Customer == nil {
		t.Fatal("expected customer to resolve")
	}
	if out.Customer.ID != 2 {
		t.Errorf("expected customer 2, got %d", out.Customer.ID)
	}
	if out.Policy.ID != 12 {
		t.Errorf("expected policy 12, got %d", out.Policy.ID)
	}
}

func TestJoinPolicyWithCustomer_MissingCustomer(t *testing.T) {
	p := domain.Policy{ID: 20, Type: domain.PolicyAuto, CustomerID: 999}
	out := query.JoinPolicyWithCustomer(p, customers)
	if out.Customer != nil {
		t.Errorf("expected nil customer, got %+v", out.Customer)
	}
}

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/handler"
	"github.com/coverdesk/insurance-backoffice-go/internal/infra/cache"
	"github.com/coverdesk/insurance-backoffice-go/internal/infra/observability"
	"github.com/coverdesk/insurance-backoffice-go/internal/infra/resilience"
	"github.com/coverdesk/insurance-backoffice-go/internal/infra/supabase"
	"github.com/coverdesk/insurance-backoffice-go/internal/service"

	"go.uber.org/zap"
)

// fakePostgREST is an in-memory PostgREST stand-in: per-table row maps
// with just enough of the query dialect (eq and not.in filters,
// order=id.asc, limit=1) for the Supabase client's requests.
type fakePostgREST struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
	nextID int64
}

func newFakePostgREST() *fakePostgREST {
	return &fakePostgREST{
		tables: map[string][]map[string]any{
			"customers":      {},
			"policies":       {},
			"claims":         {},
			"staff_accounts": {},
		},
		nextID: 1,
	}
}

func (f *fakePostgREST) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
		rows, ok := f.tables[table]
		if !ok {
			http.NotFound(w, r)
			return
		}

		filters, limit := parseQuery(r.URL.Query())

		switch r.Method {
		case http.MethodGet:
			writeRows(w, http.StatusOK, matchRows(rows, filters, limit))

		case http.MethodPost:
			var row map[string]any
			if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			row["id"] = float64(f.nextID)
			f.nextID++
			f.tables[table] = append(rows, row)
			writeRows(w, http.StatusCreated, []map[string]any{row})

		case http.MethodPatch:
			var patch map[string]any
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			updated := []map[string]any{}
			for _, row := range rows {
				if rowMatches(row, filters) {
					for k, v := range patch {
						row[k] = v
					}
					updated = append(updated, row)
				}
			}
			writeRows(w, http.StatusOK, updated)

		case http.MethodDelete:
			kept := []map[string]any{}
			deleted := []map[string]any{}
			for _, row := range rows {
				if rowMatches(row, filters) {
					deleted = append(deleted, row)
				} else {
					kept = append(kept, row)
				}
			}
			f.tables[table] = kept
			writeRows(w, http.StatusOK, deleted)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// condition is one column filter: eq.VALUE or not.in.(A,B).
type condition struct {
	op   string
	args []string
}

func parseQuery(q map[string][]string) (map[string]condition, int) {
	filters := map[string]condition{}
	limit := 0
	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		val := vals[0]
		switch key {
		case "order", "select":
			// ordering below is always by id
		case "limit":
			fmt.Sscanf(val, "%d", &limit)
		default:
			if v, ok := strings.CutPrefix(val, "eq."); ok {
				filters[key] = condition{op: "eq", args: []string{v}}
			} else if v, ok := strings.CutPrefix(val, "not.in.("); ok {
				filters[key] = condition{op: "not.in", args: strings.Split(strings.TrimSuffix(v, ")"), ",")}
			}
		}
	}
	return filters, limit
}

func matchRows(rows []map[string]any, filters map[string]condition, limit int) []map[string]any {
	out := []map[string]any{}
	for _, row := range rows {
		if rowMatches(row, filters) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["id"].(float64) < out[j]["id"].(float64)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func rowMatches(row map[string]any, filters map[string]condition) bool {
	for col, cond := range filters {
		got := fmt.Sprint(row[col])
		switch cond.op {
		case "eq":
			if got != cond.args[0] {
				return false
			}
		case "not.in":
			for _, excluded := range cond.args {
				if got == excluded {
					return false
				}
			}
		}
	}
	return true
}

func writeRows(w http.ResponseWriter, status int, rows []map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(rows)
}

// --- Fixtures ---

func newBackoffice(t *testing.T) (http.Handler, *fakePostgREST) {
	t.Helper()

	fake := newFakePostgREST()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("integration")
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	store := supabase.NewClient(httpClient, server.URL, "anon", "service-role", cb, cfg, logger)

	svc := service.NewBackofficeService(
		store,
		cache.New[[]domain.Customer](time.Minute),
		cache.New[[]domain.Policy](time.Minute),
		metrics,
		logger,
	)
	router := handler.NewRouter(svc, nil, metrics, logger, handler.Options{Pinger: store})
	return router, fake
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return out
}

// --- Tests ---

// TestIntegration_ClaimLifecycle drives the full flow through the real
// router, services and Supabase client against the fake PostgREST:
// register a customer, a policy, a claim, then approve and settle it.
func TestIntegration_ClaimLifecycle(t *testing.T) {
	router, _ := newBackoffice(t)

	rec := do(t, router, http.MethodPost, "/v1/customers", map[string]any{
		"firstName": "Harriet", "lastName": "Ford",
		"email": "harriet.ford@example.com", "address": "12 Elm Street", "phone": "+1-555-0100",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create customer: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	customer := decode[domain.Customer](t, rec)

	rec = do(t, router, http.MethodPost, "/v1/policies", map[string]any{
		"type": "AUTO", "startDate": "2024-01-01", "endDate": "2025-01-01",
		"coverageAmount": 50000, "customerId": customer.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create policy: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	policy := decode[domain.Policy](t, rec)

	rec = do(t, router, http.MethodPost, "/v1/claims", map[string]any{
		"date": "2024-03-15", "description": "Rear-end collision on I-80",
		"claimedAmount": 5000, "policyId": policy.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create claim: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	claim := decode[domain.Claim](t, rec)
	if claim.Status != domain.ClaimPending {
		t.Fatalf("expected new claim PENDING, got %s", claim.Status)
	}

	// Enriched list resolves policy type and customer name.
	rec = do(t, router, http.MethodGet, "/v1/claims", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list claims: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	enriched := decode[[]domain.EnrichedClaim](t, rec)
	if len(enriched) != 1 {
		t.Fatalf("expected 1 enriched claim, got %d", len(enriched))
	}
	if enriched[0].PolicyType != "AUTO" || enriched[0].CustomerName != "Harriet Ford" {
		t.Errorf("expected enriched fields, got %+v", enriched[0])
	}

	// Approve, then settle below the claimed amount.
	rec = do(t, router, http.MethodPatch, fmt.Sprintf("/v1/claims/%d/status", claim.ID),
		map[string]any{"status": "APPROVED"})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodPatch, fmt.Sprintf("/v1/claims/%d/status", claim.ID),
		map[string]any{"status": "SETTLED", "settledAmount": 4500})
	if rec.Code != http.StatusOK {
		t.Fatalf("settle: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	settled := decode[domain.Claim](t, rec)
	if settled.Status != domain.ClaimSettled {
		t.Errorf("expected SETTLED, got %s", settled.Status)
	}
	if settled.SettledAmount == nil || *settled.SettledAmount != 4500 {
		t.Errorf("expected settled amount 4500, got %v", settled.SettledAmount)
	}

	// A second settle must be refused without touching the record.
	rec = do(t, router, http.MethodPatch, fmt.Sprintf("/v1/claims/%d/status", claim.ID),
		map[string]any{"status": "SETTLED", "settledAmount": 4500})
	if rec.Code != http.StatusConflict {
		t.Errorf("second settle: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/v1/claims/%d", claim.ID), nil)
	after := decode[domain.Claim](t, rec)
	if after.Status != domain.ClaimSettled || *after.SettledAmount != 4500 {
		t.Errorf("claim changed by refused transition: %+v", after)
	}
}

// TestIntegration_ConcurrentWriterWins rejects the claim behind the API's
// back; a subsequent approve must come back as a conflict and leave the
// stored status alone.
func TestIntegration_ConcurrentWriterWins(t *testing.T) {
	router, fake := newBackoffice(t)

	rec := do(t, router, http.MethodPost, "/v1/customers", map[string]any{
		"firstName": "Oscar", "lastName": "Velez",
		"email": "oscar.velez@example.com", "address": "9 Oak Avenue", "phone": "+1-555-0101",
	})
	customer := decode[domain.Customer](t, rec)

	rec = do(t, router, http.MethodPost, "/v1/policies", map[string]any{
		"type": "HOME", "startDate": "2024-01-01", "endDate": "2025-01-01",
		"coverageAmount": 200000, "customerId": customer.ID,
	})
	policy := decode[domain.Policy](t, rec)

	rec = do(t, router, http.MethodPost, "/v1/claims", map[string]any{
		"date": "2024-06-02", "description": "Burst pipe in basement",
		"claimedAmount": 12000, "policyId": policy.ID,
	})
	claim := decode[domain.Claim](t, rec)

	// Simulate a concurrent writer rejecting the claim underneath us.
	fake.mu.Lock()
	for _, row := range fake.tables["claims"] {
		if row["id"].(float64) == float64(claim.ID) {
			row["status"] = "REJECTED"
		}
	}
	fake.mu.Unlock()

	rec = do(t, router, http.MethodPatch, fmt.Sprintf("/v1/claims/%d/status", claim.ID),
		map[string]any{"status": "APPROVED"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on raced approve, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/v1/claims/%d", claim.ID), nil)
	after := decode[domain.Claim](t, rec)
	if after.Status != domain.ClaimRejected {
		t.Errorf("expected REJECTED to stand, got %s", after.Status)
	}
}

// TestIntegration_UpdateLosesToSettlement writes a field update against a
// claim that settled after the caller last read it. The store's filtered
// patch must refuse the write so claimedAmount can never drop below the
// recorded settlement.
func TestIntegration_UpdateLosesToSettlement(t *testing.T) {
	fake := newFakePostgREST()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	cb := resilience.NewCircuitBreaker("integration-update")
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	store := supabase.NewClient(&http.Client{Timeout: 5 * time.Second}, server.URL, "anon", "service-role", cb, cfg, zap.NewNop())

	fake.mu.Lock()
	fake.tables["claims"] = append(fake.tables["claims"], map[string]any{
		"id": float64(1), "incident_date": "2024-06-02", "description": "Burst pipe in basement",
		"claimed_amount": float64(1000), "settled_amount": float64(900), "status": "SETTLED", "policy_id": float64(1),
	})
	fake.nextID = 2
	fake.mu.Unlock()

	date, err := domain.ParseDate("2024-06-03")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	_, err = store.UpdateClaim(context.Background(), 1, &domain.ClaimUpdate{
		Date: date, Description: "Burst pipe, revised estimate", ClaimedAmount: 500, PolicyID: 1,
	})
	var conflict *domain.ErrInvalidTransition
	if !errors.As(err, &conflict) {
		t.Fatalf("expected invalid transition on settled claim, got %v", err)
	}
	if conflict.From != domain.ClaimSettled {
		t.Errorf("expected conflict from SETTLED, got %s", conflict.From)
	}

	after, err := store.GetClaim(context.Background(), 1)
	if err != nil {
		t.Fatalf("re-read claim: %v", err)
	}
	if after.ClaimedAmount != 1000 || after.SettledAmount == nil || *after.SettledAmount != 900 {
		t.Errorf("refused update changed the row: %+v", after)
	}
}

func TestIntegration_Healthz(t *testing.T) {
	router, _ := newBackoffice(t)

	rec := do(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	health := decode[domain.HealthStatus](t, rec)
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %+v", health)
	}
}

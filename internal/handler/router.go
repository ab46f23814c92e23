package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/infra/observability"
	"github.com/coverdesk/insurance-backoffice-go/internal/port"
	"github.com/coverdesk/insurance-backoffice-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Options configures optional router behavior.
type Options struct {
	// Pinger backs /healthz; nil reports the store as unconfigured.
	Pinger port.Pinger
	// DevTools enables the /v1/dev/* seeding routes.
	DevTools bool
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract of the back-office frontend.
func NewRouter(svc *service.BackofficeService, authSvc *service.AuthService, metrics *observability.Metrics, logger *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(requestDurationMiddleware(metrics))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(opts.Pinger, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Public: authentication
		r.Route("/auth", func(r chi.Router) {
			if authSvc == nil {
				r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeError(w, http.StatusServiceUnavailable, "auth service unavailable: store not configured")
				}))
				return
			}
			r.Post("/signin", signInHandler(authSvc, logger))
			r.Post("/signup", signUpHandler(authSvc, logger))
		})

		// Everything below requires a valid staff token.
		r.Group(func(r chi.Router) {
			if authSvc != nil {
				r.Use(JWTAuthMiddleware(authSvc, logger))
			}

			// Customers
			r.Get("/customers", listCustomersHandler(svc, logger))
			r.Get("/customers/search", searchCustomersHandler(svc, logger))
			r.Get("/customers/{id}", getCustomerHandler(svc, logger))
			r.Post("/customers", createCustomerHandler(svc, logger))
			r.Put("/customers/{id}", updateCustomerHandler(svc, logger))

			// Policies
			r.Get("/policies", listPoliciesHandler(svc, logger))
			r.Get("/policies/all-with-customers", listPoliciesWithCustomersHandler(svc, logger))
			r.Get("/policies/with-customer/{id}", getPolicyWithCustomerHandler(svc, logger))
			r.Get("/policies/customer/{customerId}", listPoliciesByCustomerHandler(svc, logger))
			r.Get("/policies/{id}", getPolicyHandler(svc, logger))
			r.Post("/policies", createPolicyHandler(svc, logger))
			r.Put("/policies/{id}", updatePolicyHandler(svc, logger))

			// Claims
			r.Get("/claims", listClaimsHandler(svc, logger))
			r.Get("/claims/policy/{policyId}", listClaimsByPolicyHandler(svc, logger))
			r.Get("/claims/{id}", getClaimHandler(svc, logger))
			r.Post("/claims", createClaimHandler(svc, logger))
			r.Put("/claims/{id}", updateClaimHandler(svc, logger))
			r.Patch("/claims/{id}/status", updateClaimStatusHandler(svc, logger))

			// Deletes are ADMIN-only.
			r.Group(func(r chi.Router) {
				if authSvc != nil {
					r.Use(RequireRole(domain.RoleAdmin, logger))
				}
				r.Delete("/customers/{id}", deleteCustomerHandler(svc, logger))
				r.Delete("/policies/{id}", deletePolicyHandler(svc, logger))
				r.Delete("/claims/{id}", deleteClaimHandler(svc, logger))
			})

			// Lifecycle metrics snapshot
			r.Get("/metrics/claims", claimsMetricsHandler(metrics, logger))

			// Dev tools (testing helpers)
			if opts.DevTools {
				r.Post("/dev/seed", devSeedHandler(svc, logger))
			}
		})
	})

	return r
}

// requestDurationMiddleware records per-route latency under the matched
// chi pattern, so /v1/claims/17 and /v1/claims/42 share a series.
func requestDurationMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			metrics.RecordRequestDuration(r.Method+" "+pattern, time.Since(start))
		})
	}
}

func healthzHandler(pinger port.Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := domain.HealthStatus{Status: "healthy"}

		if pinger == nil {
			status.Status = "degraded"
			status.Services = append(status.Services, domain.ServiceHealth{
				Name:   "store",
				Status: "unconfigured",
			})
			writeJSON(w, http.StatusOK, status)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		start := time.Now()
		storeStatus := "healthy"
		if err := pinger.Ping(ctx); err != nil {
			logger.Warn("healthz: store ping failed", zap.Error(err))
			storeStatus = "unhealthy"
			status.Status = "degraded"
		}
		status.Services = append(status.Services, domain.ServiceHealth{
			Name:      "store",
			Status:    storeStatus,
			LatencyMs: time.Since(start).Milliseconds(),
		})

		writeJSON(w, http.StatusOK, status)
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func claimsMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.ClaimsSnapshot())
	}
}

func devSeedHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /dev/seed")
		defer span.End()

		result, err := svc.SeedFixtures(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

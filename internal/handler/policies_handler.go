package handler

import (
	"net/http"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Policies Handlers
// ============================================================

func listPoliciesHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /policies")
		defer span.End()

		policies, err := svc.ListPolicies(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, policies)
	}
}

func getPolicyHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /policies/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		policy, err := svc.GetPolicy(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, policy)
	}
}

func getPolicyWithCustomerHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /policies/with-customer/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		joined, err := svc.GetPolicyWithCustomer(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, joined)
	}
}

func listPoliciesWithCustomersHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /policies/all-with-customers")
		defer span.End()

		joined, err := svc.ListPoliciesWithCustomers(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, joined)
	}
}

func listPoliciesByCustomerHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /policies/customer/{customerId}")
		defer span.End()

		customerID, err := idParam(r, "customerId")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		policies, err := svc.ListPoliciesByCustomer(ctx, customerID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, policies)
	}
}

func createPolicyHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /policies")
		defer span.End()

		var policy domain.Policy
		if err := decodeBody(r, &policy); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := svc.CreatePolicy(ctx, &policy)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updatePolicyHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /policies/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var policy domain.Policy
		if err := decodeBody(r, &policy); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		updated, err := svc.UpdatePolicy(ctx, id, &policy)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deletePolicyHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /policies/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := svc.DeletePolicy(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

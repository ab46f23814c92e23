package handler

import (
	"net/http"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/lifecycle"
	"github.com/coverdesk/insurance-backoffice-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Claims Handlers
// ============================================================

// listClaimsHandler serves the enriched claims list view. Optional query
// params: status (exact status or ALL) and q (search term).
func listClaimsHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /claims")
		defer span.End()

		statusFilter := r.URL.Query().Get("status")
		searchTerm := r.URL.Query().Get("q")

		claims, err := svc.ListEnrichedClaims(ctx, statusFilter, searchTerm)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, claims)
	}
}

func getClaimHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /claims/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		claim, err := svc.GetClaim(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, claim)
	}
}

func listClaimsByPolicyHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /claims/policy/{policyId}")
		defer span.End()

		policyID, err := idParam(r, "policyId")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		claims, err := svc.ListClaimsByPolicy(ctx, policyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, claims)
	}
}

func createClaimHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /claims")
		defer span.End()

		var claim domain.Claim
		if err := decodeBody(r, &claim); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := svc.CreateClaim(ctx, &claim)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateClaimHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /claims/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var update domain.ClaimUpdate
		if err := decodeBody(r, &update); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		updated, err := svc.UpdateClaim(ctx, id, &update)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// claimStatusRequest is the body for PATCH /claims/{id}/status: the target
// status plus, for settlements, the agreed amount.
type claimStatusRequest struct {
	Status        domain.ClaimStatus `json:"status"`
	SettledAmount *float64           `json:"settledAmount,omitempty"`
}

func updateClaimStatusHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /claims/{id}/status")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var req claimStatusRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		action, ok := lifecycle.ActionForTarget(req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown target status: "+string(req.Status))
			return
		}

		claim, err := svc.Transition(ctx, id, action, req.SettledAmount)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, claim)
	}
}

func deleteClaimHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /claims/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := svc.DeleteClaim(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

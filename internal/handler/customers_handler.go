package handler

import (
	"net/http"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Customers Handlers
// ============================================================

func listCustomersHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /customers")
		defer span.End()

		if lastName := r.URL.Query().Get("lastName"); lastName != "" {
			customers, err := svc.SearchCustomers(ctx, lastName)
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			writeJSON(w, http.StatusOK, customers)
			return
		}

		customers, err := svc.ListCustomers(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, customers)
	}
}

func searchCustomersHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /customers/search")
		defer span.End()

		customers, err := svc.SearchCustomers(ctx, r.URL.Query().Get("lastName"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, customers)
	}
}

func getCustomerHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /customers/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		customer, err := svc.GetCustomer(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

func createCustomerHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /customers")
		defer span.End()

		var customer domain.Customer
		if err := decodeBody(r, &customer); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := svc.CreateCustomer(ctx, &customer)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateCustomerHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /customers/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var customer domain.Customer
		if err := decodeBody(r, &customer); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		updated, err := svc.UpdateCustomer(ctx, id, &customer)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteCustomerHandler(svc *service.BackofficeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /customers/{id}")
		defer span.End()

		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := svc.DeleteCustomer(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

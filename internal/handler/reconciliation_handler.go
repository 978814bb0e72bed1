package handler

import (
	"net/http"
	"time"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/service"
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

type ReconciliationHandler struct {
	reconciliationService service.ReconciliationServiceInterface
	logger                *logger.Logger
}

func NewReconciliationHandler(reconciliationService service.ReconciliationServiceInterface, logger *logger.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		logger:                logger.WithComponent("reconciliation_handler"),
	}
}

// GetDiscrepancies handles GET /api/v1/discrepancies
func (h *ReconciliationHandler) GetDiscrepancies(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	discrepancies, err := h.reconciliationService.Detect()
	if err != nil {
		h.logger.Error("Failed to detect discrepancies", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to detect discrepancies")
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, discrepancies)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

type resolveRequest struct {
	Strategy string `json:"strategy"`
}

// Resolve handles POST /api/v1/discrepancies/{clientId}/resolve
func (h *ReconciliationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	clientID := r.PathValue("clientId")
	if clientID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Client ID is required")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	var req resolveRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid resolve body", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	result, err := h.reconciliationService.Resolve(clientID, req.Strategy)
	if err != nil {
		h.logger.Error("Resolution failed on store error", "client_id", clientID, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to resolve discrepancy")
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	statusCode := http.StatusOK
	if !result.Success {
		statusCode = statusFromError(result.Error)
	}
	writeJSONResponse(w, statusCode, result)
	reqCtx.StatusCode = statusCode
	h.logger.LogResponse(reqCtx)
}

type resolveBatchRequest struct {
	Items []models.BatchItem `json:"items"`
}

// ResolveBatch handles POST /api/v1/discrepancies/resolve-batch
func (h *ReconciliationHandler) ResolveBatch(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	var req resolveBatchRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid batch resolve body", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}
	if len(req.Items) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "At least one batch item is required")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	batch, err := h.reconciliationService.ResolveBatch(req.Items)
	if err != nil {
		h.logger.Error("Batch resolution failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to resolve batch")
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, batch)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

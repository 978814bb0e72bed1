package handler

import (
	"net/http"
	"time"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/service"
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

type ValidationHandler struct {
	validationService service.ValidationServiceInterface
	logger            *logger.Logger
}

func NewValidationHandler(validationService service.ValidationServiceInterface, logger *logger.Logger) *ValidationHandler {
	return &ValidationHandler{
		validationService: validationService,
		logger:            logger.WithComponent("validation_handler"),
	}
}

// GetIssues handles GET /api/v1/integrity/issues
func (h *ValidationHandler) GetIssues(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	issues, err := h.validationService.ScanAll()
	if err != nil {
		h.logger.Error("Failed to scan clients", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to scan clients")
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, issues)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

// GetClientIssues handles GET /api/v1/integrity/issues/{clientId}
func (h *ValidationHandler) GetClientIssues(w http.ResponseWriter, r *http.Request) {
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

	issues, err := h.validationService.ScanClient(clientID)
	if err != nil {
		h.logger.Warn("Failed to scan client", "client_id", clientID, "error", err)
		statusCode := statusFromError(err.Error())
		if statusCode == http.StatusBadRequest {
			statusCode = http.StatusInternalServerError
		}
		writeErrorResponse(w, statusCode, err.Error())
		reqCtx.StatusCode = statusCode
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, issues)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

// ApplyFix handles POST /api/v1/integrity/fixes/{clientId}
func (h *ValidationHandler) ApplyFix(w http.ResponseWriter, r *http.Request) {
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

	var cmd models.FixCommand
	if err := parseRequestBody(r, &cmd); err != nil {
		h.logger.Warn("Invalid fix command body", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	result, err := h.validationService.ApplyFix(clientID, cmd)
	if err != nil {
		h.logger.Error("Fix failed on store error", "client_id", clientID, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to apply fix")
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

package handler

import (
	"net/http"
	"time"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/service"
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

type MigrationHandler struct {
	migrationService service.MigrationServiceInterface
	logger           *logger.Logger
}

func NewMigrationHandler(migrationService service.MigrationServiceInterface, logger *logger.Logger) *MigrationHandler {
	return &MigrationHandler{
		migrationService: migrationService,
		logger:           logger.WithComponent("migration_handler"),
	}
}

// GetCandidates handles GET /api/v1/migration/candidates
func (h *MigrationHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	candidates, err := h.migrationService.BuildCandidates()
	if err != nil {
		h.logger.Error("Failed to build migration candidates", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to build migration candidates")
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, candidates)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

// Migrate handles POST /api/v1/migration/{clientId}
func (h *MigrationHandler) Migrate(w http.ResponseWriter, r *http.Request) {
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

	var opts models.MigrateOptions
	if r.ContentLength > 0 {
		if err := parseRequestBody(r, &opts); err != nil {
			h.logger.Warn("Invalid migrate body", "error", err)
			writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
			reqCtx.StatusCode = http.StatusBadRequest
			h.logger.LogResponse(reqCtx)
			return
		}
	}

	result, err := h.migrationService.Migrate(clientID, opts)
	if err != nil {
		h.logger.Error("Migration failed on store error", "client_id", clientID, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to migrate client")
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

type migrateBatchRequest struct {
	Items []models.BatchItem `json:"items"`
}

// MigrateBatch handles POST /api/v1/migration/batch
func (h *MigrationHandler) MigrateBatch(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	var req migrateBatchRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid batch migrate body", "error", err)
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

	batch, err := h.migrationService.MigrateBatch(req.Items)
	if err != nil {
		h.logger.Error("Batch migration failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to migrate batch")
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, batch)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

package handler

import (
	"net/http"

	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/database"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

type HealthHandler struct {
	db     *database.DB
	logger *logger.Logger
}

func NewHealthHandler(db *database.DB, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger.WithComponent("health_handler"),
	}
}

// Check reports service liveness and database reachability.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(); err != nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

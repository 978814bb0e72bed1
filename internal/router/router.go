package router

import (
	"net/http"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/handler"
)

// NewRouter wires all HTTP endpoints onto a ServeMux
func NewRouter(
	validationHandler *handler.ValidationHandler,
	reconciliationHandler *handler.ReconciliationHandler,
	migrationHandler *handler.MigrationHandler,
	healthHandler *handler.HealthHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Integrity validation
	mux.HandleFunc("GET /api/v1/integrity/issues", validationHandler.GetIssues)
	mux.HandleFunc("GET /api/v1/integrity/issues/{clientId}", validationHandler.GetClientIssues)
	mux.HandleFunc("POST /api/v1/integrity/fixes/{clientId}", validationHandler.ApplyFix)

	// Representation reconciliation
	mux.HandleFunc("GET /api/v1/discrepancies", reconciliationHandler.GetDiscrepancies)
	mux.HandleFunc("POST /api/v1/discrepancies/resolve-batch", reconciliationHandler.ResolveBatch)
	mux.HandleFunc("POST /api/v1/discrepancies/{clientId}/resolve", reconciliationHandler.Resolve)

	// Legacy order migration
	mux.HandleFunc("GET /api/v1/migration/candidates", migrationHandler.GetCandidates)
	mux.HandleFunc("POST /api/v1/migration/batch", migrationHandler.MigrateBatch)
	mux.HandleFunc("POST /api/v1/migration/{clientId}", migrationHandler.Migrate)

	mux.HandleFunc("GET /health", healthHandler.Check)

	return mux
}

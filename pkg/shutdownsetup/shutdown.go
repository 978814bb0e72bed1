package shutdownsetup

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

// ShutdownTimeout bounds how long in-flight requests are allowed to finish
const ShutdownTimeout = 10 * time.Second

// SetupGracefulShutdown blocks until SIGINT or SIGTERM, then drains the server
func SetupGracefulShutdown(server *http.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed, forcing close", "error", err)
		if err := server.Close(); err != nil {
			log.Error("Server close failed", "error", err)
		}
		return
	}

	log.Info("Server stopped gracefully")
}

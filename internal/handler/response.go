package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, errorResponse{Error: message})
}

func parseRequestBody(r *http.Request, target any) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}

// statusFromError maps business error text to an HTTP status. The service
// layer reports failures as error strings, not typed errors.
func statusFromError(message string) int {
	if strings.Contains(message, "not found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lostaf-io/lostaf/internal/domain"
	"github.com/lostaf-io/lostaf/internal/logger"
)

// errorCode is the machine-readable code of an error response.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeInvalidImage     errorCode = "invalid_image"
	codeUnauthorized     errorCode = "unauthorized"
	codeForbidden        errorCode = "forbidden"
	codeNotFound         errorCode = "not_found"
	codeAlreadyExists    errorCode = "already_exists"
	codeEmbeddingError   errorCode = "embedding_provider_error"
	codeStoreUnavailable errorCode = "store_unavailable"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
	sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
	sentinelHandler(domain.ErrInvalidImage, http.StatusBadRequest, codeInvalidImage),
	sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
	sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
	sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
	sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingError),
	sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
}

// clientMessages are the only error texts that reach clients.
var clientMessages = map[error]string{
	domain.ErrNotFound:               "Item not found",
	domain.ErrAlreadyExists:          "Already exists",
	domain.ErrInvalidImage:           "Invalid image file",
	domain.ErrUnauthorized:           "Not authenticated",
	domain.ErrForbidden:              "Not authorized",
	domain.ErrEmbeddingProviderError: "Embedding provider error",
	domain.ErrStoreUnavailable:       "Storage unavailable",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Validation errors carry their own text since it only describes user input.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	for sentinel, msg := range clientMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

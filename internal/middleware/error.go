package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"material-api/internal/response"

	"go.uber.org/zap"
)

const internalErrorMessage = "An unexpected server error occurred"

// RespondWithError sends a failure envelope with the given status
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	response.Write(w, response.Failure(statusCode, message))
}

// RespondWithValidationErrors sends a 400 envelope listing the rejected fields
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	parts := make([]string, 0, len(errors))
	for _, e := range errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}

	message := "validation failed"
	if len(parts) > 0 {
		message = message + ": " + strings.Join(parts, ", ")
	}

	RespondWithError(w, http.StatusBadRequest, message)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 envelopes
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, internalErrorMessage)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

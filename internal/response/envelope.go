package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the uniform body returned by every endpoint
type Envelope struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	StatusCode int        `json:"status_code"`
	Error      *ErrorBody `json:"error"`
}

// ErrorBody carries the failure code and a user-facing message
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Normalize builds the envelope and the HTTP status that goes with it.
// Failures default to 400 when no code is given, successful POSTs map to 201
// and everything else to 200. The envelope's status_code always equals the
// returned status.
func Normalize(success bool, data any, errCode int, errMessage string, method string) (Envelope, int) {
	status := http.StatusOK

	switch {
	case !success:
		status = errCode
		if status == 0 {
			status = http.StatusBadRequest
		}
	case method == http.MethodPost:
		status = http.StatusCreated
	}

	env := Envelope{
		Success:    success,
		Data:       data,
		StatusCode: status,
	}
	if !success {
		env.Data = nil
		env.Error = &ErrorBody{Code: status, Message: errMessage}
	}

	return env, status
}

// Success is shorthand for a successful envelope
func Success(data any, method string) Envelope {
	env, _ := Normalize(true, data, 0, "", method)
	return env
}

// Failure is shorthand for a failed envelope
func Failure(code int, message string) Envelope {
	env, _ := Normalize(false, nil, code, message, "")
	return env
}

// Write sends the envelope as the body with its status code as the HTTP status.
// An envelope that cannot be encoded is replaced by a 500 failure envelope.
func Write(w http.ResponseWriter, env Envelope) {
	body, env := encode(env)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	w.Write(body)
}

const encodeFailureMessage = "An unexpected server error occurred"

func encode(env Envelope) ([]byte, Envelope) {
	body, err := json.Marshal(env)
	if err == nil {
		return append(body, '\n'), env
	}

	zap.L().Error("Failed to encode response envelope",
		zap.Int("status_code", env.StatusCode),
		zap.Error(err),
	)

	fallback := Failure(http.StatusInternalServerError, encodeFailureMessage)
	body, _ = json.Marshal(fallback)
	return append(body, '\n'), fallback
}

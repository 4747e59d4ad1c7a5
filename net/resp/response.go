package resp

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/ncobase/esdsl/ecode"
)

// Business codes carried in failure bodies
const (
	CodeOK            = 0
	CodeRequestErr    = 40000
	CodeInvalid       = 40001
	CodeNotConfigured = 50301
	CodeUnavailable   = 50302
	CodeEngine        = 50201
	CodeServerErr     = 50000
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"status,omitempty"`  // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Error details
	Data    any    `json:"data,omitempty"`    // Response data
}

// Success handles success responses.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode handles success responses with custom status code. A
// string payload becomes the message.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}
	if payload == nil {
		payload = map[string]any{"message": "ok"}
	} else if s, ok := payload.(string); ok {
		payload = map[string]any{"message": s}
	}
	writeJSON(w, statusCode, payload)
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = InternalServer(http.StatusText(http.StatusInternalServerError))
	}
	status := r.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	code := r.Code
	if code == 0 {
		code = CodeRequestErr
	}
	writeJSON(w, status, &Exception{Code: code, Message: r.Message, Errors: r.Errors})
}

// BadRequest indicates a bad request.
func BadRequest(message string, errs ...any) *Exception {
	return newException(http.StatusBadRequest, CodeRequestErr, message, errs...)
}

// Unavailable indicates the engine cannot be reached or the breaker is open.
func Unavailable(message string, errs ...any) *Exception {
	return newException(http.StatusServiceUnavailable, CodeUnavailable, message, errs...)
}

// InternalServer indicates a server error.
func InternalServer(message string, errs ...any) *Exception {
	return newException(http.StatusInternalServerError, CodeServerErr, message, errs...)
}

// FromError maps an ecode error kind to an exception
func FromError(err error) *Exception {
	if err == nil {
		return nil
	}
	switch ecode.KindOf(err) {
	case ecode.InvalidArgument:
		return newException(http.StatusBadRequest, CodeInvalid, err.Error())
	case ecode.NotConfigured:
		return newException(http.StatusServiceUnavailable, CodeNotConfigured, err.Error())
	case ecode.Transport:
		return newException(http.StatusBadGateway, CodeEngine, err.Error())
	default:
		return InternalServer(err.Error())
	}
}

func newException(status, code int, message string, errs ...any) *Exception {
	e := &Exception{Status: status, Code: code, Message: message}
	if len(errs) > 0 {
		e.Errors = errs[0]
	}
	return e
}

// writeJSON writes the header and the encoded body.
func writeJSON(w http.ResponseWriter, code int, res any) {
	data, err := json.Marshal(res)
	if err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/kbukum/chatrelay/logger"
)

// ErrorResponse is the JSON envelope returned for every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients. Instance is the
// request path and RequestID matches the X-Request-Id response header, so a
// client report can be traced back to the server log line.
type ErrorBody struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Retryable bool                   `json:"retryable"`
	Instance  string                 `json:"instance,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse without request context.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}

// ResponseFor builds the envelope for a failure while serving r.
func (e *AppError) ResponseFor(r *http.Request) ErrorResponse {
	resp := e.ToResponse()
	if r == nil {
		return resp
	}
	if r.URL != nil {
		resp.Error.Instance = r.URL.Path
	}
	resp.Error.RequestID = logger.RequestIDFromContext(r.Context())
	return resp
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

package errors

// ErrorResponse is the JSON shape used when an error is reported as a document.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
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

// ToResponse converts any error to an ErrorResponse. Errors that are not an
// AppError are reported as INTERNAL_ERROR.
func ToResponse(err error) ErrorResponse {
	if appErr, ok := AsAppError(err); ok {
		return appErr.ToResponse()
	}
	return Internal(err).ToResponse()
}

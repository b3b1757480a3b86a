package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status code observed from the service, 0 when none.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithStatus records the HTTP status observed from the service.
func (e *AppError) WithStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Workflow error constructors ---

// UnsupportedFileType creates an error for a file whose MIME type is not accepted.
func UnsupportedFileType(mimeType string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedFileType, Message: fmt.Sprintf("Unsupported file type %q.", mimeType),
		Details: map[string]any{"mime_type": mimeType},
	}
}

// FileTooLarge creates an error for a file over the size limit.
func FileTooLarge(size, limit int64) *AppError {
	return &AppError{
		Code: ErrCodeFileTooLarge, Message: fmt.Sprintf("File is %d bytes, the limit is %d bytes.", size, limit),
		Details: map[string]any{"size_bytes": size, "limit_bytes": limit},
	}
}

// UploadFailed creates an error for a rejected or failed upload request.
func UploadFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeUploadFailed, Message: "Upload failed.",
		Cause: cause,
	}
}

// StatusFetchFailed creates an error for a single failed status poll.
func StatusFetchFailed(jobID string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStatusFetchFailed, Message: "Failed to get transcription status.",
		Retryable: true, Details: map[string]any{"job_id": jobID}, Cause: cause,
	}
}

// JobFailed creates an error carrying the message the service reported for a failed job.
func JobFailed(jobID, message string) *AppError {
	return &AppError{
		Code: ErrCodeJobError, Message: message,
		Details: map[string]any{"job_id": jobID},
	}
}

// CancelFailed creates an error for a cancel request the service did not accept.
func CancelFailed(jobID string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCancelFailed, Message: "Failed to cancel transcription.",
		Details: map[string]any{"job_id": jobID}, Cause: cause,
	}
}

// --- Generic constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// Internal creates a new AppError for an unexpected error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// --- Inspection helpers ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsRetryable reports whether err is an AppError marked retryable.
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable
}

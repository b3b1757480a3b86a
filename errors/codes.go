package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pre-flight errors. These are raised before any network call is made.
const (
	// ErrCodeUnsupportedFileType indicates the file's MIME type is not an accepted audio type.
	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	// ErrCodeFileTooLarge indicates the file exceeds the upload size limit.
	ErrCodeFileTooLarge ErrorCode = "FILE_TOO_LARGE"
)

// Remote workflow errors.
const (
	// ErrCodeUploadFailed indicates the service rejected or never received the upload.
	ErrCodeUploadFailed ErrorCode = "UPLOAD_FAILED"
	// ErrCodeStatusFetchFailed indicates a single status poll failed.
	ErrCodeStatusFetchFailed ErrorCode = "STATUS_FETCH_FAILED"
	// ErrCodeJobError indicates the service reported the job as failed.
	ErrCodeJobError ErrorCode = "JOB_ERROR"
	// ErrCodeCancelFailed indicates the remote cancel request was not accepted.
	ErrCodeCancelFailed ErrorCode = "CANCEL_FAILED"
)

// Generic errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStatusFetchFailed: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

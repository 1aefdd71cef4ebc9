package apperrors

import (
	"net/http"
)

// Factories and predefined variables for the marketplace domain errors.
// Factories build errors around repository failures or per-call messages,
// variables cover the frequent static cases.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and
// friends) into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation signals an action not permitted in the entity's
// current state: applying to a closed job, approving a submission that
// is not submitted, reviewing before completion.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrPermissionDenied signals that the caller lacks the role or the
// ownership required for the action.
func ErrPermissionDenied(domain, message string) *AppError {
	return New(CodeForbidden, domain, message, http.StatusForbidden)
}

// --- Static domain errors ---

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrSelfApplication: job owners may not apply to their own jobs.
var ErrSelfApplication = New(
	CodeInvalidOperation,
	"application",
	"You cannot apply to your own job",
	http.StatusBadRequest,
)

var ErrJobNotOpen = New(
	CodeInvalidOperation,
	"job",
	"This job is no longer accepting applications",
	http.StatusBadRequest,
)

// --- Uploads & files ---

// ErrFileTooLarge reports a file over the configured size limit.
func ErrFileTooLarge(fileName string, size, maxSize int64) *AppError {
	return New(
		CodeValidationFailed,
		"validation",
		"File size exceeds the allowed limit",
		http.StatusBadRequest,
	).WithDetails(map[string]interface{}{
		"file":     fileName,
		"size":     size,
		"max_size": maxSize,
	})
}

// ErrInvalidFileType reports a file extension outside the allow-list.
func ErrInvalidFileType(fileName, extension string) *AppError {
	return New(
		CodeValidationFailed,
		"validation",
		"The provided file type is not allowed",
		http.StatusBadRequest,
	).WithDetails(map[string]interface{}{
		"file":      fileName,
		"extension": extension,
	})
}

// Package errors provides the error handling system shared by the repository
// cache and the source service. It extends Go's standard error handling with
// structured error codes, retry classification and context preservation.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Cache slot errors.

	// CodeLockFailed indicates the repository lock file could not be opened
	// or locked.
	CodeLockFailed ErrorCode = "LOCK_FAILED"

	// CodeCacheDir indicates a cache directory could not be created or removed,
	// typically a permissions problem.
	CodeCacheDir ErrorCode = "CACHE_DIR_ERROR"

	// CodeHandleClosed indicates an operation was attempted on a closed
	// cached-repository handle.
	CodeHandleClosed ErrorCode = "HANDLE_CLOSED"

	// Remote synchronization errors.

	// CodeCloneFailed indicates cloning a remote repository failed.
	CodeCloneFailed ErrorCode = "CLONE_FAILED"

	// CodeFetchFailed indicates fetching from a remote repository failed.
	CodeFetchFailed ErrorCode = "FETCH_FAILED"

	// Repository mutation errors.

	// CodeRefUpdate indicates a ref could not be read or written.
	CodeRefUpdate ErrorCode = "REF_UPDATE_FAILED"

	// CodeConfigUpdate indicates a git config key could not be set.
	CodeConfigUpdate ErrorCode = "CONFIG_UPDATE_FAILED"

	// CodeUnknownRevision indicates a commit-ish that does not resolve to
	// any object in the repository.
	CodeUnknownRevision ErrorCode = "UNKNOWN_REVISION"

	// CodeInvalidOperation indicates an operation invalid for the repository
	// mode, e.g. a working-copy reset on a bare mirror.
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a resource already exists and must not be
	// overwritten.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Service errors.

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeExecutionFailed indicates an external command failed.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeExportFailed indicates the packaging export tool failed.
	CodeExportFailed ErrorCode = "EXPORT_FAILED"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

package errors

// ErrorClassification indicates whether an error should trigger a retry.
// A transient fetch failure against an otherwise valid cache slot may succeed
// on a later run; a corrupted slot or a bad revision never will.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed
	// on retry. Examples: network timeouts during fetch or clone.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on
	// retry. Examples: unknown revisions, permission denials, use-after-close.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	// Retryable errors (network-bound operations)
	CodeCloneFailed: ClassificationRetryable,
	CodeFetchFailed: ClassificationRetryable,
	CodeTimeout:     ClassificationRetryable,

	// Permanent errors
	CodeLockFailed:       ClassificationPermanent,
	CodeCacheDir:         ClassificationPermanent,
	CodeHandleClosed:     ClassificationPermanent,
	CodeRefUpdate:        ClassificationPermanent,
	CodeConfigUpdate:     ClassificationPermanent,
	CodeUnknownRevision:  ClassificationPermanent,
	CodeInvalidOperation: ClassificationPermanent,
	CodeNotFound:         ClassificationPermanent,
	CodeAlreadyExists:    ClassificationPermanent,
	CodeInvalidConfig:    ClassificationPermanent,
	CodeExecutionFailed:  ClassificationPermanent,
	CodeExportFailed:     ClassificationPermanent,
	CodeUnknown:          ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Returns ClassificationPermanent if the code is not in the map (safe default).
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}

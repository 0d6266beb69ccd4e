package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Identity ──────────────────────────────────────────────────────
	ErrIdentityRequired ErrCode = "IDENTITY_REQUIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidOrder   ErrCode = "INVALID_ORDER"
	ErrInvalidConfig  ErrCode = "INVALID_CONFIG"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrTestNotFound ErrCode = "TEST_NOT_FOUND"
	ErrSlugConflict ErrCode = "SLUG_CONFLICT"
	ErrHasResults   ErrCode = "HAS_RESULTS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal           ErrCode = "INTERNAL_ERROR"
	ErrIntegrity          ErrCode = "INTEGRITY_ERROR"
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Identity ──────────────────────────────────────────────────────
	case ErrIdentityRequired:
		return "Caller identity is required."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Request payload is malformed."
	case ErrInvalidOrder:
		return "Question orders must be unique and sequential."
	case ErrInvalidConfig:
		return "Question config does not match its type."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrTestNotFound:
		return "Test not found."
	case ErrSlugConflict:
		return "A test with this slug already exists."
	case ErrHasResults:
		return "Test cannot be deleted because it has completed results."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	case ErrIntegrity:
		return "The change violates a data integrity rule."
	case ErrServiceUnavailable:
		return "Service is not ready."
	default:
		return "An unexpected error occurred."
	}
}

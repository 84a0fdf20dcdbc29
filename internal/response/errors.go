package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrAttemptNotFound ErrCode = "ATTEMPT_NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal    ErrCode = "INTERNAL_ERROR"
	ErrUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid credentials"
	case ErrTokenRequired:
		return "Authentication token required"
	case ErrTokenInvalid:
		return "Invalid authentication token"
	case ErrTokenExpired:
		return "Authentication token expired"

	case ErrValidation:
		return "Validation failed, check your input"

	case ErrNotFound:
		return "Resource not found"
	case ErrAttemptNotFound:
		return "Exam attempt not found"
	case ErrConflict:
		return "User already exists"

	case ErrRateLimitExceeded:
		return "Too many requests, try again later"

	case ErrInternal:
		return "Internal server error"
	case ErrUnavailable:
		return "Service unavailable"
	default:
		return "Unexpected error"
	}
}

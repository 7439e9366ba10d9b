package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Faculties ─────────────────────────────────────────────────────
	ErrNotFound             ErrCode = "NOT_FOUND"
	ErrNameExists           ErrCode = "NAME_EXISTS"
	ErrDeanExists           ErrCode = "DEAN_EXISTS"
	ErrVersionConflict      ErrCode = "VERSION_CONFLICT"
	ErrPreconditionRequired ErrCode = "PRECONDITION_REQUIRED"
	ErrInvalidVersion       ErrCode = "INVALID_VERSION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	case ErrValidation:
		return "The submitted faculty is invalid."
	case ErrInvalidID:
		return "The id is not a valid UUID."
	case ErrInvalidPayload:
		return "The request body could not be read."

	case ErrNotFound:
		return "No faculty matched the request."
	case ErrNameExists:
		return "A faculty with this name already exists."
	case ErrDeanExists:
		return "This dean already heads another faculty."
	case ErrVersionConflict:
		return "The faculty was modified by someone else. Reload it and try again."
	case ErrPreconditionRequired:
		return "Updates require an If-Match header with the current version."
	case ErrInvalidVersion:
		return "The If-Match header does not carry a valid version."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."

	default:
		return "An unknown error occurred."
	}
}

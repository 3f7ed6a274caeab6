package errors

var (
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid credentials",
	}
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "missing or invalid token",
	}
	ErrForbidden = &DomainError{
		Code:    "FORBIDDEN",
		Message: "insufficient permissions",
	}
)

package errors

var (
	ErrInvalidCompany = &DomainError{
		Code:    "INVALID_COMPANY",
		Message: "company name is required and commission rate must be between 0 and 1",
	}
)

package errors

var (
	ErrCardNotFound = &DomainError{
		Code:    "CARD_NOT_FOUND",
		Message: "credit card not found",
	}
	ErrInvalidCardNumber = &DomainError{
		Code:    "INVALID_CARD_NUMBER",
		Message: "invalid card number",
	}
	ErrInvalidExpiration = &DomainError{
		Code:    "INVALID_EXPIRATION",
		Message: "expiration date is required",
	}
	ErrInvalidCardHolder = &DomainError{
		Code:    "INVALID_CARD_HOLDER",
		Message: "card holder name and customer are required",
	}
)

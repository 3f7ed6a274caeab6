package errors

var (
	ErrPolicyNotFound = &DomainError{
		Code:    "POLICY_NOT_FOUND",
		Message: "policy not found",
	}
	ErrInvalidPolicy = &DomainError{
		Code:    "INVALID_POLICY",
		Message: "policy number, customer and company are required",
	}
	ErrInvalidPolicyDates = &DomainError{
		Code:    "INVALID_POLICY_DATES",
		Message: "policy end date must be after its start date",
	}
	ErrPolicyCancelled = &DomainError{
		Code:    "POLICY_CANCELLED",
		Message: "policy is cancelled",
	}
	ErrPolicyNotCompleted = &DomainError{
		Code:    "POLICY_NOT_COMPLETED",
		Message: "payments can only be cleaned up on a completed policy",
	}
	ErrPaymentNotFound = &DomainError{
		Code:    "PAYMENT_NOT_FOUND",
		Message: "payment not found",
	}
	ErrPaymentNotPending = &DomainError{
		Code:    "PAYMENT_NOT_PENDING",
		Message: "payment is not pending",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
)

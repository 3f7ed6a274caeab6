package credit_card

import (
	"strings"

	apperrors "agency/internal/errors"
	"agency/internal/models"
)

func normalizeNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}

func validateCardInput(input models.CreateCardInput, number string) error {
	if input.CustomerID == 0 || strings.TrimSpace(input.HolderName) == "" {
		return apperrors.ErrInvalidCardHolder
	}
	if !isValidCardNumber(number) {
		return apperrors.ErrInvalidCardNumber
	}
	if input.ExpirationDate.IsZero() {
		return apperrors.ErrInvalidExpiration
	}
	return nil
}

// isValidCardNumber checks length, digits and the Luhn checksum.
func isValidCardNumber(number string) bool {
	if len(number) < 12 || len(number) > 19 {
		return false
	}

	var sum int
	shouldDouble := false
	for i := len(number) - 1; i >= 0; i-- {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
		digit := int(number[i] - '0')
		if shouldDouble {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		shouldDouble = !shouldDouble
	}
	return sum%10 == 0
}

func detectBrand(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "VISA"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "AMEX"
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return "MASTERCARD"
	case len(number) >= 4 && number[:4] >= "2221" && number[:4] <= "2720":
		return "MASTERCARD"
	default:
		return "OTHER"
	}
}

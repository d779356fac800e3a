package utils

import (
	"fmt"
	"strings"
)

// MaxAmount bounds a charge in minor currency units. Anything above it is
// assumed to be a caller mistake rather than a real charge.
const MaxAmount int64 = 99_999_999

// ValidateAmount validates a payment amount in minor currency units.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %d", amount)
	}

	if amount > MaxAmount {
		return fmt.Errorf("amount exceeds maximum of %d: %d", MaxAmount, amount)
	}

	return nil
}

// ValidateCurrency validates an ISO 4217 currency code.
func ValidateCurrency(currency string) error {
	if len(currency) != 3 {
		return fmt.Errorf("currency must be exactly 3 characters: %q", currency)
	}

	for _, r := range currency {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return fmt.Errorf("currency must be alphabetic: %q", currency)
		}
	}

	return nil
}

// NormalizeCurrency lowercases a currency code, the form the processor
// expects.
func NormalizeCurrency(currency string) string {
	return strings.ToLower(currency)
}

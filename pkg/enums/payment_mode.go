package enums

import "fmt"

// PaymentMode selects how an order is settled: immediately with points or
// deferred to a currency payment confirmed later.
type PaymentMode string

const (
	PaymentModePoints   PaymentMode = "points"
	PaymentModeCurrency PaymentMode = "currency"
)

var validPaymentModes = []PaymentMode{
	PaymentModePoints,
	PaymentModeCurrency,
}

// String implements fmt.Stringer.
func (p PaymentMode) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMode.
func (p PaymentMode) IsValid() bool {
	for _, candidate := range validPaymentModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMode converts raw input into a PaymentMode.
func ParsePaymentMode(value string) (PaymentMode, error) {
	for _, candidate := range validPaymentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}

package models

import (
	"fmt"

	dErrors "paychain/pkg/domain-errors"
)

// Amount is a monetary value in minor units (paise, cents). Mandate contents
// are hashed and signed, so amounts must serialize identically on every
// process; integers avoid the floating-point formatting drift that would
// break signature verification.
type Amount int64

// Display renders the amount in major units for prompts and audit details.
func (a Amount) Display(currency string) string {
	return fmt.Sprintf("%d.%02d %s", a/100, a%100, currency)
}

// supportedCurrencies is the closed set this deployment settles in.
var supportedCurrencies = map[string]bool{
	"INR": true,
	"USD": true,
	"EUR": true,
}

// ValidateCurrency rejects currencies outside the supported set.
func ValidateCurrency(code string) error {
	if !supportedCurrencies[code] {
		return dErrors.Newf(dErrors.CodeValidation, "unsupported currency %q", code)
	}
	return nil
}

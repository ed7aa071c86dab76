package validate

import (
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

func IsLuna(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}

// IsRedemptionCode accepts PREFIX-DIGITS codes whose digits pass the Luhn check.
func IsRedemptionCode(code string) bool {
	prefix, digits, ok := strings.Cut(code, "-")
	if !ok || prefix == "" || digits == "" {
		return false
	}
	for _, r := range prefix {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return IsLuna(digits)
}

package idgen

import (
	"strings"
	"unicode"

	"github.com/ShiraazMoollatjie/goluhn"
	"github.com/google/uuid"
)

const (
	codeDigits    = 12
	defaultPrefix = "RWD"
	maxPrefixLen  = 6
)

type Generator interface {
	NewID() string
	NewRedemptionCode(prefix string) string
}

type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}

// NewRedemptionCode returns PREFIX-NNNNNNNNNNNN where the digits carry a Luhn check digit.
func (UUID) NewRedemptionCode(prefix string) string {
	return CodePrefix(prefix) + "-" + goluhn.Generate(codeDigits)
}

// CodePrefix reduces a brand name to an upper-case alphanumeric prefix.
func CodePrefix(brand string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(brand) {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == maxPrefixLen {
			break
		}
	}
	if b.Len() == 0 {
		return defaultPrefix
	}
	return b.String()
}

package models

import (
	"errors"
	"fmt"
	"strings"
)

// One NEAR is 10^24 yoctoNEAR.
const yoctoDigits = 24

// ErrBadAmount is returned for amounts that are not valid decimals.
var ErrBadAmount = errors.New("invalid amount")

// FormatNEAR converts an exact yoctoNEAR decimal string into the display
// form used in listings: whole NEAR with two decimal places, truncated.
func FormatNEAR(yocto string) (string, error) {
	if yocto == "" {
		return "", fmt.Errorf("%w: empty", ErrBadAmount)
	}
	for _, c := range yocto {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q", ErrBadAmount, yocto)
		}
	}
	if len(yocto) <= yoctoDigits {
		yocto = strings.Repeat("0", yoctoDigits-len(yocto)+1) + yocto
	}
	whole := strings.TrimLeft(yocto[:len(yocto)-yoctoDigits], "0")
	if whole == "" {
		whole = "0"
	}
	frac := yocto[len(yocto)-yoctoDigits:][:2]
	return whole + "." + frac, nil
}

// ParseNEAR converts a user-supplied NEAR amount ("12", "0.25") into the
// exact yoctoNEAR decimal string the ledger expects. At most 24 fractional
// digits are representable.
func ParseNEAR(amount string) (string, error) {
	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" && frac == "" {
		return "", fmt.Errorf("%w: empty", ErrBadAmount)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > yoctoDigits {
		return "", fmt.Errorf("%w: more than %d fractional digits", ErrBadAmount, yoctoDigits)
	}
	for _, c := range whole + frac {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q", ErrBadAmount, amount)
		}
	}
	yocto := strings.TrimLeft(whole+frac+strings.Repeat("0", yoctoDigits-len(frac)), "0")
	if yocto == "" {
		yocto = "0"
	}
	return yocto, nil
}

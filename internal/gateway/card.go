package gateway

import (
	"strings"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

// NormalizeCardNumber strips spaces and dashes from a card number.
func NormalizeCardNumber(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateCardNumber checks that the number is 13 to 19 digits and
// passes the Luhn checksum.
func ValidateCardNumber(number string) error {
	number = NormalizeCardNumber(number)
	if len(number) < 13 || len(number) > 19 {
		return ierr.NewError("card number must be 13 to 19 digits").
			WithHint("Check the card number length").
			Mark(ierr.ErrValidation)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return ierr.NewError("card number must contain only digits").
				WithHint("Check the card number for invalid characters").
				Mark(ierr.ErrValidation)
		}
	}
	if !luhnValid(number) {
		return ierr.NewError("card number failed checksum validation").
			WithHint("Check the card number for typos").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DetectCardBrand identifies the card network from its numeric prefix.
func DetectCardBrand(number string) types.CardBrand {
	n := NormalizeCardNumber(number)
	if len(n) < 4 {
		return types.CardBrandUnknown
	}

	switch {
	case n[0] == '4':
		return types.CardBrandVisa
	case inRange(n[:2], "51", "55"), inRange(n[:4], "2221", "2720"):
		return types.CardBrandMastercard
	case n[:2] == "34", n[:2] == "37":
		return types.CardBrandAmex
	case n[:4] == "6011", inRange(n[:3], "644", "649"), n[:2] == "65":
		return types.CardBrandDiscover
	case inRange(n[:3], "300", "305"), n[:2] == "36", n[:2] == "38":
		return types.CardBrandDiners
	case n[:2] == "35":
		return types.CardBrandJCB
	default:
		return types.CardBrandUnknown
	}
}

func inRange(prefix, lo, hi string) bool {
	return prefix >= lo && prefix <= hi
}

// MaskCardNumber keeps the first six and last four digits when the
// number is longer than ten digits, otherwise only the last four.
func MaskCardNumber(number string) string {
	n := NormalizeCardNumber(number)
	if len(n) <= 4 {
		return strings.Repeat("*", len(n))
	}
	if len(n) > 10 {
		return n[:6] + strings.Repeat("*", len(n)-10) + n[len(n)-4:]
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}

// CardLast4 returns the last four digits of a card number.
func CardLast4(number string) string {
	n := NormalizeCardNumber(number)
	if len(n) < 4 {
		return n
	}
	return n[len(n)-4:]
}

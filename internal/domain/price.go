package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a normalized amount in the retailer's currency.
// The zero value is Unavailable.
type Price struct {
	Amount decimal.Decimal
	Valid  bool
}

// Unavailable marks a price that could not be determined. It is distinct from a zero-cost price.
var Unavailable = Price{}

// NewPrice returns a valid price rounded to 2 fractional digits.
func NewPrice(amount decimal.Decimal) Price {
	return Price{Amount: amount.Round(2), Valid: true}
}

// ParsePrice normalizes raw storefront price text. A nil pointer is treated as missing text.
func ParsePrice(text *string) Price {
	if text == nil {
		return Unavailable
	}
	return ParsePriceString(*text)
}

// ParsePriceString strips everything except digits and decimal points and parses
// the remainder. Malformed text yields Unavailable; it never fails.
func ParsePriceString(text string) Price {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, text)
	if cleaned == "" || strings.Count(cleaned, ".") > 1 || strings.Trim(cleaned, ".") == "" {
		return Unavailable
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return Unavailable
	}
	return NewPrice(amount)
}

// String renders the amount with 2 fractional digits, or "unavailable".
func (p Price) String() string {
	if !p.Valid {
		return "unavailable"
	}
	return p.Amount.StringFixed(2)
}

// Add returns the sum of two prices, ignoring unavailable operands.
func (p Price) Add(other Price) Price {
	switch {
	case !other.Valid:
		return p
	case !p.Valid:
		return other
	}
	return NewPrice(p.Amount.Add(other.Amount))
}

// Less reports whether p is a usable price strictly cheaper than other.
func (p Price) Less(other Price) bool {
	if !p.Valid {
		return false
	}
	if !other.Valid {
		return true
	}
	return p.Amount.LessThan(other.Amount)
}

// Equal compares validity and amount.
func (p Price) Equal(other Price) bool {
	if p.Valid != other.Valid {
		return false
	}
	return !p.Valid || p.Amount.Equal(other.Amount)
}

// MarshalJSON encodes the amount as a fixed 2-digit string, or null when unavailable.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Amount.StringFixed(2))
}

// UnmarshalJSON accepts null, a numeric string, or a bare number.
func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Unavailable
		return nil
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = NewPrice(amount)
	return nil
}

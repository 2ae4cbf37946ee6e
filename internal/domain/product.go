package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Price  `json:"price"`
	Image       string `json:"image"`
}

// Price accepts both JSON numbers and currency-formatted strings ("$5.00").
// Catalog files in the wild carry both shapes.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Price(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = 0
		return nil
	}
	*p = ParsePrice(s)
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

func (p Price) Amount() float64 {
	return float64(p)
}

// ParsePrice strips currency formatting and parses the remainder.
// Unparsable input coerces to 0, it never fails.
func ParsePrice(s string) Price {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return Price(n)
}

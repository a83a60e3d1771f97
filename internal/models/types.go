package models

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a nullable decimal amount.
//
// Drivers hand decimal columns back in different shapes (float64 from SQLite,
// text from PostgreSQL numeric), and admin clients post prices either as
// numbers or as strings. Price accepts all of those and always encodes as a
// JSON number or null, never as a string.
type Price struct {
	Amount float64
	Valid  bool
}

// NewPrice returns a valid Price holding amount.
func NewPrice(amount float64) Price {
	return Price{Amount: amount, Valid: true}
}

// ParsePrice parses a decimal string. Blank input yields an invalid (null) Price.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return Price{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Price{}, fmt.Errorf("invalid price %q", s)
	}
	return NewPrice(f), nil
}

// Ptr returns the amount as a pointer, nil when the price is null.
func (p Price) Ptr() *float64 {
	if !p.Valid {
		return nil
	}
	amount := p.Amount
	return &amount
}

// Scan implements sql.Scanner.
func (p *Price) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = Price{}
		return nil
	case float64:
		*p = NewPrice(v)
		return nil
	case float32:
		*p = NewPrice(float64(v))
		return nil
	case int64:
		*p = NewPrice(float64(v))
		return nil
	case []byte:
		parsed, err := ParsePrice(string(v))
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	case string:
		parsed, err := ParsePrice(v)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Price", src)
	}
}

// Value implements driver.Valuer.
func (p Price) Value() (driver.Value, error) {
	if !p.Valid {
		return nil, nil
	}
	return p.Amount, nil
}

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(p.Amount, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a number, a numeric string or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid price %s", data)
		}
		data = []byte(unquoted)
	}
	parsed, err := ParsePrice(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Flag is a boolean that also accepts 1/0 and their string forms on input.
// The admin UI historically posts `is_active: 1`.
type Flag bool

// Bool returns the flag as a plain bool.
func (f Flag) Bool() bool {
	return bool(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`)) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean value %s", data)
	}
	return nil
}

// FlagPtr is a convenience for building optional flags in literals.
func FlagPtr(b bool) *Flag {
	f := Flag(b)
	return &f
}

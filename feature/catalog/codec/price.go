package codec

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"seed-catalog/core/reconcile"
)

// Price is an amount of US dollars stored as integer cents.
type Price int64

// ParsePrice parses "$2.99", "2.99", "2.5", "$ 4.49", "3$" or "5".
// Dollar signs and spaces are ignored; at most one '.' followed by one or two
// digits is accepted.
func ParsePrice(s string) (Price, error) {
	raw := s
	s = strings.NewReplacer("$", "", " ", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, reconcile.NewFormatError("price", raw, "value is empty")
	}
	if strings.Count(s, ".") > 1 {
		return 0, reconcile.NewFormatError("price", raw, "more than one '.'")
	}

	dollarsStr, centsStr, hasDot := strings.Cut(s, ".")
	if dollarsStr == "" {
		dollarsStr = "0"
	}
	if hasDot && (len(centsStr) == 0 || len(centsStr) > 2) {
		return 0, reconcile.NewFormatError("price", raw, "expected one or two digits after '.'")
	}
	if !allDigits(dollarsStr) || !allDigits(centsStr) {
		return 0, reconcile.NewFormatError("price", raw, "contains non-digit characters")
	}

	dollars, err := strconv.ParseInt(dollarsStr, 10, 64)
	if err != nil {
		return 0, reconcile.NewFormatError("price", raw, "value is too large")
	}
	var cents int64
	if centsStr != "" {
		cents, _ = strconv.ParseInt(centsStr, 10, 64)
		if len(centsStr) == 1 {
			cents *= 10
		}
	}
	total, ok := mulAdd(dollars, 100, cents)
	if !ok {
		return 0, reconcile.NewFormatError("price", raw, "value is too large")
	}
	return Price(total), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Cents returns the stored integer amount.
func (p Price) Cents() int64 { return int64(p) }

// String renders the price as "2.99".
func (p Price) String() string {
	c := int64(p)
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// Dollars renders the price as "$2.99".
func (p Price) Dollars() string {
	return "$" + p.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Price) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Price) UnmarshalText(b []byte) error {
	parsed, err := ParsePrice(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// GormDataType stores prices as integer cents.
func (Price) GormDataType() string { return "bigint" }

// Value implements driver.Valuer.
func (p Price) Value() (driver.Value, error) {
	return int64(p), nil
}

// Scan implements sql.Scanner.
func (p *Price) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*p = Price(v)
	case int32:
		*p = Price(v)
	case []byte:
		i, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to scan price: %w", err)
		}
		*p = Price(i)
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to scan price: %w", err)
		}
		*p = Price(i)
	case nil:
		*p = 0
	default:
		return fmt.Errorf("failed to scan price: unsupported type %T", src)
	}
	return nil
}

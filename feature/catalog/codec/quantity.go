package codec

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"

	"seed-catalog/core/reconcile"
)

// Kind is the human form a quantity was entered in.
type Kind int

const (
	KindInteger Kind = iota
	KindDecimal
	KindFraction
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindFraction:
		return "fraction"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// maxDigits bounds decimal places and denominator width; the low digit of the
// stored value records either one.
const maxDigits = 9

// Quantity is a packet's content count as an integer, a decimal with a fixed
// number of places, or a (mixed) fraction. Every Quantity carries its
// canonical stored encoding, so two quantities are equal when their codes are.
type Quantity struct {
	kind   Kind
	whole  int64
	scaled int64
	places int
	num    int64
	den    int64
	code   int64
}

// Integer returns the quantity i. It panics if i is negative or too large to encode.
func Integer(i int64) Quantity {
	q, err := newInteger(i)
	if err != nil {
		panic(err)
	}
	return q
}

// Decimal returns scaled / 10^places, e.g. Decimal(1025, 3) is 1.025.
// Trailing zeros are dropped, so Decimal(20, 1) is the integer 2.
// It panics on negative values, places outside 0..9, or overflow.
func Decimal(scaled int64, places int) Quantity {
	q, err := newDecimal(scaled, places)
	if err != nil {
		panic(err)
	}
	return q
}

// Fraction returns num/den reduced to lowest terms, as a mixed number when
// num >= den. A fraction that reduces to a whole number is an Integer.
// It panics on a zero denominator, negative values, or overflow.
func Fraction(num, den int64) Quantity {
	q, err := newFraction(0, num, den)
	if err != nil {
		panic(err)
	}
	return q
}

func newInteger(i int64) (Quantity, error) {
	if i < 0 {
		return Quantity{}, reconcile.NewFormatError("quantity", strconv.FormatInt(i, 10), "must not be negative")
	}
	code, ok := mulAdd(i, 10, 0)
	if !ok {
		return Quantity{}, overflow(strconv.FormatInt(i, 10))
	}
	return Quantity{kind: KindInteger, whole: i, code: code}, nil
}

func newDecimal(scaled int64, places int) (Quantity, error) {
	if scaled < 0 {
		return Quantity{}, reconcile.NewFormatError("quantity", strconv.FormatInt(scaled, 10), "must not be negative")
	}
	if places < 0 || places > maxDigits {
		return Quantity{}, reconcile.NewFormatError("quantity", strconv.FormatInt(scaled, 10),
			fmt.Sprintf("decimal places must be between 1 and %d", maxDigits))
	}
	for places > 0 && scaled%10 == 0 {
		scaled /= 10
		places--
	}
	if places == 0 {
		return newInteger(scaled)
	}
	code, ok := mulAdd(scaled, 10, int64(places))
	if !ok {
		return Quantity{}, overflow(strconv.FormatInt(scaled, 10))
	}
	return Quantity{kind: KindDecimal, scaled: scaled, places: places, code: code}, nil
}

func newFraction(whole, num, den int64) (Quantity, error) {
	value := fmt.Sprintf("%d %d/%d", whole, num, den)
	if den == 0 {
		return Quantity{}, reconcile.NewFormatError("quantity", value, "denominator must not be zero")
	}
	if whole < 0 || num < 0 || den < 0 {
		return Quantity{}, reconcile.NewFormatError("quantity", value, "must not be negative")
	}

	g := gcd(num, den)
	if g > 1 {
		num /= g
		den /= g
	}
	extra := num / den
	num %= den
	if whole > math.MaxInt64-extra {
		return Quantity{}, overflow(value)
	}
	whole += extra
	if num == 0 {
		return newInteger(whole)
	}

	d := digits(den)
	if d > maxDigits {
		return Quantity{}, reconcile.NewFormatError("quantity", value,
			fmt.Sprintf("denominator must not exceed %d digits", maxDigits))
	}
	p := pow10(d)

	r, ok := mulAdd(whole, p, num)
	if ok {
		r, ok = mulAdd(r, p, den)
	}
	if ok {
		r, ok = mulAdd(r, 10, int64(d))
	}
	if !ok {
		return Quantity{}, overflow(value)
	}
	return Quantity{kind: KindFraction, whole: whole, num: num, den: den, code: -r}, nil
}

// ParseQuantity parses "100", "1,000", "1.025", "1/4", "1 3/8" or "11 2/11".
// Malformed input yields a *reconcile.FormatError.
func ParseQuantity(s string) (Quantity, error) {
	raw := s
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return Quantity{}, reconcile.NewFormatError("quantity", raw, "value is empty")
	}

	dots := strings.Count(s, ".")
	slashes := strings.Count(s, "/")
	switch {
	case dots > 0 && slashes > 0:
		return Quantity{}, reconcile.NewFormatError("quantity", raw, "cannot mix '.' and '/'")
	case dots > 1:
		return Quantity{}, reconcile.NewFormatError("quantity", raw, "more than one '.'")
	case slashes > 1:
		return Quantity{}, reconcile.NewFormatError("quantity", raw, "more than one '/'")
	}

	switch {
	case slashes == 1:
		return parseFraction(raw, s)
	case dots == 1:
		return parseDecimal(raw, s)
	default:
		i, err := parseDigits(raw, s)
		if err != nil {
			return Quantity{}, err
		}
		return newInteger(i)
	}
}

func parseFraction(raw, s string) (Quantity, error) {
	var whole int64
	frac := s
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
	case 2:
		w, err := parseDigits(raw, fields[0])
		if err != nil {
			return Quantity{}, err
		}
		whole = w
		frac = fields[1]
	default:
		return Quantity{}, reconcile.NewFormatError("quantity", raw, "expected a fraction or a mixed number")
	}

	numStr, denStr, _ := strings.Cut(frac, "/")
	if len(denStr) > maxDigits {
		return Quantity{}, reconcile.NewFormatError("quantity", raw,
			fmt.Sprintf("denominator must not exceed %d digits", maxDigits))
	}
	num, err := parseDigits(raw, numStr)
	if err != nil {
		return Quantity{}, err
	}
	den, err := parseDigits(raw, denStr)
	if err != nil {
		return Quantity{}, err
	}
	q, err := newFraction(whole, num, den)
	if err != nil {
		if fe, ok := err.(*reconcile.FormatError); ok {
			fe.Value = raw
		}
		return Quantity{}, err
	}
	return q, nil
}

func parseDecimal(raw, s string) (Quantity, error) {
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" {
		return Quantity{}, reconcile.NewFormatError("quantity", raw, "missing digits after '.'")
	}
	if len(fracPart) > maxDigits {
		return Quantity{}, reconcile.NewFormatError("quantity", raw,
			fmt.Sprintf("more than %d decimal places", maxDigits))
	}
	i, err := parseDigits(raw, intPart)
	if err != nil {
		return Quantity{}, err
	}
	f, err := parseDigits(raw, fracPart)
	if err != nil {
		return Quantity{}, err
	}
	scaled, ok := mulAdd(i, pow10(len(fracPart)), f)
	if !ok {
		return Quantity{}, overflow(raw)
	}
	return newDecimal(scaled, len(fracPart))
}

// parseDigits parses a non-empty run of ASCII digits.
func parseDigits(raw, s string) (int64, error) {
	if s == "" {
		return 0, reconcile.NewFormatError("quantity", raw, "missing digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, reconcile.NewFormatError("quantity", raw, fmt.Sprintf("non-digit character %q", r))
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, overflow(raw)
	}
	return v, nil
}

// Decode reverses Encode. Negative values are fractions, a low digit of zero
// marks an integer, and any other low digit is a decimal's place count.
func Decode(stored int64) (Quantity, error) {
	value := strconv.FormatInt(stored, 10)
	if stored < 0 {
		if stored == math.MinInt64 {
			return Quantity{}, reconcile.NewFormatError("stored quantity", value, "out of range")
		}
		r := -stored
		d := int(r % 10)
		r /= 10
		if d == 0 {
			return Quantity{}, reconcile.NewFormatError("stored quantity", value, "fraction has no denominator width")
		}
		p := pow10(d)
		den := r % p
		r /= p
		num := r % p
		whole := r / p
		if den == 0 || num == 0 {
			return Quantity{}, reconcile.NewFormatError("stored quantity", value, "invalid fraction")
		}
		return newFraction(whole, num, den)
	}

	places := int(stored % 10)
	v := stored / 10
	if places == 0 {
		return newInteger(v)
	}
	return newDecimal(v, places)
}

// Kind returns the form of the quantity.
func (q Quantity) Kind() Kind { return q.kind }

// Encode returns the canonical stored value.
func (q Quantity) Encode() int64 { return q.code }

// Parts returns the whole part, numerator and denominator of a fraction.
func (q Quantity) Parts() (whole, num, den int64) {
	return q.whole, q.num, q.den
}

// Equal reports whether q and o encode to the same stored value.
func (q Quantity) Equal(o Quantity) bool { return q.code == o.code }

// Equal reports whether a and b encode to the same stored value.
func Equal(a, b Quantity) bool { return a.Equal(b) }

// IsZero reports whether q is the integer zero.
func (q Quantity) IsZero() bool { return q.code == 0 }

// Float64 returns the approximate numeric value.
func (q Quantity) Float64() float64 {
	switch q.kind {
	case KindDecimal:
		return float64(q.scaled) / float64(pow10(q.places))
	case KindFraction:
		return float64(q.whole) + float64(q.num)/float64(q.den)
	default:
		return float64(q.whole)
	}
}

// String renders the quantity in the form it was entered.
func (q Quantity) String() string {
	switch q.kind {
	case KindDecimal:
		s := strconv.FormatInt(q.scaled, 10)
		if len(s) <= q.places {
			s = strings.Repeat("0", q.places-len(s)+1) + s
		}
		return s[:len(s)-q.places] + "." + s[len(s)-q.places:]
	case KindFraction:
		frac := fmt.Sprintf("%d/%d", q.num, q.den)
		if q.whole > 0 {
			return fmt.Sprintf("%d %s", q.whole, frac)
		}
		return frac
	default:
		return strconv.FormatInt(q.whole, 10)
	}
}

var vulgarFractions = map[[2]int64]string{
	{1, 4}: "&frac14;",
	{1, 2}: "&frac12;",
	{3, 4}: "&frac34;",
	{1, 3}: "&#8531;",
	{2, 3}: "&#8532;",
	{1, 5}: "&#8533;",
	{2, 5}: "&#8534;",
	{3, 5}: "&#8535;",
	{4, 5}: "&#8536;",
	{1, 6}: "&#8537;",
	{5, 6}: "&#8538;",
	{1, 8}: "&#8539;",
	{3, 8}: "&#8540;",
	{5, 8}: "&#8541;",
	{7, 8}: "&#8542;",
}

// HTML renders fractions with vulgar-fraction entities where one exists.
func (q Quantity) HTML() string {
	if q.kind != KindFraction {
		return q.String()
	}
	frac, ok := vulgarFractions[[2]int64{q.num, q.den}]
	if !ok {
		frac = fmt.Sprintf(`<span class="fraction"><sup>%d</sup>&frasl;<sub>%d</sub></span>`, q.num, q.den)
	}
	if q.whole > 0 {
		return fmt.Sprintf("%d %s", q.whole, frac)
	}
	return frac
}

// MarshalText implements encoding.TextMarshaler.
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quantity) UnmarshalText(b []byte) error {
	parsed, err := ParseQuantity(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// GormDataType stores quantities as their 64-bit encoding.
func (Quantity) GormDataType() string { return "bigint" }

// Value implements driver.Valuer, storing the canonical encoding.
func (q Quantity) Value() (driver.Value, error) {
	return q.code, nil
}

// Scan implements sql.Scanner.
func (q *Quantity) Scan(src any) error {
	var stored int64
	switch v := src.(type) {
	case int64:
		stored = v
	case int32:
		stored = int64(v)
	case []byte:
		i, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to scan quantity: %w", err)
		}
		stored = i
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to scan quantity: %w", err)
		}
		stored = i
	case nil:
		*q = Quantity{}
		return nil
	default:
		return fmt.Errorf("failed to scan quantity: unsupported type %T", src)
	}
	decoded, err := Decode(stored)
	if err != nil {
		return err
	}
	*q = decoded
	return nil
}

func overflow(value string) error {
	return reconcile.NewFormatError("quantity", value, "value is too large")
}

// mulAdd returns a*m+b, reporting false on int64 overflow.
func mulAdd(a, m, b int64) (int64, bool) {
	if a != 0 && a > (math.MaxInt64-b)/m {
		return 0, false
	}
	return a*m + b, true
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func digits(n int64) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

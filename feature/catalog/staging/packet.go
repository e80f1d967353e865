package staging

import (
	"fmt"
	"strings"
	"unicode"
)

// PacketText is the price, quantity and units scraped from a packet line.
type PacketText struct {
	Price    string
	Quantity string
	Units    string
}

// ParsePacketString splits "<quantity> <units> - <price>" lines such as
// "100 seeds - $1.99" or "1,000 seeds: $4.99". The price is the number
// carrying a '$', or else a trailing decimal number.
func ParsePacketString(s string) (PacketText, error) {
	var words, nums []string
	for _, part := range strings.Fields(strings.ReplaceAll(s, ":", "")) {
		switch {
		case isWord(part):
			words = append(words, part)
		case strings.IndexFunc(part, unicode.IsDigit) >= 0:
			nums = append(nums, part)
		}
	}
	if len(nums) == 0 {
		return PacketText{}, fmt.Errorf("could not find a price in %q", s)
	}

	priceAt := -1
	for i, n := range nums {
		if strings.Contains(n, "$") {
			priceAt = i
			break
		}
	}
	if priceAt < 0 {
		last := nums[len(nums)-1]
		if !strings.Contains(last, ".") || !allDigits(strings.ReplaceAll(last, ".", "")) {
			return PacketText{}, fmt.Errorf("could not find a price in %q", s)
		}
		priceAt = len(nums) - 1
	}

	price := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' {
			return r
		}
		return -1
	}, nums[priceAt])
	if price == "" {
		return PacketText{}, fmt.Errorf("could not parse price from %q", s)
	}

	rest := append(append([]string{}, nums[:priceAt]...), nums[priceAt+1:]...)
	qty := strings.ReplaceAll(strings.Join(rest, " "), ",", "")
	if qty == "" {
		return PacketText{}, fmt.Errorf("could not parse quantity from %q", s)
	}
	units := strings.Trim(strings.ToLower(strings.Join(words, " ")), "-")
	units = strings.TrimSpace(units)
	if units == "" {
		return PacketText{}, fmt.Errorf("could not parse unit of measure from %q", s)
	}
	return PacketText{Price: price, Quantity: qty, Units: units}, nil
}

// isWord reports whether part is letters once '-' and '.' are removed.
func isWord(part string) bool {
	stripped := strings.NewReplacer("-", "", ".", "").Replace(part)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Package amount converts between human-readable decimal amounts and raw
// on-chain token units. Raw units are big.Int exclusively — never floats —
// so conversions are exact decimal shifts.
package amount

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseUnits converts a decimal string like "0.5" to raw token units given
// the token's decimal count. Excess fractional digits are rejected rather
// than silently truncated.
// Example: ParseUnits("0.5", 18) → 500000000000000000
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("negative amount: %s", amount)
	}

	parts := strings.SplitN(amount, ".", 3)
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid amount %q: multiple decimal points", amount)
	}

	whole := parts[0]
	if whole == "" {
		whole = "0"
	}

	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d fractional digits", amount, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	result, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", amount)
	}
	return result, nil
}

// FormatUnits converts raw token units back to a decimal string with full
// precision, trimming trailing fractional zeros. Round-trips exactly with
// ParseUnits.
func FormatUnits(raw *big.Int, decimals uint8) string {
	if raw == nil {
		return "0"
	}
	if decimals == 0 {
		return raw.String()
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole := new(big.Int).Quo(raw, divisor)
	remainder := new(big.Int).Rem(raw, divisor)

	if remainder.Sign() == 0 {
		return whole.String()
	}

	frac := strings.TrimRight(fmt.Sprintf("%0*s", int(decimals), remainder.String()), "0")
	return whole.String() + "." + frac
}

// FormatFixed renders raw token units with exactly places fractional digits,
// truncating (not rounding) excess precision. Used for balance display.
// Example: FormatFixed(10e18 raw, 18, 4) → "10.0000"
func FormatFixed(raw *big.Int, decimals uint8, places int) string {
	s := FormatUnits(raw, decimals)

	dot := strings.Index(s, ".")
	if dot < 0 {
		return s + "." + strings.Repeat("0", places)
	}
	frac := s[dot+1:]
	if len(frac) >= places {
		return s[:dot+1] + frac[:places]
	}
	return s + strings.Repeat("0", places-len(frac))
}

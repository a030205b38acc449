// Package format renders raw fixed-point integer amounts as decimal strings.
package format

import (
	"fmt"
	"math/big"
	"strings"
)

// Units renders a raw amount at the given fixed-point scale as a plain
// decimal string, e.g. Units(1500000000000000000, 18) == "1.5". Negative
// amounts keep their sign; a zero fraction is omitted.
func Units(raw *big.Int, decimals uint8) string {
	if raw == nil {
		return "0"
	}

	v := new(big.Int).Abs(raw)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(v, scale, frac)

	sign := ""
	if raw.Sign() < 0 {
		sign = "-"
	}

	if frac.Sign() == 0 {
		return sign + whole.String()
	}

	fracStr := fmt.Sprintf("%0*s", int(decimals), frac.String())
	fracStr = strings.TrimRight(fracStr, "0")
	return sign + whole.String() + "." + fracStr
}

// TokenAmount renders a raw amount like Units but caps the fraction at
// maxFractionDigits, trimming trailing zeros from what remains.
func TokenAmount(raw *big.Int, decimals uint8, maxFractionDigits int) string {
	s := Units(raw, decimals)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	whole, frac := s[:dot], s[dot+1:]
	if maxFractionDigits < len(frac) {
		frac = frac[:maxFractionDigits]
	}
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// Duration renders seconds as mm:ss, flooring negatives to 00:00. Minutes
// are not capped at 59.
func Duration(seconds int64) string {
	if seconds <= 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

package render

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// maxDecimals is the largest precision toFixed accepts.
const maxDecimals = 100

var half = big.NewFloat(0.5)

// fixed formats v with the given number of decimals the way Number.toFixed
// does: the exact binary value is rounded, and a tie goes to the larger
// magnitude. Non-finite values come out as NaN, Infinity and -Infinity.
func fixed(v float64, decimals int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if decimals < 0 {
		decimals = 0
	}
	if decimals > maxDecimals {
		decimals = maxDecimals
	}
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	// room for a 53-bit mantissa times 10^decimals, so nothing below rounds
	prec := uint(64 + 4*decimals)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Float).SetPrec(prec).SetFloat64(math.Abs(v))
	scaled.Mul(scaled, new(big.Float).SetPrec(prec).SetInt(scale))

	n, _ := scaled.Int(nil)
	rest := new(big.Float).SetPrec(prec).SetInt(n)
	rest.Sub(scaled, rest)
	if rest.Cmp(half) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	digits := n.String()
	if decimals > 0 {
		if len(digits) <= decimals {
			digits = strings.Repeat("0", decimals-len(digits)+1) + digits
		}
		cut := len(digits) - decimals
		digits = digits[:cut] + "." + digits[cut:]
	}
	// -0 keeps no sign; any other negative does, even when it rounds to zero
	if v < 0 {
		return "-" + digits
	}
	return digits
}

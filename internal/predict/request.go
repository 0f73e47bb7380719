package predict

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// Request maps feature names to the numeric values sent to the prediction
// service. Values that failed to parse stay NaN and are forwarded untouched.
type Request map[string]float64

// BuildRequest coerces every submitted form field into a number. No field is
// filtered out; when a name repeats, the last value wins.
func BuildRequest(form url.Values) Request {
	req := make(Request, len(form))
	for name, values := range form {
		if len(values) == 0 {
			continue
		}
		req[name] = ParseFloat(values[len(values)-1])
	}
	return req
}

// MarshalJSON encodes non-finite values as null, which is how a browser
// serialises NaN and Infinity.
func (r Request) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r))
	for name, value := range r {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			out[name] = nil
			continue
		}
		if value == 0 {
			value = 0 // drop the sign of -0
		}
		out[name] = value
	}
	return json.Marshal(out)
}

// ParseFloat reads the longest numeric prefix of s after leading whitespace,
// the way parseFloat does in a browser: "12abc" is 12, "Infinity" is +Inf,
// and anything without a numeric prefix is NaN.
func ParseFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, isNumberSpace)
	if s == "" {
		return math.NaN()
	}

	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	intDigits := countDigits(s[i:])
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = countDigits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return math.NaN()
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if n := countDigits(s[j:]); n > 0 {
			i = j + n
		}
	}

	value, err := strconv.ParseFloat(s[:i], 64)
	if err != nil && !isRangeError(err) {
		return math.NaN()
	}
	return value
}

// isNumberSpace reports the whitespace a browser skips before a number:
// tab, vertical tab, form feed, space, no-break space, the byte order mark,
// line terminators and any other space separator.
func isNumberSpace(r rune) bool {
	switch r {
	case '\t', '\v', '\f', ' ', '\u00a0', '\ufeff', '\n', '\r', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

package stats

import (
	"math"
	"strconv"
)

const nanosPerSecond = 1e9

// Rate is a tokens-per-second value. Defined is false when the elapsed time was zero,
// in which case Value carries no meaning.
type Rate struct {
	Value   float64
	Defined bool
}

// DefinedRate wraps a computed value.
func DefinedRate(v float64) Rate {
	return Rate{Value: v, Defined: true}
}

// String renders the rate with two decimals, or "n/a" when undefined.
func (r Rate) String() string {
	if !r.Defined {
		return "n/a"
	}
	return FormatFixed2(r.Value)
}

// tokensPerSecond divides a token count by a nanosecond duration.
func tokensPerSecond(tokens int, nanos int64) Rate {
	if nanos <= 0 {
		return Rate{}
	}
	return DefinedRate(float64(tokens) / nanosToSeconds(nanos))
}

func nanosToSeconds(nanos int64) float64 {
	return float64(nanos) / nanosPerSecond
}

// Round2 rounds half-up to two decimal places. The half test is made on v*100 as a float64,
// so 1.115 and 2.675 round up even though their binary values sit just below the half.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// FormatFixed2 rounds half-up and prints exactly two decimals.
func FormatFixed2(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

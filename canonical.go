package bloom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonicalizer maps an arbitrary value to the string that gets hashed.
// Two values are treated as the same element iff their canonical strings
// are equal.
type Canonicalizer func(v any) string

// Canonical is the default Canonicalizer:
//
//   - string and []byte are used as-is
//   - fmt.Stringer uses String()
//   - integers are base-10 decimal
//   - floats follow JavaScript's Number to String rule: the shortest
//     round-tripping digits, plain decimal for 1e-6 <= |f| < 1e21 and
//     exponent form such as "1e-7" or "1e+21" outside it. So 1, 1.0 and
//     "1" all hash alike. NaN is "NaN", infinities are "Infinity" /
//     "-Infinity" and -0 is "0"
//   - bool is "true" / "false" and nil is "null"
//   - everything else goes through fmt.Sprint
func Canonical(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bitSize), "e")
	x, _ := strconv.Atoi(exp)
	if x >= -6 && x < 21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	if x < 0 {
		return mant + "e-" + strconv.Itoa(-x)
	}
	return mant + "e+" + strconv.Itoa(x)
}

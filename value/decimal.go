package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// DecimalScale is the fixed number of fractional digits the spec requires
// for division results (§3: "10 fractional digits, half-up rounding for
// division").
const DecimalScale = 10

// decimalContext is shared by every arithmetic operation. Precision is set
// generously above DecimalScale so intermediate multiplication/addition
// never loses significant digits before the final rounding step; only
// division explicitly rounds down to DecimalScale.
var decimalContext = &apd.Context{
	Precision:   40,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Rounding:    apd.RoundHalfUp,
}

// Decimal wraps apd.Decimal so the rest of the engine never imports apd
// directly.
type Decimal struct {
	d apd.Decimal
}

// NewFromInt64 builds a Decimal from an int64.
func NewFromInt64(i int64) Decimal {
	var d Decimal
	d.d.SetInt64(i)
	return d
}

// NewFromFloat builds a Decimal from a float64 (used by Float and by
// builtins that interoperate with float64 math).
func NewFromFloat(f float64) Decimal {
	d, _ := ParseDecimal(strconv.FormatFloat(f, 'f', -1, 64))
	return d
}

// ParseDecimal parses a decimal literal. It accepts plain integers,
// decimals, and scientific notation.
func ParseDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	var d Decimal
	_, _, err := decimalContext.SetString(&d.d, s)
	if err != nil {
		return Decimal{}, err
	}
	return d, nil
}

// IsZero reports whether the decimal is exactly zero.
func (d Decimal) IsZero() bool {
	return d.d.IsZero()
}

// IsNegative reports whether the decimal is strictly less than zero.
func (d Decimal) IsNegative() bool {
	return d.d.Sign() < 0
}

// IsPositive reports whether the decimal is strictly greater than zero.
func (d Decimal) IsPositive() bool {
	return d.d.Sign() > 0
}

// IsInteger reports whether the decimal has no significant fractional
// digits (display-only distinction — Number never tracks int vs float
// separately per SPEC_FULL §3).
func (d Decimal) IsInteger() bool {
	var r apd.Decimal
	_, _ = decimalContext.RoundToIntegralValue(&r, &d.d)
	return r.Cmp(&d.d) == 0
}

// Int64 truncates toward zero and returns the integer part.
func (d Decimal) Int64() int64 {
	truncating := *decimalContext
	truncating.Rounding = apd.RoundDown
	var r apd.Decimal
	_, _ = truncating.RoundToIntegralValue(&r, &d.d)
	i, _ := r.Int64()
	return i
}

// Float64 returns the closest float64 approximation.
func (d Decimal) Float64() float64 {
	f, _ := d.d.Float64()
	return f
}

// String renders the decimal, trimming no trailing detail apd wouldn't
// already normalize.
func (d Decimal) String() string {
	return d.d.Text('f')
}

// Cmp returns -1, 0 or 1 comparing d to other.
func (d Decimal) Cmp(other Decimal) int {
	return d.d.Cmp(&other.d)
}

// Add returns d + other.
func (d Decimal) Add(other Decimal) Decimal {
	var r Decimal
	_, _ = decimalContext.Add(&r.d, &d.d, &other.d)
	return r
}

// Sub returns d - other.
func (d Decimal) Sub(other Decimal) Decimal {
	var r Decimal
	_, _ = decimalContext.Sub(&r.d, &d.d, &other.d)
	return r
}

// Mul returns d * other.
func (d Decimal) Mul(other Decimal) Decimal {
	var r Decimal
	_, _ = decimalContext.Mul(&r.d, &d.d, &other.d)
	return r
}

// QuoResult is the outcome of a division: either a rounded quotient, or a
// division-by-zero flag the caller uses to implement §3/§4.1's "never
// throws" rule.
type QuoResult struct {
	Quotient   Decimal
	DivByZero  bool
}

// Quo returns d / other rounded half-up to DecimalScale fractional digits.
// Division by zero is reported via DivByZero rather than an error, per the
// spec's "division by zero never throws" invariant.
func (d Decimal) Quo(other Decimal) QuoResult {
	if other.IsZero() {
		return QuoResult{DivByZero: true}
	}
	var r Decimal
	_, _ = decimalContext.Quo(&r.d, &d.d, &other.d)
	var scaled Decimal
	_, _ = decimalContext.Quantize(&scaled.d, &r.d, -DecimalScale)
	return QuoResult{Quotient: scaled}
}

// Mod returns d % other, the remainder of truncated division. DivByZero
// mirrors Quo's behavior.
func (d Decimal) Mod(other Decimal) QuoResult {
	if other.IsZero() {
		return QuoResult{DivByZero: true}
	}
	var r Decimal
	_, _ = decimalContext.Rem(&r.d, &d.d, &other.d)
	return QuoResult{Quotient: r}
}

// Pow returns d ^ other, computed with apd's Pow. When apd reports an error
// for the operands, the result falls back to float64 math.Pow; this matches
// the forgiving-evaluation design note — such operands still produce a
// usable (if float64-precision) result rather than failing.
func (d Decimal) Pow(other Decimal) Decimal {
	var r Decimal
	_, err := decimalContext.Pow(&r.d, &d.d, &other.d)
	if err != nil {
		base := d.Float64()
		exp := other.Float64()
		return NewFromFloat(math.Pow(base, exp))
	}
	return r
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	var r Decimal
	_, _ = decimalContext.Neg(&r.d, &d.d)
	return r
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	var r Decimal
	_, _ = decimalContext.Abs(&r.d, &d.d)
	return r
}

// RoundTo rounds d to the given number of fractional digits, half-up.
func (d Decimal) RoundTo(digits int32) Decimal {
	var r Decimal
	_, _ = decimalContext.Quantize(&r.d, &d.d, -digits)
	return r
}

// Floor returns the largest integer <= d.
func (d Decimal) Floor() Decimal {
	var r Decimal
	_, _ = decimalContext.Floor(&r.d, &d.d)
	return r
}

// Ceil returns the smallest integer >= d.
func (d Decimal) Ceil() Decimal {
	var r Decimal
	_, _ = decimalContext.Ceil(&r.d, &d.d)
	return r
}

// Sqrt returns the square root of d.
func (d Decimal) Sqrt() (Decimal, bool) {
	if d.IsNegative() {
		return Decimal{}, false
	}
	var r Decimal
	_, _ = decimalContext.Sqrt(&r.d, &d.d)
	return r, true
}

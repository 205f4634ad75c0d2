package value

import "strings"

// AsDecimal coerces v to a Decimal per §4.1: Null→0; Number→itself;
// Text→parsed, or 0 if it doesn't parse; Bool→1/0; anything else→0.
func AsDecimal(v Value) Decimal {
	switch v.kind {
	case KindNumber:
		return v.n
	case KindText:
		d, err := ParseDecimal(strings.TrimSpace(v.s))
		if err != nil {
			return NewFromInt64(0)
		}
		return d
	case KindBool:
		if v.b {
			return NewFromInt64(1)
		}
		return NewFromInt64(0)
	default:
		return NewFromInt64(0)
	}
}

// coercesNumeric reports whether v can be interpreted as a number without
// falling back to the 0-default — used by comparison to decide numeric vs.
// textual ordering. The arithmetic + rule does not use it: concatenation
// depends on Kind, not on whether a string parses as a number.
func coercesNumeric(v Value) bool {
	switch v.kind {
	case KindNumber, KindBool:
		return true
	case KindText:
		_, err := ParseDecimal(strings.TrimSpace(v.s))
		return err == nil
	default:
		return false
	}
}

// ArithResult carries either a value or a division-by-zero signal, so
// callers (expression evaluator vs. action executor) can apply the
// context-dependent §4.1 policy: expressions return Null with the original
// expression text preserved, actions log and skip.
type ArithResult struct {
	Value     Value
	DivByZero bool
}

// Add implements the `+` operator: numeric addition, or string
// concatenation when either side is Text (§4.1, §4.6).
func Add(left, right Value) Value {
	if left.kind == KindText || right.kind == KindText {
		return Text(left.String() + right.String())
	}
	return Number(AsDecimal(left).Add(AsDecimal(right)))
}

// Sub implements the `-` operator.
func Sub(left, right Value) Value {
	return Number(AsDecimal(left).Sub(AsDecimal(right)))
}

// Mul implements the `*` operator.
func Mul(left, right Value) Value {
	return Number(AsDecimal(left).Mul(AsDecimal(right)))
}

// Quo implements the `/` operator. On division by zero, DivByZero is set
// and Value is the zero Value — the caller decides what "never throws"
// means in its context (Null+original-text for expressions, skip+log for
// actions).
func Quo(left, right Value) ArithResult {
	q := AsDecimal(left).Quo(AsDecimal(right))
	if q.DivByZero {
		return ArithResult{DivByZero: true}
	}
	return ArithResult{Value: Number(q.Quotient)}
}

// Mod implements the `%` operator.
func Mod(left, right Value) ArithResult {
	q := AsDecimal(left).Mod(AsDecimal(right))
	if q.DivByZero {
		return ArithResult{DivByZero: true}
	}
	return ArithResult{Value: Number(q.Quotient)}
}

// Pow implements the `^`/`**` operator.
func Pow(left, right Value) Value {
	return Number(AsDecimal(left).Pow(AsDecimal(right)))
}

// Compare returns -1, 0, 1 comparing left and right: numeric when both
// sides coerce to a number cleanly, lexicographic (textual) otherwise
// (§4.1).
func Compare(left, right Value) int {
	if coercesNumeric(left) && coercesNumeric(right) {
		return AsDecimal(left).Cmp(AsDecimal(right))
	}
	return strings.Compare(left.String(), right.String())
}

// Between reports whether v falls within [lo, hi] inclusive, using numeric
// comparison (§4.1).
func Between(v, lo, hi Value) bool {
	return Compare(v, lo) >= 0 && Compare(v, hi) <= 0
}

package builtins

import (
	"strconv"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func registerMathBuiltins(r *Registry) {
	r.Register("abs", builtinAbs)
	r.Register("max", builtinMax)
	r.Register("min", builtinMin)
	r.Register("round", builtinRound)
	r.Register("floor", builtinFloor)
	r.Register("ceil", builtinCeil)
	r.Register("pow", builtinPow)
	r.Register("sqrt", builtinSqrt)
}

func builtinAbs(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "abs", 1, len(args))
		return value.Null
	}
	return value.Number(value.AsDecimal(args[0]).Abs())
}

// builtinMax is variadic: max(a, b, c, ...) (§4.10).
func builtinMax(env *Env, args []value.Value) value.Value {
	if len(args) == 0 {
		warnArgCount(env, "max", 1, 0)
		return value.Null
	}
	best := value.AsDecimal(args[0])
	for _, a := range args[1:] {
		d := value.AsDecimal(a)
		if d.Cmp(best) > 0 {
			best = d
		}
	}
	return value.Number(best)
}

// builtinMin is variadic: min(a, b, c, ...) (§4.10).
func builtinMin(env *Env, args []value.Value) value.Value {
	if len(args) == 0 {
		warnArgCount(env, "min", 1, 0)
		return value.Null
	}
	best := value.AsDecimal(args[0])
	for _, a := range args[1:] {
		d := value.AsDecimal(a)
		if d.Cmp(best) < 0 {
			best = d
		}
	}
	return value.Number(best)
}

// builtinRound rounds to the given number of fractional digits; a bare
// round(n) rounds to an integer.
func builtinRound(env *Env, args []value.Value) value.Value {
	if len(args) < 1 || len(args) > 2 {
		warnArgCount(env, "round", 1, len(args))
		return value.Null
	}
	digits := int32(0)
	if len(args) == 2 {
		digits = int32(value.AsDecimal(args[1]).Int64())
	}
	return value.Number(value.AsDecimal(args[0]).RoundTo(digits))
}

func builtinFloor(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "floor", 1, len(args))
		return value.Null
	}
	return value.Number(value.AsDecimal(args[0]).Floor())
}

func builtinCeil(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "ceil", 1, len(args))
		return value.Null
	}
	return value.Number(value.AsDecimal(args[0]).Ceil())
}

func builtinPow(env *Env, args []value.Value) value.Value {
	if len(args) != 2 {
		warnArgCount(env, "pow", 2, len(args))
		return value.Null
	}
	return value.Pow(args[0], args[1])
}

func builtinSqrt(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "sqrt", 1, len(args))
		return value.Null
	}
	result, ok := value.AsDecimal(args[0]).Sqrt()
	if !ok {
		warn(env, "sqrt of a negative number is undefined")
		return value.Null
	}
	return value.Number(result)
}

func warnArgCount(env *Env, name string, want, got int) {
	warn(env, name+": expected at least "+strconv.Itoa(want)+" argument(s), got "+strconv.Itoa(got))
}

func warn(env *Env, message string) {
	if env != nil && env.Logger != nil {
		env.Logger.Warn(message)
	}
}

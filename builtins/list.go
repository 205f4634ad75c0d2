package builtins

import "github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"

func registerListBuiltins(r *Registry) {
	r.Register("in_range", builtinInRange)
	r.Register("distance_between", builtinDistanceBetween)
}

func builtinInRange(env *Env, args []value.Value) value.Value {
	if len(args) != 3 {
		warnArgCount(env, "in_range", 3, len(args))
		return value.Bool(false)
	}
	return value.Bool(value.Between(args[0], args[1], args[2]))
}

func builtinDistanceBetween(env *Env, args []value.Value) value.Value {
	if len(args) != 2 {
		warnArgCount(env, "distance_between", 2, len(args))
		return value.Null
	}
	return value.Number(value.AsDecimal(args[0]).Sub(value.AsDecimal(args[1])).Abs())
}

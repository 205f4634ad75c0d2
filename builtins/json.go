package builtins

import "github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"

func registerJSONBuiltins(r *Registry, provider JSONPathProvider) {
	if provider == nil {
		provider = MapJSONPathProvider{}
	}
	r.Register("json_get", jsonGetBuiltin(provider))
	r.Register("json_exists", jsonExistsBuiltin(provider))
	r.Register("json_size", builtinJSONSize)
	r.Register("json_type", builtinJSONType)
	r.Register("json_path", jsonGetBuiltin(provider)) // alias, §4.10
}

func jsonGetBuiltin(provider JSONPathProvider) Func {
	return func(env *Env, args []value.Value) value.Value {
		if len(args) != 2 {
			warnArgCount(env, "json_get", 2, len(args))
			return value.Null
		}
		return provider.Get(args[0], args[1].String())
	}
}

func jsonExistsBuiltin(provider JSONPathProvider) Func {
	return func(env *Env, args []value.Value) value.Value {
		if len(args) != 2 {
			warnArgCount(env, "json_exists", 2, len(args))
			return value.Bool(false)
		}
		return value.Bool(!provider.Get(args[0], args[1].String()).IsNull())
	}
}

func builtinJSONSize(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "json_size", 1, len(args))
		return value.Int(0)
	}
	switch args[0].Type() {
	case value.KindList:
		return value.Int(int64(len(args[0].AsList())))
	case value.KindObject:
		return value.Int(int64(len(args[0].AsObject())))
	default:
		return value.Int(0)
	}
}

func builtinJSONType(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "json_type", 1, len(args))
		return value.Null
	}
	return value.Text(args[0].Type().String())
}

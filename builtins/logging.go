package builtins

import "github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"

// registerLoggingBuiltins wires the side-effecting-but-inert Logging
// family (§4.10): all six forms log through the injected logrus entry and
// return Null, mirroring the teacher's logging builtins that write and
// return nothing useful to the expression tree.
func registerLoggingBuiltins(r *Registry) {
	r.Register("log", loggingBuiltin("log"))
	r.Register("print", loggingBuiltin("print"))
	r.Register("notify", loggingBuiltin("notify"))
	r.Register("alert", loggingBuiltin("alert"))
	r.Register("audit_log", loggingBuiltin("audit_log"))
	r.Register("send_notification", loggingBuiltin("send_notification"))
}

func loggingBuiltin(kind string) Func {
	return func(env *Env, args []value.Value) value.Value {
		if env == nil || env.Logger == nil {
			return value.Null
		}
		entry := env.Logger.WithField("builtin", kind)
		parts := make([]any, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		switch kind {
		case "alert":
			entry.Warn(parts...)
		case "audit_log":
			entry.WithField("audit", true).Info(parts...)
		default:
			entry.Info(parts...)
		}
		return value.Null
	}
}

package builtins

import (
	"strconv"
	"strings"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func registerStringBuiltins(r *Registry) {
	r.Register("format", builtinFormat)
	r.Register("format_currency", builtinFormatCurrency)
	r.Register("format_percentage", builtinFormatPercentage)
	r.Register("to_upper", builtinToUpper)
	r.Register("to_lower", builtinToLower)
	r.Register("length", builtinLength)
}

// builtinFormat implements positional templating: format("{0} of {1}", a, b)
// (§4.10).
func builtinFormat(env *Env, args []value.Value) value.Value {
	if len(args) == 0 {
		warnArgCount(env, "format", 1, 0)
		return value.Null
	}
	template := args[0].String()
	for i, a := range args[1:] {
		placeholder := "{" + strconv.Itoa(i) + "}"
		template = strings.ReplaceAll(template, placeholder, a.String())
	}
	return value.Text(template)
}

func builtinFormatCurrency(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "format_currency", 1, len(args))
		return value.Null
	}
	n := value.AsDecimal(args[0]).RoundTo(2)
	return value.Text("$" + formatFixed(n, 2))
}

func builtinFormatPercentage(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "format_percentage", 1, len(args))
		return value.Null
	}
	n := value.AsDecimal(args[0]).RoundTo(2)
	return value.Text(formatFixed(n, 2) + "%")
}

// formatFixed renders a Decimal with exactly `digits` fractional places,
// padding with trailing zeros whenever the rendered string carries fewer.
func formatFixed(d value.Decimal, digits int32) string {
	s := d.RoundTo(digits).String()
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		if digits == 0 {
			return s
		}
		return s + "." + strings.Repeat("0", int(digits))
	}
	frac := s[dot+1:]
	if len(frac) < int(digits) {
		return s + strings.Repeat("0", int(digits)-len(frac))
	}
	return s
}

func builtinToUpper(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "to_upper", 1, len(args))
		return value.Null
	}
	return value.Text(strings.ToUpper(args[0].String()))
}

func builtinToLower(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "to_lower", 1, len(args))
		return value.Null
	}
	return value.Text(strings.ToLower(args[0].String()))
}

func builtinLength(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "length", 1, len(args))
		return value.Null
	}
	switch args[0].Type() {
	case value.KindText:
		return value.Int(int64(len([]rune(args[0].AsText()))))
	case value.KindList:
		return value.Int(int64(len(args[0].AsList())))
	case value.KindObject:
		return value.Int(int64(len(args[0].AsObject())))
	default:
		return value.Int(0)
	}
}

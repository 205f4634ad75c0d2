package builtins

import (
	"strings"
	"time"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func registerDateBuiltins(r *Registry) {
	r.Register("dateadd", builtinDateAdd)
	r.Register("datediff", builtinDateDiff)
	r.Register("time_hour", builtinTimeHour)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
}

// parseDate accepts ISO-8601 and MM/DD/YYYY per §4.10; invalid input
// produces (time.Time{}, false) rather than an error, so callers return
// Null.
func parseDate(v value.Value) (time.Time, bool) {
	if v.Type() == value.KindDateTime {
		return v.AsTime(), true
	}
	s := strings.TrimSpace(v.String())
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// builtinDateAdd implements dateadd(date, n, unit) where unit is one of
// days|weeks|months|years (§4.10).
func builtinDateAdd(env *Env, args []value.Value) value.Value {
	if len(args) != 3 {
		warnArgCount(env, "dateadd", 3, len(args))
		return value.Null
	}
	t, ok := parseDate(args[0])
	if !ok {
		warn(env, "dateadd: invalid date input")
		return value.Null
	}
	n := int(value.AsDecimal(args[1]).Int64())
	unit := strings.ToLower(args[2].String())

	var result time.Time
	switch unit {
	case "days", "day":
		result = t.AddDate(0, 0, n)
	case "weeks", "week":
		result = t.AddDate(0, 0, n*7)
	case "months", "month":
		result = t.AddDate(0, n, 0)
	case "years", "year":
		result = t.AddDate(n, 0, 0)
	default:
		warn(env, "dateadd: unknown unit "+unit)
		return value.Null
	}
	return value.DateTime(result)
}

// builtinDateDiff implements datediff(a, b, unit): b - a in whole units.
func builtinDateDiff(env *Env, args []value.Value) value.Value {
	if len(args) != 3 {
		warnArgCount(env, "datediff", 3, len(args))
		return value.Null
	}
	a, ok1 := parseDate(args[0])
	b, ok2 := parseDate(args[1])
	if !ok1 || !ok2 {
		warn(env, "datediff: invalid date input")
		return value.Null
	}
	unit := strings.ToLower(args[2].String())
	delta := b.Sub(a)

	switch unit {
	case "days", "day":
		return value.Int(int64(delta.Hours() / 24))
	case "weeks", "week":
		return value.Int(int64(delta.Hours() / 24 / 7))
	case "months", "month":
		return value.Int(int64(monthsBetween(a, b)))
	case "years", "year":
		return value.Int(int64(monthsBetween(a, b) / 12))
	default:
		warn(env, "datediff: unknown unit "+unit)
		return value.Null
	}
}

func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}

// builtinTimeHour returns the current hour of day (0-23) in UTC, used by
// time-of-day gated rules.
func builtinTimeHour(env *Env, args []value.Value) value.Value {
	return value.Int(int64(time.Now().UTC().Hour()))
}

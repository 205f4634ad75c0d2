package builtins

import (
	"regexp"
	"strings"
	"time"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func registerValidationBuiltins(r *Registry) {
	r.Register("is_valid_credit_score", builtinIsValidCreditScore)
	r.Register("is_valid_ssn", builtinIsValidSSN)
	r.Register("is_valid_account", builtinIsValidAccount)
	r.Register("is_valid_routing", builtinIsValidRouting)
	r.Register("is_valid", builtinIsValid)
	r.Register("is_business_day", builtinIsBusinessDayFn)
	r.Register("age_meets_requirement", builtinAgeMeetsRequirementFn)
}

var ssnPattern = regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`)
var accountPattern = regexp.MustCompile(`^\d{4,17}$`)
var routingPattern = regexp.MustCompile(`^\d{9}$`)
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func builtinIsValidCreditScore(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "is_valid_credit_score", 1, len(args))
		return value.Bool(false)
	}
	return value.Bool(isValidCreditScore(args[0]))
}

func isValidCreditScore(v value.Value) bool {
	d := value.AsDecimal(v)
	return d.Cmp(value.NewFromInt64(300)) >= 0 && d.Cmp(value.NewFromInt64(850)) <= 0
}

func builtinIsValidSSN(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "is_valid_ssn", 1, len(args))
		return value.Bool(false)
	}
	return value.Bool(ssnPattern.MatchString(strings.TrimSpace(args[0].String())))
}

func builtinIsValidAccount(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "is_valid_account", 1, len(args))
		return value.Bool(false)
	}
	return value.Bool(accountPattern.MatchString(strings.TrimSpace(args[0].String())))
}

func builtinIsValidRouting(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "is_valid_routing", 1, len(args))
		return value.Bool(false)
	}
	return value.Bool(routingPattern.MatchString(strings.TrimSpace(args[0].String())))
}

// builtinIsValid is a general-purpose non-null/non-empty check (§4.10).
func builtinIsValid(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "is_valid", 1, len(args))
		return value.Bool(false)
	}
	return value.Bool(args[0].Truthy())
}

func isBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

func builtinIsBusinessDayFn(env *Env, args []value.Value) value.Value {
	if len(args) != 1 {
		warnArgCount(env, "is_business_day", 1, len(args))
		return value.Bool(false)
	}
	t, ok := parseDate(args[0])
	if !ok {
		warn(env, "is_business_day: invalid date input")
		return value.Bool(false)
	}
	return value.Bool(isBusinessDay(t))
}

func builtinAgeMeetsRequirementFn(env *Env, args []value.Value) value.Value {
	if len(args) != 2 {
		warnArgCount(env, "age_meets_requirement", 2, len(args))
		return value.Bool(false)
	}
	return value.Bool(ageMeetsRequirement(args[0], args[1]))
}

// ageMeetsRequirement backs both the age_meets_requirement builtin and the
// age_at_least/age_meets_requirement condition keyword operators
// (§4.2, §4.10).
func ageMeetsRequirement(dob, years value.Value) bool {
	birth, ok := parseDate(dob)
	if !ok {
		return false
	}
	requiredYears := int(value.AsDecimal(years).Int64())
	cutoff := birth.AddDate(requiredYears, 0, 0)
	return !time.Now().UTC().Before(cutoff)
}

func isValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// EvaluatePredicate dispatches the §4.2 keyword validator operators
// (is_null, is_credit_score, age_at_least, ...) for the condition
// evaluator's KeywordPredicate node — the same pure predicate table the
// is_valid_* builtin functions are built on, shared so a condition like
// `score is_credit_score` and a function call `is_valid_credit_score(score)`
// agree (§4.7).
func EvaluatePredicate(name string, operand, operand2 value.Value) (result bool, recognized bool) {
	switch name {
	case "is_null":
		return operand.IsNull(), true
	case "is_not_null":
		return !operand.IsNull(), true
	case "is_empty":
		return !operand.Truthy() && isEmptyKind(operand), true
	case "is_not_empty":
		return operand.Truthy() || !isEmptyKind(operand), true
	case "is_numeric":
		return isNumeric(operand), true
	case "is_positive":
		return value.AsDecimal(operand).IsPositive(), true
	case "is_negative":
		return value.AsDecimal(operand).IsNegative(), true
	case "is_email":
		return isValidEmail(operand.String()), true
	case "is_credit_score":
		return isValidCreditScore(operand), true
	case "is_ssn":
		return ssnPattern.MatchString(strings.TrimSpace(operand.String())), true
	case "is_account_number":
		return accountPattern.MatchString(strings.TrimSpace(operand.String())), true
	case "is_routing_number":
		return routingPattern.MatchString(strings.TrimSpace(operand.String())), true
	case "is_business_day":
		t, ok := parseDate(operand)
		return ok && isBusinessDay(t), true
	case "age_at_least", "age_meets_requirement":
		return ageMeetsRequirement(operand, operand2), true
	default:
		return false, false
	}
}

func isEmptyKind(v value.Value) bool {
	switch v.Type() {
	case value.KindNull:
		return true
	case value.KindText:
		return v.AsText() == ""
	case value.KindList:
		return len(v.AsList()) == 0
	case value.KindObject:
		return len(v.AsObject()) == 0
	default:
		return false
	}
}

func isNumeric(v value.Value) bool {
	switch v.Type() {
	case value.KindNumber:
		return true
	case value.KindText:
		_, err := value.ParseDecimal(strings.TrimSpace(v.AsText()))
		return err == nil
	default:
		return false
	}
}

package builtins

import (
	"math"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func registerFinancialBuiltins(r *Registry) {
	r.Register("calculate_loan_payment", builtinLoanPayment)
	r.Register("calculate_compound_interest", builtinCompoundInterest)
	r.Register("calculate_amortization", builtinAmortization)
	r.Register("debt_to_income_ratio", builtinDebtToIncome)
	r.Register("credit_utilization", builtinCreditUtilization)
	r.Register("loan_to_value", builtinLoanToValue)
	r.Register("payment_history_score", builtinPaymentHistoryScore)
}

// builtinLoanPayment implements calculate_loan_payment(P, r, t): the
// standard fixed-rate amortized payment formula, where P is principal, r
// the per-period interest rate (e.g. monthly rate as a decimal fraction),
// and t the number of periods (§4.10).
func builtinLoanPayment(env *Env, args []value.Value) value.Value {
	if len(args) != 3 {
		warnArgCount(env, "calculate_loan_payment", 3, len(args))
		return value.Null
	}
	principal := value.AsDecimal(args[0]).Float64()
	rate := value.AsDecimal(args[1]).Float64()
	periods := value.AsDecimal(args[2]).Float64()

	if rate == 0 {
		if periods == 0 {
			warn(env, "calculate_loan_payment: zero periods")
			return value.Null
		}
		return value.Float(principal / periods)
	}
	factor := math.Pow(1+rate, periods)
	payment := principal * rate * factor / (factor - 1)
	return value.Number(value.NewFromFloat(payment).RoundTo(2))
}

// builtinCompoundInterest implements calculate_compound_interest(P, r, n, t):
// principal, annual rate, compounding periods per year, years.
func builtinCompoundInterest(env *Env, args []value.Value) value.Value {
	if len(args) != 4 {
		warnArgCount(env, "calculate_compound_interest", 4, len(args))
		return value.Null
	}
	principal := value.AsDecimal(args[0]).Float64()
	rate := value.AsDecimal(args[1]).Float64()
	compoundsPerYear := value.AsDecimal(args[2]).Float64()
	years := value.AsDecimal(args[3]).Float64()
	if compoundsPerYear == 0 {
		warn(env, "calculate_compound_interest: zero compounding frequency")
		return value.Null
	}
	amount := principal * math.Pow(1+rate/compoundsPerYear, compoundsPerYear*years)
	return value.Number(value.NewFromFloat(amount).RoundTo(2))
}

// builtinAmortization implements calculate_amortization(P, r, t): total
// interest paid across the life of a fixed-rate amortized loan.
func builtinAmortization(env *Env, args []value.Value) value.Value {
	if len(args) != 3 {
		warnArgCount(env, "calculate_amortization", 3, len(args))
		return value.Null
	}
	payment := builtinLoanPayment(env, args)
	if payment.IsNull() {
		return value.Null
	}
	principal := value.AsDecimal(args[0]).Float64()
	periods := value.AsDecimal(args[2]).Float64()
	totalPaid := payment.AsNumber().Float64() * periods
	return value.Number(value.NewFromFloat(totalPaid - principal).RoundTo(2))
}

func builtinDebtToIncome(env *Env, args []value.Value) value.Value {
	if len(args) != 2 {
		warnArgCount(env, "debt_to_income_ratio", 2, len(args))
		return value.Null
	}
	q := value.AsDecimal(args[0]).Quo(value.AsDecimal(args[1]))
	if q.DivByZero {
		warn(env, "debt_to_income_ratio: zero income")
		return value.Null
	}
	return value.Number(q.Quotient)
}

func builtinCreditUtilization(env *Env, args []value.Value) value.Value {
	if len(args) != 2 {
		warnArgCount(env, "credit_utilization", 2, len(args))
		return value.Null
	}
	q := value.AsDecimal(args[0]).Quo(value.AsDecimal(args[1]))
	if q.DivByZero {
		warn(env, "credit_utilization: zero limit")
		return value.Null
	}
	return value.Number(q.Quotient)
}

func builtinLoanToValue(env *Env, args []value.Value) value.Value {
	if len(args) != 2 {
		warnArgCount(env, "loan_to_value", 2, len(args))
		return value.Null
	}
	q := value.AsDecimal(args[0]).Quo(value.AsDecimal(args[1]))
	if q.DivByZero {
		warn(env, "loan_to_value: zero value")
		return value.Null
	}
	return value.Number(q.Quotient)
}

func builtinPaymentHistoryScore(env *Env, args []value.Value) value.Value {
	if len(args) != 2 {
		warnArgCount(env, "payment_history_score", 2, len(args))
		return value.Null
	}
	q := value.AsDecimal(args[0]).Quo(value.AsDecimal(args[1]))
	if q.DivByZero {
		warn(env, "payment_history_score: zero total payments")
		return value.Null
	}
	score := q.Quotient.Mul(value.NewFromInt64(100))
	return value.Number(score.RoundTo(2))
}

package parser

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/source"
)

// Category is a small error category code attached to every parse failure
// (§4.3: "a small category code per error").
type Category string

const (
	CategoryUnexpectedToken Category = "EXPR_UNEXPECTED_TOKEN"
	CategoryMissingRParen   Category = "EXPR_MISSING_RPAREN"
	CategoryMissingRBracket Category = "EXPR_MISSING_RBRACKET"
	CategoryUnknownOperator Category = "EXPR_UNKNOWN_OPERATOR"
	CategoryInvalidLiteral  Category = "EXPR_INVALID_LITERAL"
	CategoryCalculateCall   Category = "ACTION_PARSE" // FunctionCall/RestCall/JsonPath inside Calculate
	CategoryActionKeyword   Category = "ACTION_PARSE"
)

// Error wraps a parse failure with its category and source location, via
// samber/oops so the §7 error-category scheme composes with errors.As and
// oops.GetPublic the same way the rest of the engine's error handling does.
func newError(category Category, loc source.Location, format string, args ...any) error {
	return oops.
		Code(string(category)).
		With("line", loc.Line).
		With("column", loc.Column).
		Errorf(format, args...)
}

// errorf is a small convenience wrapper matching Go's error-formatting
// conventions for call sites that already have a location string baked in.
func errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Package lexer tokenizes the expression/condition/action dialect embedded
// in rule-document YAML strings.
package lexer

import "github.com/fireflyframework/fireflyframework-rule-engine-sub001/source"

// Kind identifies a token's lexical category.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	IDENT
	INT
	DECIMAL
	STRING
	BOOL
	NULL

	// Punctuation
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA

	// Operators — canonicalized at the lexer so the parser never has to
	// think about which spelling was used; the raw spelling survives on
	// Token.Text for diagnostics (SPEC_FULL §9, "dialect overlap").
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	CARET // covers both `^` and `**`

	LT
	LE
	GT
	GE
	EQ
	NE
	ASSIGN
	BANG

	// Keyword operators (§4.2)
	AND
	OR
	NOT
	IN
	IN_LIST
	NOT_IN
	BETWEEN
	CONTAINS
	STARTS_WITH
	ENDS_WITH
	MATCHES
	AT_LEAST
	AT_MOST
	GREATER_THAN
	LESS_THAN
	GREATER_THAN_OR_EQUAL
	LESS_THAN_OR_EQUAL
	EQUALS
	IS_NULL
	IS_NOT_NULL
	IS_EMPTY
	IS_NOT_EMPTY
	IS_NUMERIC
	IS_POSITIVE
	IS_NEGATIVE
	IS_EMAIL
	IS_CREDIT_SCORE
	IS_SSN
	IS_ACCOUNT_NUMBER
	IS_ROUTING_NUMBER
	IS_BUSINESS_DAY
	AGE_AT_LEAST
	AGE_MEETS_REQUIREMENT
)

var names = map[Kind]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL", IDENT: "IDENT", INT: "INT",
	DECIMAL: "DECIMAL", STRING: "STRING", BOOL: "BOOL", NULL: "NULL",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]", COMMA: ",",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", CARET: "^",
	LT: "<", LE: "<=", GT: ">", GE: ">=", EQ: "==", NE: "!=", ASSIGN: "=",
	BANG: "!",
	AND: "and", OR: "or", NOT: "not", IN: "in", IN_LIST: "in_list",
	NOT_IN: "not_in", BETWEEN: "between", CONTAINS: "contains",
	STARTS_WITH: "starts_with", ENDS_WITH: "ends_with", MATCHES: "matches",
	AT_LEAST: "at_least", AT_MOST: "at_most", GREATER_THAN: "greater_than",
	LESS_THAN: "less_than", GREATER_THAN_OR_EQUAL: "greater_than_or_equal",
	LESS_THAN_OR_EQUAL: "less_than_or_equal", EQUALS: "equals",
	IS_NULL: "is_null", IS_NOT_NULL: "is_not_null", IS_EMPTY: "is_empty",
	IS_NOT_EMPTY: "is_not_empty", IS_NUMERIC: "is_numeric",
	IS_POSITIVE: "is_positive", IS_NEGATIVE: "is_negative",
	IS_EMAIL: "is_email", IS_CREDIT_SCORE: "is_credit_score",
	IS_SSN: "is_ssn", IS_ACCOUNT_NUMBER: "is_account_number",
	IS_ROUTING_NUMBER: "is_routing_number", IS_BUSINESS_DAY: "is_business_day",
	AGE_AT_LEAST: "age_at_least", AGE_MEETS_REQUIREMENT: "age_meets_requirement",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// keywords maps lowercase identifier spellings to their keyword-operator
// Kind. Plain identifiers that don't match stay IDENT.
var keywords = map[string]Kind{
	"and": AND, "or": OR, "not": NOT, "in": IN, "in_list": IN_LIST,
	"not_in": NOT_IN, "between": BETWEEN, "contains": CONTAINS,
	"starts_with": STARTS_WITH, "ends_with": ENDS_WITH, "matches": MATCHES,
	"at_least": AT_LEAST, "at_most": AT_MOST, "greater_than": GREATER_THAN,
	"less_than": LESS_THAN, "greater_than_or_equal": GREATER_THAN_OR_EQUAL,
	"less_than_or_equal": LESS_THAN_OR_EQUAL, "equals": EQUALS,
	"is_null": IS_NULL, "is_not_null": IS_NOT_NULL, "is_empty": IS_EMPTY,
	"is_not_empty": IS_NOT_EMPTY, "is_numeric": IS_NUMERIC,
	"is_positive": IS_POSITIVE, "is_negative": IS_NEGATIVE,
	"is_email": IS_EMAIL, "is_credit_score": IS_CREDIT_SCORE,
	"is_ssn": IS_SSN, "is_account_number": IS_ACCOUNT_NUMBER,
	"is_routing_number": IS_ROUTING_NUMBER, "is_business_day": IS_BUSINESS_DAY,
	"age_at_least": AGE_AT_LEAST, "age_meets_requirement": AGE_MEETS_REQUIREMENT,
	"true": BOOL, "false": BOOL, "null": NULL,
}

// LookupIdent classifies an identifier-shaped lexeme as either a keyword
// operator/literal or a plain IDENT.
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Token is a single lexical unit.
type Token struct {
	Kind     Kind
	Text     string // original spelling, e.g. "**" or "at_least"
	Literal  string // decoded literal value (string escapes applied)
	Location source.Location
}

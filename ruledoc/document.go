// Package ruledoc parses a rule-document YAML file into compiled AST
// (§4.4): three top-level shapes (Simple when/then/else, Structured
// conditions block, Multi rules list), each sharing the same action-line
// grammar for then/else bodies.
package ruledoc

import (
	"regexp"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/parser"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// ConstantDecl names a constant the document references, with an optional
// inline default used when the constant provider has nothing for it
// (§4.9 steps 3-5). Code follows the UPPER_SNAKE_CASE naming convention.
type ConstantDecl struct {
	Code       string
	Default    value.Value
	HasDefault bool
}

// OutputDecl names a value the orchestrator projects into the result
// (§4.9 step 9); Type is advisory only, never coerced (§6).
type OutputDecl struct {
	Name string
	Type string
}

// CircuitBreakerConfig is the document-level circuit-breaker policy
// (§3 RuleDocument.circuit_breaker_config, §6). It is parsed and carried
// on Document; no package reads it during evaluation.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	TimeoutDuration  time.Duration
	RecoveryTimeout  time.Duration
}

// SubRule is one entry of a Multi-shape document's `rules:` list (§4.4).
type SubRule struct {
	Name string
	When ast.Condition
	Then []ast.Action
	Else []ast.Action
}

// Document is the compiled form of a rule-document YAML file: every
// condition/action string line has already been parsed into AST (§3
// RuleDocument).
type Document struct {
	Name          string
	Description   string
	Version       string
	Metadata      map[string]value.Value
	CircuitBreaker CircuitBreakerConfig
	Inputs        []string
	Constants     []ConstantDecl
	Outputs       []OutputDecl

	// Simple/Structured shape (mutually exclusive with Rules).
	When ast.Condition
	Then []ast.Action
	Else []ast.Action

	// Multi shape.
	Rules []SubRule

	// Warnings collects non-fatal naming-convention and version-parse
	// issues (§6 "Violations are warnings, not fatal", §7 NAMING_CONVENTION).
	Warnings []string
}

// HasSubRules reports whether this document uses the Multi shape.
func (d *Document) HasSubRules() bool {
	return len(d.Rules) > 0
}

// rawDocument mirrors the YAML shape before compilation; fields are
// interface{}/string so all three top-level shapes can share one decode
// pass before dispatch.
type rawDocument struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Version     string                 `yaml:"version"`
	Metadata    map[string]interface{} `yaml:"metadata"`

	CircuitBreaker *rawCircuitBreaker `yaml:"circuit_breaker"`

	Inputs    []string      `yaml:"inputs"`
	Constants []rawConstant `yaml:"constants"`
	Output    map[string]string `yaml:"output"`

	When []string `yaml:"when"`
	Then []string `yaml:"then"`
	Else []string `yaml:"else"`

	Conditions *rawConditions `yaml:"conditions"`
	Rules      []rawSubRule   `yaml:"rules"`
}

type rawCircuitBreaker struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold int    `yaml:"failure_threshold"`
	TimeoutDuration  string `yaml:"timeout_duration"`
	RecoveryTimeout  string `yaml:"recovery_timeout"`
}

type rawConstant struct {
	Code         string      `yaml:"code"`
	DefaultValue interface{} `yaml:"defaultValue"`
}

type rawConditions struct {
	If   interface{} `yaml:"if"`
	Then *rawActions `yaml:"then"`
	Else *rawActions `yaml:"else"`
}

type rawActions struct {
	Actions []string `yaml:"actions"`
}

type rawSubRule struct {
	Name       string         `yaml:"name"`
	When       []string       `yaml:"when"`
	Conditions *rawConditions `yaml:"conditions"`
	Then       []string       `yaml:"then"`
	Else       []string       `yaml:"else"`
}

// Parse compiles a rule-document YAML string into a Document.
func Parse(yamlText string) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal([]byte(yamlText), &raw); err != nil {
		return nil, oops.Code("YAML_STRUCTURE").Wrapf(err, "invalid YAML")
	}

	doc := &Document{
		Name:        raw.Name,
		Description: raw.Description,
		Version:     raw.Version,
	}
	doc.checkVersion()

	if len(raw.Metadata) > 0 {
		doc.Metadata = make(map[string]value.Value, len(raw.Metadata))
		for k, v := range raw.Metadata {
			doc.Metadata[k] = toValue(v)
		}
	}
	if raw.CircuitBreaker != nil {
		cfg := CircuitBreakerConfig{
			Enabled:          raw.CircuitBreaker.Enabled,
			FailureThreshold: raw.CircuitBreaker.FailureThreshold,
		}
		if d, err := time.ParseDuration(raw.CircuitBreaker.TimeoutDuration); err == nil {
			cfg.TimeoutDuration = d
		}
		if d, err := time.ParseDuration(raw.CircuitBreaker.RecoveryTimeout); err == nil {
			cfg.RecoveryTimeout = d
		}
		doc.CircuitBreaker = cfg
	}

	for _, name := range raw.Inputs {
		doc.Inputs = append(doc.Inputs, name)
		doc.checkNaming(name, camelCasePattern, "input names should be camelCase")
	}
	for name, typ := range raw.Output {
		doc.Outputs = append(doc.Outputs, OutputDecl{Name: name, Type: typ})
	}
	for _, c := range raw.Constants {
		decl := ConstantDecl{Code: c.Code}
		if c.DefaultValue != nil {
			decl.Default = toValue(c.DefaultValue)
			decl.HasDefault = true
		}
		doc.Constants = append(doc.Constants, decl)
		doc.checkNaming(c.Code, upperSnakeCasePattern, "constant codes should be UPPER_SNAKE_CASE")
	}

	switch {
	case len(raw.Rules) > 0:
		for _, rr := range raw.Rules {
			sr, err := compileSubRule(rr)
			if err != nil {
				return nil, err
			}
			doc.Rules = append(doc.Rules, sr)
		}
	case raw.Conditions != nil:
		when, then, els, err := compileConditionsBlock(raw.Conditions)
		if err != nil {
			return nil, err
		}
		doc.When, doc.Then, doc.Else = when, then, els
	default:
		when, then, els, err := compileSimpleShape(raw.When, raw.Then, raw.Else)
		if err != nil {
			return nil, err
		}
		doc.When, doc.Then, doc.Else = when, then, els
	}

	return doc, nil
}

func compileSimpleShape(when, then, els []string) (ast.Condition, []ast.Action, []ast.Action, error) {
	cond, err := compileWhenLines(when)
	if err != nil {
		return nil, nil, nil, err
	}
	thenActions, err := ParseActionLines(then)
	if err != nil {
		return nil, nil, nil, err
	}
	elseActions, err := ParseActionLines(els)
	if err != nil {
		return nil, nil, nil, err
	}
	return cond, thenActions, elseActions, nil
}

// compileWhenLines ANDs together every line under `when:` — multiple
// lines form an implicit conjunction (§4.4 Simple shape). A sub-rule with
// no `when` executes its `then` unconditionally (§3).
func compileWhenLines(lines []string) (ast.Condition, error) {
	if len(lines) == 0 {
		return &ast.ExpressionCondition{Expr: &ast.Literal{Val: value.Bool(true)}}, nil
	}
	conds := make([]ast.Condition, 0, len(lines))
	for _, line := range lines {
		c, err := parser.ParseCondition(line)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	if len(conds) == 1 {
		return conds[0], nil
	}
	return &ast.Logical{Op: ast.LogicalAnd, Operands: conds}, nil
}

func compileConditionsBlock(c *rawConditions) (ast.Condition, []ast.Action, []ast.Action, error) {
	cond, err := compileConditionNode(c.If)
	if err != nil {
		return nil, nil, nil, err
	}
	var thenActions, elseActions []ast.Action
	if c.Then != nil {
		thenActions, err = ParseActionLines(c.Then.Actions)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	if c.Else != nil {
		elseActions, err = ParseActionLines(c.Else.Actions)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return cond, thenActions, elseActions, nil
}

func compileSubRule(rr rawSubRule) (SubRule, error) {
	var cond ast.Condition
	var err error
	switch {
	case rr.Conditions != nil:
		var then, els []ast.Action
		cond, then, els, err = compileConditionsBlock(rr.Conditions)
		if err != nil {
			return SubRule{}, err
		}
		return SubRule{Name: rr.Name, When: cond, Then: then, Else: els}, nil
	default:
		cond, err = compileWhenLines(rr.When)
		if err != nil {
			return SubRule{}, err
		}
	}
	thenActions, err := ParseActionLines(rr.Then)
	if err != nil {
		return SubRule{}, err
	}
	elseActions, err := ParseActionLines(rr.Else)
	if err != nil {
		return SubRule{}, err
	}
	return SubRule{Name: rr.Name, When: cond, Then: thenActions, Else: elseActions}, nil
}

// compileConditionNode handles the Structured shape's `if:` block, which
// may either be a plain condition string or a nested and/or/not/compare
// structure expressed as a YAML map (§4.4).
func compileConditionNode(node interface{}) (ast.Condition, error) {
	switch v := node.(type) {
	case string:
		return parser.ParseCondition(v)
	case map[string]interface{}:
		if andList, ok := v["and"]; ok {
			return compileLogicalList(andList, ast.LogicalAnd)
		}
		if orList, ok := v["or"]; ok {
			return compileLogicalList(orList, ast.LogicalOr)
		}
		if notNode, ok := v["not"]; ok {
			inner, err := compileConditionNode(notNode)
			if err != nil {
				return nil, err
			}
			return &ast.Not{Operand: inner}, nil
		}
		if compareStr, ok := v["compare"]; ok {
			if s, ok := compareStr.(string); ok {
				return parser.ParseCondition(s)
			}
		}
		return nil, oops.Code("YAML_STRUCTURE").Errorf("unrecognized condition node: %v", v)
	default:
		return nil, oops.Code("YAML_STRUCTURE").Errorf("unrecognized condition node: %v", v)
	}
}

func compileLogicalList(raw interface{}, op ast.LogicalOp) (ast.Condition, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, oops.Code("YAML_STRUCTURE").Errorf("and/or must be a list")
	}
	operands := make([]ast.Condition, 0, len(items))
	for _, item := range items {
		c, err := compileConditionNode(item)
		if err != nil {
			return nil, err
		}
		operands = append(operands, c)
	}
	return &ast.Logical{Op: op, Operands: operands}, nil
}

var (
	camelCasePattern      = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	upperSnakeCasePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

func (d *Document) checkNaming(name string, pattern *regexp.Regexp, message string) {
	if name == "" || pattern.MatchString(name) {
		return
	}
	d.Warnings = append(d.Warnings, "NAMING_CONVENTION: "+message+": "+name)
}

func (d *Document) checkVersion() {
	if d.Version == "" {
		return
	}
	if _, err := semver.NewVersion(d.Version); err != nil {
		d.Warnings = append(d.Warnings, "NAMING_CONVENTION: document version "+d.Version+" is not valid semver: "+err.Error())
	}
}

// toValue converts a yaml.v3-decoded interface{} tree into a value.Value,
// mirroring the JSON decoding helper in builtins but starting from YAML's
// native scalar types rather than encoding/json's.
func toValue(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null
	case bool:
		return value.Bool(t)
	case int:
		return value.Int(int64(t))
	case int64:
		return value.Int(t)
	case float64:
		return value.Float(t)
	case string:
		return value.Text(t)
	case []interface{}:
		items := make([]value.Value, len(t))
		for i, it := range t {
			items[i] = toValue(it)
		}
		return value.List(items)
	case map[string]interface{}:
		fields := make(map[string]value.Value, len(t))
		for k, val := range t {
			fields[k] = toValue(val)
		}
		return value.Object(fields)
	default:
		return value.Null
	}
}

// Package value implements the tagged Value model the engine evaluates
// expressions into: Null, Bool, Number (fixed-precision decimal), Text,
// List, Object and DateTime, plus the coercion and arithmetic rules that
// let them interoperate.
package value

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindText
	KindList
	KindObject
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	case KindDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Value is the sum type every expression, condition and action operates
// over. It is immutable by convention — mutating actions (append, remove,
// forEach accumulation) always produce a new Value rather than mutating
// one in place, except where Clone() is used to intentionally detach a
// nested structure before mutation.
type Value struct {
	kind Kind
	b    bool
	n    Decimal
	s    string
	list []Value
	obj  map[string]Value
	t    time.Time
}

// Null is the singular null value.
var Null = Value{kind: KindNull}

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number constructs a numeric Value from a Decimal.
func Number(d Decimal) Value { return Value{kind: KindNumber, n: d} }

// Int constructs a numeric Value from an int64.
func Int(i int64) Value { return Value{kind: KindNumber, n: NewFromInt64(i)} }

// Float constructs a numeric Value from a float64.
func Float(f float64) Value { return Value{kind: KindNumber, n: NewFromFloat(f)} }

// Text constructs a string Value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// List constructs a list Value. The slice is copied defensively.
func List(items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// Object constructs a map Value. The map is copied defensively.
func Object(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{kind: KindObject, obj: cp}
}

// DateTime constructs a date/time Value (stored in UTC).
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t.UTC()} }

// Type returns the variant tag.
func (v Value) Type() Kind { return v.kind }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the underlying bool; only meaningful when Type()==KindBool.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the underlying Decimal; only meaningful when Type()==KindNumber.
func (v Value) AsNumber() Decimal { return v.n }

// AsText returns the underlying string; only meaningful when Type()==KindText.
func (v Value) AsText() string { return v.s }

// AsList returns the underlying slice; only meaningful when Type()==KindList.
// The returned slice is a defensive copy.
func (v Value) AsList() []Value {
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp
}

// AsObject returns the underlying map; only meaningful when Type()==KindObject.
// The returned map is a defensive copy.
func (v Value) AsObject() map[string]Value {
	cp := make(map[string]Value, len(v.obj))
	for k, val := range v.obj {
		cp[k] = val
	}
	return cp
}

// AsTime returns the underlying time.Time; only meaningful when Type()==KindDateTime.
func (v Value) AsTime() time.Time { return v.t }

// Clone deep-copies a Value. Lists/objects are copied recursively; this
// backs EvaluationContext.copy() for forEach isolation and speculative
// evaluation.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, it := range v.list {
			items[i] = it.Clone()
		}
		return Value{kind: KindList, list: items}
	case KindObject:
		fields := make(map[string]Value, len(v.obj))
		for k, val := range v.obj {
			fields[k] = val.Clone()
		}
		return Value{kind: KindObject, obj: fields}
	default:
		return v
	}
}

// Truthy implements the engine's truthiness mapping (§4.1):
// Null→false, Bool→itself, Number→non-zero, Text→non-empty,
// List/Object→non-empty, DateTime→always true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return !v.n.IsZero()
	case KindText:
		return v.s != ""
	case KindList:
		return len(v.list) > 0
	case KindObject:
		return len(v.obj) > 0
	case KindDateTime:
		return true
	default:
		return true
	}
}

// String renders v the way it would appear in diagnostics or when
// concatenated into text (Binary(+) text coercion uses this).
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.n.String()
	case KindText:
		return v.s
	case KindList:
		parts := make([]string, len(v.list))
		for i, it := range v.list {
			parts[i] = it.literal()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, v.obj[k].literal())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindDateTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// literal is like String but quotes Text values, used when rendering
// collections so string members are distinguishable from bare identifiers.
func (v Value) literal() string {
	if v.kind == KindText {
		return fmt.Sprintf("%q", v.s)
	}
	return v.String()
}

// Equal reports value equality after coercion attempts (§4.1): numeric
// variants compare by numeric value, everything else compares structurally.
func (v Value) Equal(other Value) bool {
	if v.kind == KindNumber || other.kind == KindNumber {
		if vd, ok := v.tryDecimal(); ok {
			if od, ok2 := other.tryDecimal(); ok2 {
				return vd.Cmp(od) == 0
			}
		}
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindText:
		return v.s == other.s
	case KindDateTime:
		return v.t.Equal(other.t)
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, val := range v.obj {
			ov, ok := other.obj[k]
			if !ok || !val.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// tryDecimal attempts the coercions Equal needs for cross-type numeric
// comparison: Number as itself, Bool as 1/0, Text parsed strictly (no
// silent zero fallback — that fallback belongs to AsDecimal, not equality).
func (v Value) tryDecimal() (Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindBool:
		if v.b {
			return NewFromInt64(1), true
		}
		return NewFromInt64(0), true
	case KindText:
		d, err := ParseDecimal(v.s)
		if err != nil {
			return Decimal{}, false
		}
		return d, true
	default:
		return Decimal{}, false
	}
}

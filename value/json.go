package value

import "encoding/json"

// MarshalJSON projects a Value onto plain JSON types (§6 output_data is a
// mapping<string, value>): Number marshals as a JSON number via its
// decimal string form, DateTime as RFC3339, everything else naturally.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return []byte(v.n.String()), nil
	case KindText:
		return json.Marshal(v.s)
	case KindList:
		return json.Marshal(v.list)
	case KindObject:
		return json.Marshal(v.obj)
	case KindDateTime:
		return json.Marshal(v.t.Format("2006-01-02T15:04:05Z07:00"))
	default:
		return []byte("null"), nil
	}
}

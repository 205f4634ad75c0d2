package builtins

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// DefaultRestTimeout is applied when a RestCall's timeout argument is
// absent (§5: "REST calls take a per-call timeout (default 30 s)").
const DefaultRestTimeout = 30 * time.Second

// RestProvider executes an outbound HTTP call and always returns a result
// map — network failures surface inside the map rather than as a Go error
// (§4.6: "network failures are not exceptions").
type RestProvider interface {
	Call(ctx context.Context, method, url string, body, headers value.Value, timeout time.Duration) value.Value
}

// JSONPathProvider resolves a dotted + [index] path against a decoded JSON
// value. An unmatched path returns value.Null (§4.6, §4.10).
type JSONPathProvider interface {
	Get(source value.Value, path string) value.Value
}

// NetHTTPRestProvider is the engine's default RestProvider, grounded on
// the teacher's builtinCurl helper: a plain net/http client with a bounded
// response body read.
type NetHTTPRestProvider struct {
	Client *http.Client
}

// NewNetHTTPRestProvider builds a provider with a shared *http.Client; the
// per-call timeout is still applied via context, so the client itself
// carries no fixed Timeout field.
func NewNetHTTPRestProvider() *NetHTTPRestProvider {
	return &NetHTTPRestProvider{Client: &http.Client{}}
}

const maxRestResponseBytes = 4 << 20 // 4 MiB, generous but bounded

func (p *NetHTTPRestProvider) Call(ctx context.Context, method, url string, body, headers value.Value, timeout time.Duration) value.Value {
	if timeout <= 0 {
		timeout = DefaultRestTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if !body.IsNull() {
		raw, err := jsonEncode(body)
		if err != nil {
			return restFailure("request body could not be encoded: " + err.Error())
		}
		bodyReader = strings.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(callCtx, method, url, bodyReader)
	if err != nil {
		return restFailure(err.Error())
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if headers.Type() == value.KindObject {
		for k, v := range headers.AsObject() {
			req.Header.Set(k, v.String())
		}
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return restFailure(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRestResponseBytes))
	if err != nil {
		return restFailure(err.Error())
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	return value.Object(map[string]value.Value{
		"success": value.Bool(success),
		"error":   value.Bool(!success),
		"status":  value.Int(int64(resp.StatusCode)),
		"body":    decodeResponseBody(raw),
		"message": value.Text(http.StatusText(resp.StatusCode)),
	})
}

func restFailure(message string) value.Value {
	return value.Object(map[string]value.Value{
		"success": value.Bool(false),
		"error":   value.Bool(true),
		"status":  value.Int(0),
		"body":    value.Null,
		"message": value.Text(message),
	})
}

func decodeResponseBody(raw []byte) value.Value {
	if len(raw) == 0 {
		return value.Null
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return value.Text(string(raw))
	}
	return fromJSON(decoded)
}

func jsonEncode(v value.Value) (string, error) {
	raw, err := json.Marshal(toJSON(v))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// toJSON converts a Value into a plain any tree suitable for
// encoding/json, used by rest_* request bodies.
func toJSON(v value.Value) any {
	switch v.Type() {
	case value.KindNull:
		return nil
	case value.KindBool:
		return v.AsBool()
	case value.KindNumber:
		d := v.AsNumber()
		if d.IsInteger() {
			return d.Int64()
		}
		return d.Float64()
	case value.KindText:
		return v.AsText()
	case value.KindList:
		items := v.AsList()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = toJSON(it)
		}
		return out
	case value.KindObject:
		fields := v.AsObject()
		out := make(map[string]any, len(fields))
		for k, val := range fields {
			out[k] = toJSON(val)
		}
		return out
	case value.KindDateTime:
		return v.String()
	default:
		return nil
	}
}

// fromJSON converts a decoded any tree (from encoding/json) into a Value,
// used by the REST provider's response decoding.
func fromJSON(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null
	case bool:
		return value.Bool(t)
	case float64:
		return value.Float(t)
	case string:
		return value.Text(t)
	case []any:
		items := make([]value.Value, len(t))
		for i, it := range t {
			items[i] = fromJSON(it)
		}
		return value.List(items)
	case map[string]any:
		fields := make(map[string]value.Value, len(t))
		for k, val := range t {
			fields[k] = fromJSON(val)
		}
		return value.Object(fields)
	default:
		return value.Null
	}
}

// MapJSONPathProvider walks a dotted + [index] path over a Value tree
// built from decoded JSON (§4.11: no JSON-path library is present anywhere
// in the retrieved example pack, so this small hand-rolled walker serves
// the concern instead — see DESIGN.md).
type MapJSONPathProvider struct{}

func (MapJSONPathProvider) Get(source value.Value, path string) value.Value {
	current := source
	for _, segment := range splitPath(path) {
		if segment.index != nil {
			if current.Type() != value.KindList {
				return value.Null
			}
			items := current.AsList()
			i := *segment.index
			if i < 0 || i >= len(items) {
				return value.Null
			}
			current = items[i]
			continue
		}
		if current.Type() != value.KindObject {
			return value.Null
		}
		next, ok := current.AsObject()[segment.key]
		if !ok {
			return value.Null
		}
		current = next
	}
	return current
}

type pathSegment struct {
	key   string
	index *int
}

// splitPath tokenizes "data.items[2].score" into [{key:data} {key:items}
// {index:2} {key:score}].
func splitPath(path string) []pathSegment {
	var segments []pathSegment
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		for {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				if part != "" {
					segments = append(segments, pathSegment{key: part})
				}
				break
			}
			if open > 0 {
				segments = append(segments, pathSegment{key: part[:open]})
			}
			close := strings.IndexByte(part[open:], ']')
			if close < 0 {
				break
			}
			idxStr := part[open+1 : open+close]
			if i, err := strconv.Atoi(idxStr); err == nil {
				segments = append(segments, pathSegment{index: &i})
			}
			part = part[open+close+1:]
			if part == "" {
				break
			}
		}
	}
	return segments
}

package search

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/ecode"
	"github.com/ncobase/esdsl/types"
)

// EncodeBody renders a params body for the wire. A nil body yields a nil
// reader so the engine client sends no body at all.
func EncodeBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := compiler.Render(body, false)
	if err != nil {
		return nil, ecode.Invalidf("body", "error encoding body: %v", err)
	}
	return bytes.NewReader(data), nil
}

// DecodeResponse reads an engine response body. Engine errors are returned
// as Transport errors carrying the engine's error type and reason.
func DecodeResponse(op string, status int, isError bool, body io.Reader) (map[string]any, error) {
	out := map[string]any{}
	if body != nil {
		dec := json.NewDecoder(body)
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil && err != io.EOF {
			return nil, ecode.Wrap(op, fmt.Errorf("error parsing the response body: %w", err))
		}
	}
	if isError {
		return nil, ecode.Wrap(op, fmt.Errorf("[%d] %s", status, errorReason(out)))
	}
	return out, nil
}

func errorReason(resp map[string]any) string {
	switch e := resp["error"].(type) {
	case string:
		return e
	case map[string]any:
		typ, _ := e["type"].(string)
		reason, _ := e["reason"].(string)
		if typ != "" && reason != "" {
			return typ + ": " + reason
		}
		if reason != "" {
			return reason
		}
		return typ
	}
	return "unknown error"
}

// total reads hits.total, which is {value, relation} on current engines and
// a bare number on older ones.
func total(resp map[string]any) int64 {
	hits, _ := resp["hits"].(map[string]any)
	if hits == nil {
		return 0
	}
	switch t := hits["total"].(type) {
	case map[string]any:
		return toInt64(t["value"])
	default:
		return toInt64(t)
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, _ := n.Float64()
			return int64(f)
		}
		return i
	default:
		i, _ := types.ToInt(n)
		return i
	}
}

// hits flattens hits.hits.
func hits(resp map[string]any) []Hit {
	outer, _ := resp["hits"].(map[string]any)
	raw, _ := outer["hits"].([]any)
	list := make([]Hit, 0, len(raw))
	for _, item := range raw {
		if h, ok := item.(map[string]any); ok {
			list = append(list, flatten(h))
		}
	}
	return list
}

// flatten merges the hit metadata with its source. Source fields win over
// metadata of the same name; highlight is added last.
func flatten(h map[string]any) Hit {
	out := Hit{
		"_index": h["_index"],
		"_id":    h["_id"],
		"_score": h["_score"],
	}
	if t, ok := h["_type"]; ok {
		out["_type"] = t
	}
	if src, ok := h["_source"].(map[string]any); ok {
		for k, v := range src {
			out[k] = v
		}
	}
	if hl, ok := h["highlight"]; ok {
		out["highlight"] = hl
	}
	return out
}

func aggregations(resp map[string]any) map[string]any {
	aggs, _ := resp["aggregations"].(map[string]any)
	return aggs
}

func scrollID(resp map[string]any) string {
	s, _ := resp["_scroll_id"].(string)
	return s
}

// KeepAlive parses a scroll keep-alive such as "2m", "30s" or "1d". The
// engine unit "d" is accepted on top of the units time.ParseDuration knows.
func KeepAlive(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days < 0 {
			return 0, ecode.Invalidf("scroll", "invalid keep-alive %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, ecode.Invalidf("scroll", "invalid keep-alive %q", s)
	}
	return d, nil
}

package validator

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitrymomot/apikit/pkg/schema"
)

var (
	trueStrings  = []string{"true", "1", "on", "yes", "y", "t"}
	falseStrings = []string{"false", "0", "off", "no", "n", "f"}
)

func coerceString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func coerceInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int(v), true
	case float32:
		return integral(float64(v))
	case float64:
		return integral(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
		d, err := decimal.NewFromString(v.String())
		if err != nil || !d.IsInteger() || d.LessThan(minInt) || d.GreaterThan(maxInt) {
			return 0, false
		}
		return int(d.IntPart()), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

var (
	minInt = decimal.NewFromInt(math.MinInt64)
	maxInt = decimal.NewFromInt(math.MaxInt64)
)

func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int(f), true
}

// coerceFloat accepts numbers and decimal literals. Strings are parsed with
// decimal so "35.4" yields exactly 35.4 and arbitrary text fails cleanly.
func coerceFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v), true
	case json.Number:
		return parseDecimal(v.String())
	case string:
		return parseDecimal(strings.TrimSpace(v))
	default:
		if n, ok := coerceInt(raw); ok {
			return float64(n), true
		}
		return 0, false
	}
}

func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func coerceBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		for _, t := range trueStrings {
			if s == t {
				return true, true
			}
		}
		for _, f := range falseStrings {
			if s == f {
				return false, true
			}
		}
		return false, false
	default:
		n, ok := coerceInt(raw)
		if !ok || (n != 0 && n != 1) {
			return false, false
		}
		return n == 1, true
	}
}

func coerceBytes(raw any) ([]byte, bool) {
	switch v := raw.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

// asList normalizes list input. A single scalar becomes a one-element list.
func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	case map[string]any, *schema.Instance, *schema.Ordered:
		return nil, false
	default:
		return []any{v}, true
	}
}

// asObject normalizes model input to a map keyed by external field names.
func asObject(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case *schema.Instance:
		return v.Ordered().Map(), true
	case *schema.Ordered:
		return v.Map(), true
	default:
		return nil, false
	}
}

// normalizeAny converts decoded JSON numbers into int or float64.
func normalizeAny(raw any) any {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, ok := parseDecimal(v.String()); ok {
			return f
		}
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeAny(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = normalizeAny(e)
		}
		return out
	default:
		return raw
	}
}

// cloneDefault deep-copies container defaults so callers cannot mutate the
// declaration through a validated value.
func cloneDefault(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneDefault(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneDefault(e)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	default:
		return v
	}
}

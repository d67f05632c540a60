// Package reconcile turns a loosely-keyed record into one value per logical
// field. Each field declares the source keys it may arrive under, in priority
// order, plus a coercion kind and a default. The first key present in the
// record wins even when it holds null; coercion failures fall back to the
// field's default and are reported as anomalies, never as errors.
package reconcile

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	Passthrough Kind = iota
	Number
	Integer
	Decimal
	Bool
	String
	NullableString
	Object
	List
)

func (k Kind) String() string {
	switch k {
	case Passthrough:
		return "passthrough"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Bool:
		return "bool"
	case String:
		return "string"
	case NullableString:
		return "nullableString"
	case Object:
		return "object"
	case List:
		return "list"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field describes one logical attribute. Keys may use a dotted path
// ("method.name") to reach into a nested object when no literal key of that
// name exists.
//
// Default must match the kind: float64 for Number, int64 for Integer,
// decimal.Decimal for Decimal, bool for Bool, string for String. A nil
// Default on Number or Integer makes the field nullable.
type Field struct {
	Name    string
	Keys    []string
	Kind    Kind
	Default any
}

type Schema struct {
	fields []Field
}

// NewSchema panics on an empty name, a field with no keys or a duplicate
// name; schemas are package-level declarations so this fires at init.
func NewSchema(fields ...Field) Schema {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			panic("reconcile: field without a name")
		}
		if len(f.Keys) == 0 {
			panic(fmt.Sprintf("reconcile: field %q has no source keys", f.Name))
		}
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("reconcile: duplicate field %q", f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	return Schema{fields: fields}
}

func (s Schema) Fields() []Field {
	return s.fields
}

type value struct {
	present bool
	null    bool
	key     string
	out     any
}

type Result struct {
	values    map[string]value
	anomalies []string
}

func (s Schema) Apply(raw map[string]any) Result {
	res := Result{values: make(map[string]value, len(s.fields))}
	for _, f := range s.fields {
		res.values[f.Name] = res.reconcile(f, raw)
	}
	return res
}

func (r *Result) reconcile(f Field, raw map[string]any) value {
	for _, key := range f.Keys {
		v, ok := lookup(raw, key)
		if !ok {
			continue
		}
		out := r.coerce(f, key, v)
		return value{present: true, null: v == nil, key: key, out: out}
	}
	return value{out: absent(f)}
}

func absent(f Field) any {
	switch f.Kind {
	case Passthrough, NullableString:
		return nil
	case Object:
		return map[string]any{}
	case List:
		return []map[string]any{}
	}
	return defaultFor(f)
}

func defaultFor(f Field) any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Kind {
	case Decimal:
		return decimal.Zero
	case Bool:
		return false
	case String:
		return ""
	case Object:
		return map[string]any{}
	case List:
		return []map[string]any{}
	}
	return nil
}

func (r *Result) coerce(f Field, key string, v any) any {
	switch f.Kind {
	case Passthrough:
		return v
	case NullableString:
		if v == nil {
			return nil
		}
		if s, ok := toString(v); ok {
			return &s
		}
		r.note(f, key, v)
		return nil
	}

	if v == nil {
		return defaultFor(f)
	}

	switch f.Kind {
	case Number:
		if n, ok := toFloat(v); ok {
			return n
		}
	case Integer:
		if n, ok := toFloat(v); ok && n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
			return int64(n)
		}
	case Decimal:
		if d, ok := toDecimal(v); ok {
			return d
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return b
		}
	case String:
		if s, ok := toString(v); ok {
			return s
		}
	case Object:
		if m, ok := v.(map[string]any); ok {
			return m
		}
	case List:
		if items, ok := v.([]any); ok {
			out := make([]map[string]any, 0, len(items))
			for i, item := range items {
				rec, ok := item.(map[string]any)
				if !ok {
					r.anomalies = append(r.anomalies, fmt.Sprintf("%s (%s[%d]): dropped element of type %T", f.Name, key, i, item))
					continue
				}
				out = append(out, rec)
			}
			return out
		}
	}

	r.note(f, key, v)
	return defaultFor(f)
}

func (r *Result) note(f Field, key string, v any) {
	r.anomalies = append(r.anomalies, fmt.Sprintf("%s (%s): cannot coerce %v to %s", f.Name, key, v, f.Kind))
}

func lookup(raw map[string]any, key string) (any, bool) {
	if v, ok := raw[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}
	var cur any = raw
	for _, part := range strings.Split(key, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	}
	if f, ok := toFloat(v); ok {
		return decimal.NewFromFloat(f), true
	}
	return decimal.Zero, false
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return "", false
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

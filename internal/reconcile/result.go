package reconcile

import "github.com/shopspring/decimal"

// Present reports whether any candidate key of the field was found,
// including a key holding null.
func (r Result) Present(name string) bool {
	return r.values[name].present
}

// Null reports whether the winning key held an explicit null.
func (r Result) Null(name string) bool {
	return r.values[name].null
}

// Key returns the source key that supplied the field, or "" when absent.
func (r Result) Key(name string) string {
	return r.values[name].key
}

func (r Result) Anomalies() []string {
	return r.anomalies
}

func (r Result) Raw(name string) any {
	return r.values[name].out
}

func (r Result) Float(name string) float64 {
	f, _ := r.values[name].out.(float64)
	return f
}

// FloatPtr returns nil for a nullable number that was absent, null or
// unparsable.
func (r Result) FloatPtr(name string) *float64 {
	f, ok := r.values[name].out.(float64)
	if !ok {
		return nil
	}
	return &f
}

func (r Result) Int(name string) int64 {
	n, _ := r.values[name].out.(int64)
	return n
}

func (r Result) IntPtr(name string) *int64 {
	n, ok := r.values[name].out.(int64)
	if !ok {
		return nil
	}
	return &n
}

func (r Result) Decimal(name string) decimal.Decimal {
	d, ok := r.values[name].out.(decimal.Decimal)
	if !ok {
		return decimal.Zero
	}
	return d
}

func (r Result) Bool(name string) bool {
	b, _ := r.values[name].out.(bool)
	return b
}

func (r Result) Text(name string) string {
	s, _ := r.values[name].out.(string)
	return s
}

func (r Result) NullableString(name string) *string {
	s, _ := r.values[name].out.(*string)
	return s
}

// Object never returns nil.
func (r Result) Object(name string) map[string]any {
	m, ok := r.values[name].out.(map[string]any)
	if !ok || m == nil {
		return map[string]any{}
	}
	return m
}

// List never returns nil.
func (r Result) List(name string) []map[string]any {
	l, ok := r.values[name].out.([]map[string]any)
	if !ok || l == nil {
		return []map[string]any{}
	}
	return l
}

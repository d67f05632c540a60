// Package normalize converts decoded backend records into the canonical
// domain entities. Every function here is pure: it never fails, allocates a
// fresh value per call, and records what it had to paper over in an optional
// Report.
package normalize

import (
	"fmt"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/envelope"
	"bakeryconsole/backend/internal/reconcile"
)

// Report collects decode anomalies. A nil *Report discards them.
type Report struct {
	Anomalies []string
}

func (r *Report) add(scope string, anomalies []string) {
	if r == nil {
		return
	}
	for _, a := range anomalies {
		r.Anomalies = append(r.Anomalies, scope+": "+a)
	}
}

func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Anomalies)
}

// Page maps every unwrapped list item through fn.
func Page[T any](list envelope.List, rep *Report, fn func(envelope.Record, *Report) T) domain.Page[T] {
	rep.add("envelope", list.Anomalies)
	results := make([]T, 0, len(list.Items))
	for _, item := range list.Items {
		results = append(results, fn(item, rep))
	}
	return domain.Page[T]{
		Count:    list.Pagination.Count,
		Next:     list.Pagination.Next,
		Previous: list.Pagination.Previous,
		Results:  results,
	}
}

func apply(schema reconcile.Schema, raw envelope.Record, scope string, rep *Report) reconcile.Result {
	res := schema.Apply(raw)
	rep.add(scope, res.Anomalies())
	return res
}

// each applies fn to every element of a nested list; the result is never nil.
func each[T any](items []map[string]any, scope string, rep *Report, fn func(envelope.Record, string, *Report) T) []T {
	out := make([]T, 0, len(items))
	for i, item := range items {
		out = append(out, fn(item, fmt.Sprintf("%s[%d]", scope, i), rep))
	}
	return out
}

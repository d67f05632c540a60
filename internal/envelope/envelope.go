// Package envelope recognizes the response envelopes the back-office API
// emits and extracts their payload and pagination metadata.
//
// Three list conventions are understood, tried in this order:
//
//	{"data": [...], "pagination": {"count", "next", "previous"}}
//	{"results": [...], "count", "next", "previous"}
//	[...]
//
// Anything else degrades to an empty list. Nothing in this package returns an
// error for a malformed body; the reasons a body was only partially usable are
// reported as anomalies instead.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Record = map[string]any

type Shape string

const (
	ShapeWrapped   Shape = "wrapped"
	ShapePaginated Shape = "paginated"
	ShapeArray     Shape = "array"
	ShapeObject    Shape = "object"
	ShapeUnknown   Shape = "unknown"
)

type Pagination struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

type List struct {
	Items      []Record
	Pagination Pagination
	Shape      Shape
	Anomalies  []string
}

// Decode parses a raw response body. Numbers are kept as json.Number so
// that decimal amounts survive without float rounding.
func Decode(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func UnwrapList(body any) List {
	switch v := body.(type) {
	case map[string]any:
		data, hasData := v["data"]
		pagination, hasPagination := v["pagination"]
		if hasData && hasPagination {
			items, anomalies := records(data, "data")
			meta, _ := pagination.(map[string]any)
			if meta == nil {
				anomalies = append(anomalies, "pagination: not an object")
			}
			page, pageAnomalies := paginationFrom(meta, len(items))
			return List{
				Items:      items,
				Pagination: page,
				Shape:      ShapeWrapped,
				Anomalies:  append(anomalies, pageAnomalies...),
			}
		}
		if results, ok := v["results"]; ok {
			items, anomalies := records(results, "results")
			page, pageAnomalies := paginationFrom(v, len(items))
			return List{
				Items:      items,
				Pagination: page,
				Shape:      ShapePaginated,
				Anomalies:  append(anomalies, pageAnomalies...),
			}
		}
		return List{
			Items:     []Record{},
			Shape:     ShapeObject,
			Anomalies: []string{"object body carries neither data+pagination nor results"},
		}
	case []any:
		items, anomalies := records(v, "")
		return List{
			Items:      items,
			Pagination: Pagination{Count: len(v)},
			Shape:      ShapeArray,
			Anomalies:  anomalies,
		}
	}

	return List{
		Items:     []Record{},
		Shape:     ShapeUnknown,
		Anomalies: []string{fmt.Sprintf("unrecognized body of type %T", body)},
	}
}

// UnwrapDetail returns the single record carried by a detail or mutation
// response: the "data" object when the body is wrapped, otherwise the body
// itself. A body that is not an object yields an empty record.
func UnwrapDetail(body any) (Record, Shape) {
	obj, ok := body.(map[string]any)
	if !ok {
		return Record{}, ShapeUnknown
	}
	if inner, ok := obj["data"].(map[string]any); ok {
		return inner, ShapeWrapped
	}
	return obj, ShapeObject
}

func records(value any, key string) ([]Record, []string) {
	label := key
	if label == "" {
		label = "body"
	}

	switch v := value.(type) {
	case nil:
		return []Record{}, nil
	case map[string]any:
		return []Record{v}, []string{label + ": object coerced to a one-element list"}
	case []any:
		out := make([]Record, 0, len(v))
		var anomalies []string
		for i, item := range v {
			rec, ok := item.(map[string]any)
			if !ok {
				anomalies = append(anomalies, fmt.Sprintf("%s[%d]: dropped element of type %T", label, i, item))
				continue
			}
			out = append(out, rec)
		}
		return out, anomalies
	}
	return []Record{}, []string{fmt.Sprintf("%s: dropped payload of type %T", label, value)}
}

func paginationFrom(meta map[string]any, itemCount int) (Pagination, []string) {
	page := Pagination{Count: itemCount}
	var anomalies []string

	if raw, ok := meta["count"]; ok && raw != nil {
		if n, ok := toCount(raw); ok {
			page.Count = n
		} else {
			anomalies = append(anomalies, fmt.Sprintf("pagination.count: unusable value %v", raw))
		}
	}
	page.Next = link(meta["next"])
	page.Previous = link(meta["previous"])
	return page, anomalies
}

func toCount(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

func link(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

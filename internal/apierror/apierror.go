// Package apierror carries backend failures and turns their response bodies
// into a single human-readable message.
package apierror

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const Fallback = "Something went wrong"

var ErrUnauthorized = errors.New("backend rejected credentials")

// Error is a non-2xx backend response or a transport failure. Status is 0
// when no response arrived.
type Error struct {
	Status int
	Method string
	Path   string
	Body   map[string]any
	Raw    []byte
	Err    error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the display message extracted from the response body.
func (e *Error) Message() string {
	if len(e.Raw) > 0 {
		return MessageFromBody(e.Raw)
	}
	return messageFromObject(e.Body, "")
}

// Message extracts a display message from any error. Errors that did not come
// from the backend yield the fallback.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return Fallback
}

// MessageFromBody tries message, detail and error in that order, then the
// value under the first key of the object: its first element when it is a
// list, or the value itself when it is a string.
func MessageFromBody(raw []byte) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return Fallback
	}
	return messageFromObject(body, firstKey(raw))
}

func messageFromObject(body map[string]any, first string) string {
	if body == nil {
		return Fallback
	}
	for _, key := range []string{"message", "detail", "error"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	if first == "" {
		return Fallback
	}
	switch v := body[first].(type) {
	case []any:
		if len(v) > 0 {
			if s := display(v[0]); s != "" {
				return s
			}
		}
	case string:
		if v != "" {
			return v
		}
	}
	return Fallback
}

func display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case json.Number:
		if t.String() == "0" {
			return ""
		}
		return t.String()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

// firstKey reads the first member name of a top-level JSON object in
// document order.
func firstKey(raw []byte) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return ""
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ""
	}
	tok, err = dec.Token()
	if err != nil {
		return ""
	}
	key, _ := tok.(string)
	return key
}

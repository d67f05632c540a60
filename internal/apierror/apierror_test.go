package apierror

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessageFromBody(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"field errors", `{"field_name":["This field is required."]}`, "This field is required."},
		{"message", `{"message":"Conflict"}`, "Conflict"},
		{"detail", `{"detail":"Not found."}`, "Not found."},
		{"error", `{"error":"boom"}`, "boom"},
		{"message beats detail", `{"detail":"second","message":"first"}`, "first"},
		{"empty message falls through", `{"message":"","detail":"Use detail"}`, "Use detail"},
		{"first key in document order", `{"zeta":["z first"],"alpha":["a second"]}`, "z first"},
		{"first key string", `{"non_field_errors":"Invalid totals"}`, "Invalid totals"},
		{"first key number list", `{"quantity":[3]}`, "3"},
		{"first key empty list", `{"items":[]}`, Fallback},
		{"first key object", `{"nested":{"a":1}}`, Fallback},
		{"empty", ``, Fallback},
		{"empty object", `{}`, Fallback},
		{"array body", `["x"]`, Fallback},
		{"html", `<html>bad gateway</html>`, Fallback},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MessageFromBody([]byte(tc.body)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMessageFromError(t *testing.T) {
	apiErr := &Error{Status: 400, Method: "POST", Path: "/sales/sales/", Raw: []byte(`{"payments_input":["Payment total is short."]}`)}
	wrapped := fmt.Errorf("create sale: %w", apiErr)

	if got := Message(wrapped); got != "Payment total is short." {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(errors.New("dial tcp: refused")); got != Fallback {
		t.Fatalf("expected fallback for non-backend error, got %q", got)
	}
}

func TestErrorString(t *testing.T) {
	transport := &Error{Method: "GET", Path: "/audit/", Err: errors.New("timeout")}
	if transport.Error() != "GET /audit/: timeout" {
		t.Fatalf("unexpected transport error %q", transport.Error())
	}
	if !errors.Is(&Error{Status: 401, Err: ErrUnauthorized}, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized to unwrap")
	}

	status := &Error{Status: 409, Method: "POST", Path: "/sales/sales/", Raw: []byte(`{"message":"Conflict"}`)}
	if status.Error() != "POST /sales/sales/: status 409: Conflict" {
		t.Fatalf("unexpected status error %q", status.Error())
	}
}

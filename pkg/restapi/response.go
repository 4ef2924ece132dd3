package restapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the raw outcome of a call. Callers decode Body into either the
// success shape or the error envelope depending on what they expect.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("decode: nil response")
	}
	if len(r.Body) == 0 {
		return fmt.Errorf("decode %s %s: empty body (status %d)", r.Method, r.URL, r.StatusCode)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode %s %s (status %d): %w", r.Method, r.URL, r.StatusCode, err)
	}
	return nil
}

// Decode is the generic form of Response.Decode.
func Decode[T any](r *Response) (T, error) {
	var out T
	err := r.Decode(&out)
	return out, err
}

// StatusError is returned when the status check is on and the response is not 2xx.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

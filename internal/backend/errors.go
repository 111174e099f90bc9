package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

var (
	ErrSessionExpired   = errors.New("session expired, please log in again")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError is a request the backend answered with a non-2xx status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	msg := ExtractMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = "request failed"
	}
	return &APIError{Method: method, Path: path, StatusCode: status, Message: msg, Body: body}
}

// StatusCode returns the HTTP status behind err, or 0 when err is not an
// APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

var preferredKeys = []string{"detail", "error", "message"}

// ExtractMessage pulls a human readable message out of an error body. It
// tries detail, error, message, then non_field_errors, then the first key in
// document order rendered as "key: message".
func ExtractMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return ""
	}
	fields, order, err := orderedObject(body)
	if err != nil {
		return ""
	}
	for _, k := range preferredKeys {
		if raw, ok := fields[k]; ok {
			if msg := firstMessage(raw); msg != "" {
				return msg
			}
		}
	}
	if raw, ok := fields["non_field_errors"]; ok {
		if msg := firstMessage(raw); msg != "" {
			return msg
		}
	}
	for _, k := range order {
		if msg := firstMessage(fields[k]); msg != "" {
			return humanize(k) + ": " + msg
		}
	}
	return ""
}

func orderedObject(body []byte) (map[string]json.RawMessage, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	fields := map[string]json.RawMessage{}
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, dup := fields[key]; !dup {
			order = append(order, key)
		}
		fields[key] = raw
	}
	return fields, order, nil
}

// firstMessage renders a string, the first string of a list, or the first
// message of a nested object.
func firstMessage(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return strings.TrimSpace(s)
		}
	case '[':
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) == nil {
			for _, it := range items {
				if msg := firstMessage(it); msg != "" {
					return msg
				}
			}
		}
	case '{':
		return ExtractMessage(raw)
	}
	return ""
}

func humanize(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var networkPatterns = []string{
	"econnrefused",
	"connection refused",
	"no such host",
	"network is unreachable",
	"connection reset",
	"err_network",
	"network error",
	"i/o timeout",
}

// IsNetworkError reports whether err means the backend could not be
// reached at all, as opposed to answering with an error status.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range networkPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

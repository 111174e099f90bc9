package backend

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"Not found."}`, "Not found."},
		{"error over message", `{"message":"m","error":"Sale already completed"}`, "Sale already completed"},
		{"non field errors", `{"non_field_errors":["Paid amount exceeds total"]}`, "Paid amount exceeds total"},
		{"first key in order", `{"quantity":["Insufficient stock"],"unit":["Invalid"]}`, "Quantity: Insufficient stock"},
		{"nested", `{"items":[{"unit":["Unit not allowed"]}]}`, "Items: Unit: Unit not allowed"},
		{"empty object", `{}`, ""},
		{"html", `<html>oops</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMessage([]byte(tt.body)); got != tt.want {
				t.Errorf("ExtractMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewAPIErrorFallsBackToStatusText(t *testing.T) {
	err := newAPIError("GET", "/sales/", 503, []byte("<html/>"))
	if err.Message != "Service Unavailable" {
		t.Errorf("message = %q", err.Message)
	}
	if err.Error() != "Service Unavailable (status 503)" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"message", errors.New("Network Error"), true},
		{"api error", &APIError{StatusCode: 500, Message: "connection refused"}, false},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

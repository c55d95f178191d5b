package model

import (
	"errors"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"auth is permanent", &AuthError{Status: 401}, false},
		{"protocol is permanent", &ProtocolError{Reason: "bad block"}, false},
		{"400 is permanent", &RequestError{Status: 400}, false},
		{"429 retries", &RequestError{Status: 429}, true},
		{"500 retries", &RequestError{Status: 500}, true},
		{"503 retries", &RequestError{Status: 503}, true},
		{"plain transport error retries", errors.New("connection reset"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Fatalf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

package utils

import (
	"regexp"
	"testing"
)

var tokenFormat = regexp.MustCompile(`^[0-9A-F]{12}$`)

func TestNewOrderToken_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		tok, err := NewOrderToken()
		if err != nil {
			t.Fatalf("NewOrderToken: %v", err)
		}
		if !tokenFormat.MatchString(tok) {
			t.Fatalf("token %q is not 12 uppercase hex characters", tok)
		}
	}
}

func TestNewOrderToken_Uniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		tok, err := NewOrderToken()
		if err != nil {
			t.Fatalf("NewOrderToken: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q after %d generations", tok, i)
		}
		seen[tok] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct tokens, got %d", n, len(seen))
	}
}

func TestNewNumericOTP(t *testing.T) {
	otp, err := NewNumericOTP(6)
	if err != nil {
		t.Fatalf("NewNumericOTP: %v", err)
	}
	if len(otp) != 6 {
		t.Fatalf("otp %q: want 6 digits", otp)
	}
	for _, c := range otp {
		if c < '0' || c > '9' {
			t.Fatalf("otp %q contains non-digit %q", otp, c)
		}
	}
}

package auth

import "testing"

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		secret, attempt string
		want            bool
	}{
		{"1234", "1234", true},
		{"1234", "4321", false},
		{"abcd", "ABCD", false},
		{"1234", "1234 ", false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := Authenticate(tt.secret, tt.attempt); got != tt.want {
			t.Errorf("Authenticate(%q, %q) = %v, want %v", tt.secret, tt.attempt, got, tt.want)
		}
	}
}

package validation

import "testing"

func TestNormalizePHPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"09123456789", "+639123456789", true},
		{"+639123456789", "+639123456789", true},
		{"639123456789", "+639123456789", true},
		{"0912 345 6789", "+639123456789", true},
		{"0912-345-6789", "+639123456789", true},
		{"(0912) 345 6789", "+639123456789", true},
		{"9123456789", "", false},
		{"0212345678", "", false},
		{"091234567890", "", false},
		{"0912345678a", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizePHPhone(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NormalizePHPhone(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

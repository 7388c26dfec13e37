package qr

import (
	"strings"
	"testing"
)

func TestPaymentCode(t *testing.T) {
	code, err := PaymentCode("RT-20260831-ABCDEF", 30000)
	if err != nil {
		t.Fatalf("PaymentCode: %v", err)
	}
	if !strings.HasPrefix(code, "data:image/png;base64,") {
		t.Fatalf("code = %.40q, want a png data URI", code)
	}
}

func TestPaymentCode_DistinctPerAmount(t *testing.T) {
	a, err := PaymentCode("RT-20260831-ABCDEF", 30000)
	if err != nil {
		t.Fatalf("PaymentCode: %v", err)
	}
	b, err := PaymentCode("RT-20260831-ABCDEF", 70000)
	if err != nil {
		t.Fatalf("PaymentCode: %v", err)
	}
	if a == b {
		t.Fatalf("different amounts must encode differently")
	}
}

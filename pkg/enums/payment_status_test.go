package enums

import (
	"fmt"
	"testing"
)

func TestPaymentStatusValidation(t *testing.T) {
	for _, status := range validPaymentStatuses {
		if !status.IsValid() {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if PaymentStatus("settled").IsValid() {
		t.Fatal("unknown payment status should be invalid")
	}
}

func TestPaymentStatusStringer(t *testing.T) {
	var s fmt.Stringer = PaymentStatusPaid
	if s.String() != "paid" {
		t.Fatalf("unexpected string %q", s.String())
	}
}

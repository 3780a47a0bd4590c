package entity

import (
	"reflect"
	"testing"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusPending, true},
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusPaymentFailed, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusDeliveryRequested, false},
		{StatusPaymentFailed, StatusPaid, true},
		{StatusPaymentFailed, StatusPaymentFailed, true},
		{StatusPaid, StatusDeliveryRequested, true},
		{StatusPaid, StatusPaid, false},
		{StatusPaid, StatusPaymentFailed, false},
		{StatusPaid, StatusCanceled, false},
		{StatusDeliveryRequested, StatusPaymentFailed, false},
		{StatusDeliveryRequested, StatusPaid, false},
		{StatusCanceled, StatusPaid, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanMoveTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusesBefore(t *testing.T) {
	if got := StatusesBefore(StatusPaid); !reflect.DeepEqual(got, []string{"pending", "payment_failed"}) {
		t.Fatalf("unexpected statuses %v", got)
	}
	if got := StatusesBefore(StatusDeliveryRequested); !reflect.DeepEqual(got, []string{"paid"}) {
		t.Fatalf("unexpected statuses %v", got)
	}
	if got := StatusesBefore(StatusPending); !reflect.DeepEqual(got, []string{"pending"}) {
		t.Fatalf("unexpected statuses %v", got)
	}
}

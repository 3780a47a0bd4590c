package validate

import (
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"customer_name" validate:"required"`
	Phone string `json:"customer_phone" validate:"required,phone"`
	Qty   int64  `json:"qty" validate:"min=1"`
}

func TestStruct(t *testing.T) {
	ok := &sample{Name: "Ann", Phone: "(647) 920-6806", Qty: 1}
	if err := Struct(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Struct(&sample{Phone: "12345", Qty: 0})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"customer_name required", "customer_phone phone", "qty min"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not mention %q", msg, want)
		}
	}
}

func TestStructRejectsNonStruct(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Fatal("expected error for nil")
	}
	if err := Struct("text"); err == nil {
		t.Fatal("expected error for string")
	}
}

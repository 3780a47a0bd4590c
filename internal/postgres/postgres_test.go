package postgres

import (
	"errors"
	"fmt"
	"testing"

	"storefront/entity"

	"github.com/jackc/pgx/v4"
)

func TestCents(t *testing.T) {
	cases := map[float64]int64{
		12.99: 1299,
		0.1:   10,
		5:     500,
		0:     0,
	}
	for in, want := range cases {
		if got := toCents(in); got != want {
			t.Errorf("toCents(%v) = %d, want %d", in, got, want)
		}
	}
	if got := toDollars(1299); got != 12.99 {
		t.Errorf("toDollars(1299) = %v", got)
	}
}

func TestItemsRoundTrip(t *testing.T) {
	items := []*entity.CartItem{
		{MenuItemId: 3, Name: "Margherita", Price: 1499, Quantity: 2},
		{MenuItemId: 7, Name: "Garlic Knots", Price: 650, Quantity: 1},
	}
	data, err := encodeItems(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[{"id":3,"name":"Margherita","price":14.99,"quantity":2},{"id":7,"name":"Garlic Knots","price":6.5,"quantity":1}]`
	if string(data) != want {
		t.Fatalf("unexpected json %s", data)
	}
	decoded, err := decodeItems(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Price != 1499 || decoded[1].Total() != 650 {
		t.Fatalf("unexpected items %+v", decoded)
	}
}

func TestDecodeEmptyItems(t *testing.T) {
	items, err := decodeItems(nil)
	if err != nil || items == nil || len(items) != 0 {
		t.Fatalf("expected empty slice, got %v %v", items, err)
	}
	if _, err = decodeItems([]byte("{")); err == nil {
		t.Fatal("expected error for broken json")
	}
}

func TestNotFound(t *testing.T) {
	err := notFound(pgx.ErrNoRows, "order", 42)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	other := notFound(fmt.Errorf("boom"), "order", 42)
	if errors.Is(other, entity.ErrNotFound) {
		t.Fatal("unexpected ErrNotFound")
	}
}

package entity

import "testing"

func TestCartAddMergesLines(t *testing.T) {
	var c Cart
	pizza := &MenuItem{Id: 1, Name: "Margherita", Price: 1299}
	sticks := &MenuItem{Id: 2, Name: "Mozzarella Sticks", Price: 799}

	c.Add(pizza, 1)
	c.Add(sticks, 2)
	c.Add(pizza, 2)
	c.Add(sticks, 0)

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 3 {
		t.Fatalf("expected pizza quantity 3, got %d", c.Items[0].Quantity)
	}
	if got := c.Subtotal(); got != 3*1299+2*799 {
		t.Fatalf("unexpected subtotal %d", got)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	var c Cart
	c.Add(&MenuItem{Id: 1, Price: 100}, 1)
	c.Add(&MenuItem{Id: 2, Price: 200}, 1)

	c.UpdateQuantity(1, 4)
	if c.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", c.Items[0].Quantity)
	}
	c.UpdateQuantity(1, 0)
	if len(c.Items) != 1 || c.Items[0].MenuItemId != 2 {
		t.Fatalf("expected only item 2 to remain, got %+v", c.Items)
	}
	c.UpdateQuantity(99, 3)
	if len(c.Items) != 1 {
		t.Fatal("unknown id must not add a line")
	}
	c.Clear()
	if !c.IsEmpty() || c.Subtotal() != 0 {
		t.Fatal("cart should be empty after clear")
	}
}

func TestCartTotals(t *testing.T) {
	var c Cart
	c.Add(&MenuItem{Id: 1, Price: 1500}, 2)

	got := c.Totals(500, 0.13)
	want := Totals{Subtotal: 3000, DeliveryFee: 500, Tax: 455, Total: 3955}
	if got != want {
		t.Fatalf("totals = %+v, want %+v", got, want)
	}

	pickup := c.Totals(0, 0.13)
	if pickup.Tax != 390 || pickup.Total != 3390 {
		t.Fatalf("unexpected pickup totals %+v", pickup)
	}
}

func TestCartRequestItemIds(t *testing.T) {
	req := CartRequest{Lines: []*CartLine{
		{MenuItemId: 3, Quantity: 1},
		{MenuItemId: 1, Quantity: 1},
		{MenuItemId: 3, Quantity: 2},
	}}
	ids := req.ItemIds()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestCartRequestBind(t *testing.T) {
	req := &CartRequest{
		Lines:          []*CartLine{{MenuItemId: 1, Quantity: 1}},
		DeliveryMethod: MethodDelivery,
	}
	if err := req.Bind(nil); err == nil {
		t.Fatal("delivery without address must fail")
	}
	req.DeliveryAddress = "1000 4th Ave, Seattle, WA"
	if err := req.Bind(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.DeliveryMethod = "drone"
	if err := req.Bind(nil); err == nil {
		t.Fatal("unknown method must fail")
	}
}

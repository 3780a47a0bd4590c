package entity

import (
	"math"
	"net/http"

	"storefront/lib/validate"
)

type DeliveryMethod string

const (
	MethodPickup   DeliveryMethod = "pickup"
	MethodDelivery DeliveryMethod = "delivery"
)

// CartItem is a priced cart line, price in cents
type CartItem struct {
	MenuItemId int64  `json:"menu_item_id" bson:"menu_item_id"`
	Name       string `json:"name" bson:"name"`
	Price      int64  `json:"price" bson:"price"`
	Quantity   int64  `json:"quantity" bson:"quantity"`
}

func (i *CartItem) Total() int64 {
	return i.Price * i.Quantity
}

type Cart struct {
	Items []*CartItem `json:"items"`
}

// Add puts qty units of the menu item into the cart, merging with an existing line
func (c *Cart) Add(item *MenuItem, qty int64) {
	if item == nil || qty <= 0 {
		return
	}
	for _, line := range c.Items {
		if line.MenuItemId == item.Id {
			line.Quantity += qty
			return
		}
	}
	c.Items = append(c.Items, &CartItem{
		MenuItemId: item.Id,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   qty,
	})
}

func (c *Cart) Remove(id int64) {
	items := c.Items[:0]
	for _, line := range c.Items {
		if line.MenuItemId != id {
			items = append(items, line)
		}
	}
	c.Items = items
}

// UpdateQuantity sets the quantity of a line; zero or less removes it
func (c *Cart) UpdateQuantity(id int64, qty int64) {
	if qty <= 0 {
		c.Remove(id)
		return
	}
	for _, line := range c.Items {
		if line.MenuItemId == id {
			line.Quantity = qty
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Subtotal() int64 {
	var total int64
	for _, line := range c.Items {
		total += line.Total()
	}
	return total
}

// Totals applies tax on top of subtotal plus delivery fee
func (c *Cart) Totals(deliveryFee int64, taxRate float64) Totals {
	subtotal := c.Subtotal()
	tax := int64(math.Round(float64(subtotal+deliveryFee) * taxRate))
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Total:       subtotal + deliveryFee + tax,
	}
}

type Totals struct {
	Subtotal    int64 `json:"subtotal" bson:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee" bson:"delivery_fee"`
	Tax         int64 `json:"tax" bson:"tax"`
	Total       int64 `json:"total" bson:"total"`
}

// CartLine is what a client submits; the price always comes from the catalog
type CartLine struct {
	MenuItemId int64 `json:"menu_item_id" validate:"required,min=1"`
	Quantity   int64 `json:"quantity" validate:"required,min=1,max=99"`
}

type CartRequest struct {
	Lines           []*CartLine    `json:"lines" validate:"required,min=1,dive"`
	DeliveryMethod  DeliveryMethod `json:"delivery_method" validate:"required,oneof=pickup delivery"`
	DeliveryAddress string         `json:"delivery_address" validate:"required_if=DeliveryMethod delivery"`
}

func (c *CartRequest) Bind(_ *http.Request) error {
	return validate.Struct(c)
}

func (c *CartRequest) IsDelivery() bool {
	return c.DeliveryMethod == MethodDelivery
}

// ItemIds returns distinct menu item ids in submission order
func (c *CartRequest) ItemIds() []int64 {
	seen := make(map[int64]bool, len(c.Lines))
	ids := make([]int64, 0, len(c.Lines))
	for _, line := range c.Lines {
		if seen[line.MenuItemId] {
			continue
		}
		seen[line.MenuItemId] = true
		ids = append(ids, line.MenuItemId)
	}
	return ids
}

type CartPrice struct {
	Items    []*CartItem    `json:"items"`
	Totals   Totals         `json:"totals"`
	Delivery *DeliveryQuote `json:"delivery,omitempty"`
}

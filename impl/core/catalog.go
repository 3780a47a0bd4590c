package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/entity"
	"storefront/lib/sl"
)

// Restaurant falls back to the configured details when the database is not connected
func (c *Core) Restaurant(ctx context.Context) (*entity.Restaurant, error) {
	if c.catalog == nil {
		return &entity.Restaurant{
			Id:      c.restaurant.Id,
			Name:    c.restaurant.Name,
			Address: c.restaurant.Address,
		}, nil
	}
	return c.catalog.Restaurant(ctx, c.restaurant.Id)
}

func (c *Core) Menu(ctx context.Context) ([]*entity.Category, error) {
	if c.catalog == nil {
		return nil, notConnected("catalog")
	}
	return c.catalog.Menu(ctx, c.restaurant.Id)
}

// pickupAddress prefers the configured address over the one in the database
func (c *Core) pickupAddress(ctx context.Context) string {
	if c.restaurant.Address != "" {
		return c.restaurant.Address
	}
	r, err := c.Restaurant(ctx)
	if err != nil {
		c.log.Warn("restaurant address", sl.Err(err))
		return ""
	}
	return r.Address
}

// fillCart reprices the submitted lines from the catalog
func (c *Core) fillCart(ctx context.Context, req *entity.CartRequest) (*entity.Cart, error) {
	if c.catalog == nil {
		return nil, notConnected("catalog")
	}
	items, err := c.catalog.MenuItems(ctx, req.ItemIds())
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	cart := &entity.Cart{}
	for _, line := range req.Lines {
		item, ok := items[line.MenuItemId]
		if !ok {
			return nil, invalid("menu item %d not found", line.MenuItemId)
		}
		cart.Add(item, line.Quantity)
	}
	if cart.IsEmpty() {
		return nil, invalid("cart is empty")
	}
	return cart, nil
}

// deliveryQuote returns nil for pickup orders
func (c *Core) deliveryQuote(ctx context.Context, req *entity.CartRequest) (*entity.DeliveryQuote, error) {
	if !req.IsDelivery() {
		return nil, nil
	}
	if c.estimator == nil {
		return nil, notConnected("delivery estimator")
	}
	return c.estimator.Quote(ctx, c.pickupAddress(ctx), req.DeliveryAddress), nil
}

// PriceCart totals a cart; an unavailable delivery is reported in the quote with no fee
func (c *Core) PriceCart(ctx context.Context, req *entity.CartRequest) (*entity.CartPrice, error) {
	cart, err := c.fillCart(ctx, req)
	if err != nil {
		return nil, err
	}
	quote, err := c.deliveryQuote(ctx, req)
	if err != nil {
		return nil, err
	}
	var fee int64
	if quote != nil && quote.Available {
		fee = quote.Fee
	}
	return &entity.CartPrice{
		Items:    cart.Items,
		Totals:   cart.Totals(fee, c.restaurant.TaxRate),
		Delivery: quote,
	}, nil
}

func (c *Core) MenuItems(ctx context.Context) ([]*entity.MenuItem, error) {
	if c.catalog == nil {
		return nil, notConnected("catalog")
	}
	return c.catalog.ListMenuItems(ctx)
}

// UpdateMenuImages sets images by item name and reports the outcome per item
func (c *Core) UpdateMenuImages(ctx context.Context, req *entity.MenuImages) ([]*entity.MenuImageResult, error) {
	if c.catalog == nil {
		return nil, notConnected("catalog")
	}
	results := make([]*entity.MenuImageResult, 0, len(req.Items))
	updated := 0
	for _, image := range req.Items {
		result := &entity.MenuImageResult{Name: image.Name, Status: "updated"}
		rows, err := c.catalog.UpdateMenuImage(ctx, image.Name, image.ImageUrl)
		switch {
		case err != nil:
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			result.Status = "error"
			result.Message = err.Error()
		case rows == 0:
			result.Status = "not_found"
		default:
			updated++
		}
		results = append(results, result)
	}
	c.log.With(
		slog.Int("requested", len(req.Items)),
		slog.Int("updated", updated),
	).Info("menu images updated")
	return results, nil
}

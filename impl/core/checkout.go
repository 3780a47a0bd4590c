package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/entity"
	"storefront/lib/sl"
)

// Checkout prices the cart, opens a pending order and a payment intent for it.
// The order is finished by the payment webhook.
func (c *Core) Checkout(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutResult, error) {
	if c.orders == nil {
		return nil, notConnected("orders")
	}
	if c.payments == nil {
		return nil, notConnected("payments")
	}

	cart, err := c.fillCart(ctx, &req.CartRequest)
	if err != nil {
		return nil, err
	}
	quote, err := c.deliveryQuote(ctx, &req.CartRequest)
	if err != nil {
		return nil, err
	}
	var fee int64
	if quote != nil {
		if !quote.Available {
			return nil, invalid("%s", quote.Message)
		}
		fee = quote.Fee
	}
	totals := cart.Totals(fee, c.restaurant.TaxRate)

	log := c.log.With(
		slog.String("method", string(req.DeliveryMethod)),
		sl.Cents("total", totals.Total),
	)

	order := &entity.Order{
		RestaurantId:    c.restaurant.Id,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.DeliveryAddress,
		Items:           cart.Items,
		Total:           totals.Total,
		Status:          entity.StatusPending,
	}
	if err = c.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	log = log.With(slog.Int64("order_id", order.Id))

	intent, err := c.payments.CreateIntent(ctx, &entity.PaymentRequest{
		Subtotal:        totals.Subtotal,
		DeliveryFee:     totals.DeliveryFee,
		TaxAmount:       totals.Tax,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		DeliveryMethod:  req.DeliveryMethod,
		DeliveryAddress: req.DeliveryAddress,
		OrderId:         order.Id,
	})
	if err != nil {
		log.Error("create payment intent", sl.Err(err))
		if e := c.orders.UpdateOrderStatus(ctx, order.Id, entity.StatusPaymentFailed, "", ""); e != nil {
			log.Error("update order status", sl.Err(e))
		}
		return nil, fmt.Errorf("%w: payment: %v", entity.ErrUpstream, err)
	}
	log = log.With(slog.String("payment_intent_id", intent.Id))

	if err = c.orders.UpdateOrderStatus(ctx, order.Id, entity.StatusPending, intent.Id, ""); err != nil {
		log.Error("save payment intent on order", sl.Err(err))
		if e := c.payments.CancelIntent(ctx, intent.Id); e != nil {
			log.Error("cancel payment intent", sl.Err(e))
		}
		return nil, fmt.Errorf("%w: link payment to order: %v", entity.ErrUpstream, err)
	}

	if c.db != nil {
		record := &entity.CheckoutRecord{
			OrderId:         order.Id,
			PaymentIntentId: intent.Id,
			DeliveryMethod:  req.DeliveryMethod,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			DeliveryAddress: req.DeliveryAddress,
			Items:           cart.Items,
			Totals:          totals,
			Status:          entity.StatusPending,
			Created:         time.Now(),
		}
		if err = c.db.SaveCheckoutRecord(record); err != nil {
			log.Error("save checkout record", sl.Err(err))
		}
	}

	log.Info("checkout started")
	return &entity.CheckoutResult{
		OrderId:         order.Id,
		PaymentIntentId: intent.Id,
		ClientSecret:    intent.ClientSecret,
		Items:           cart.Items,
		Totals:          totals,
		Delivery:        quote,
	}, nil
}

// CreatePaymentIntent charges amounts computed by the client, no order is opened
func (c *Core) CreatePaymentIntent(ctx context.Context, req *entity.PaymentRequest) (*entity.PaymentIntent, error) {
	if c.payments == nil {
		return nil, notConnected("payments")
	}
	if req.DeliveryMethod == entity.MethodDelivery && req.DeliveryAddress == "" {
		return nil, invalid("delivery_address required for delivery")
	}
	intent, err := c.payments.CreateIntent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: payment: %v", entity.ErrUpstream, err)
	}
	return intent, nil
}

// OrderStatus is public, so the caller proves ownership with the payment intent id
// returned at checkout
func (c *Core) OrderStatus(ctx context.Context, id int64, intentId string) (*entity.OrderInfo, error) {
	if c.orders == nil {
		return nil, notConnected("orders")
	}
	order, err := c.orders.Order(ctx, id)
	if err != nil {
		return nil, err
	}
	if intentId == "" || order.StripeId != intentId {
		return nil, fmt.Errorf("order %d: %w", id, entity.ErrNotFound)
	}
	info := &entity.OrderInfo{Order: order}
	if order.Status == entity.StatusPending && c.payments != nil {
		intent, err := c.payments.PaymentIntent(ctx, intentId)
		if err != nil {
			c.log.With(slog.Int64("order_id", id)).Warn("payment status", sl.Err(err))
		} else {
			info.PaymentStatus = intent.Status
		}
	}
	if order.DeliveryId == "" || c.courier == nil {
		return info, nil
	}
	d, err := c.courier.GetDelivery(ctx, order.DeliveryId)
	if err != nil {
		c.log.With(
			slog.Int64("order_id", id),
			slog.String("delivery_id", order.DeliveryId),
		).Warn("delivery status", sl.Err(err))
		return info, nil
	}
	info.DeliveryStatus = d.DeliveryStatus
	info.TrackingUrl = d.TrackingUrl
	return info, nil
}

// RecentOrders lists orders created since the given time, the last day by default
func (c *Core) RecentOrders(ctx context.Context, since time.Time) ([]*entity.Order, error) {
	if c.orders == nil {
		return nil, notConnected("orders")
	}
	if since.IsZero() {
		since = time.Now().Add(-24 * time.Hour)
	}
	return c.orders.OrdersSince(ctx, since)
}

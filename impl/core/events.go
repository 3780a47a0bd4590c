package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/entity"
	"storefront/lib/sl"

	"github.com/stripe/stripe-go/v76"
)

func (c *Core) StripeVerify(payload []byte, header string) (*stripe.Event, error) {
	if c.payments == nil {
		return nil, notConnected("payments")
	}
	return c.payments.VerifyEvent(payload, header)
}

// StripeEvent applies a payment outcome to its order. An event id is recorded
// only after it was applied, so a failed attempt is retried by Stripe.
func (c *Core) StripeEvent(ctx context.Context, evt *stripe.Event) error {
	intentId := evt.GetObjectValue("id")
	log := c.log.With(
		slog.String("event_id", evt.ID),
		slog.String("event_type", string(evt.Type)),
		slog.String("payment_intent_id", intentId),
	)

	var status entity.OrderStatus
	switch evt.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		status = entity.StatusPaid
	case stripe.EventTypePaymentIntentPaymentFailed:
		status = entity.StatusPaymentFailed
	case stripe.EventTypePaymentIntentCanceled:
		status = entity.StatusCanceled
	default:
		log.Debug("event ignored")
		return nil
	}

	if c.db != nil {
		seen, err := c.db.StripeEventProcessed(evt.ID)
		if err != nil {
			return fmt.Errorf("check event: %w", err)
		}
		if seen {
			log.Info("duplicate event ignored")
			return nil
		}
	}

	record, order, err := c.findPayment(ctx, intentId)
	if err != nil {
		return err
	}
	if order == nil {
		log.Warn("no order for payment intent")
		c.markProcessed(log, evt, intentId)
		return nil
	}
	log = log.With(slog.Int64("order_id", order.Id))

	if !order.Status.CanMoveTo(status) {
		log.With(slog.String("status", string(order.Status))).Info("stale event ignored")
		c.markProcessed(log, evt, intentId)
		return nil
	}
	err = c.orders.UpdateOrderStatus(ctx, order.Id, status, intentId, "")
	if errors.Is(err, entity.ErrStatusConflict) {
		// another delivery of the outcome got there first
		log.Info("stale event ignored", sl.Err(err))
		c.markProcessed(log, evt, intentId)
		return nil
	}
	if err != nil {
		return fmt.Errorf("update order %d: %w", order.Id, err)
	}
	c.markProcessed(log, evt, intentId)
	c.saveRecord(record, status, "")
	log.With(slog.String("status", string(status))).Info("order status updated")

	switch status {
	case entity.StatusPaid:
		c.notify("Order #%d paid: %s, %s, %s", order.Id, order.CustomerName, order.CustomerPhone, money(order.Total))
		if record != nil && record.IsDelivery() {
			c.requestDelivery(ctx, log, order, record)
		}
	case entity.StatusPaymentFailed:
		c.notify("Order #%d payment failed: %s, %s", order.Id, order.CustomerName, order.CustomerPhone)
	}
	return nil
}

func (c *Core) markProcessed(log *slog.Logger, evt *stripe.Event, intentId string) {
	if c.db == nil {
		return
	}
	err := c.db.SaveStripeEvent(&entity.StripeEvent{
		Id:              evt.ID,
		Type:            string(evt.Type),
		PaymentIntentId: intentId,
		Received:        time.Now(),
	})
	if err != nil && !errors.Is(err, entity.ErrAlreadyProcessed) {
		log.Error("save event", sl.Err(err))
	}
}

// findPayment loads the checkout record and the order for a payment intent;
// intents created outside of checkout have no record
func (c *Core) findPayment(ctx context.Context, intentId string) (*entity.CheckoutRecord, *entity.Order, error) {
	if c.orders == nil {
		return nil, nil, notConnected("orders")
	}
	var record *entity.CheckoutRecord
	if c.db != nil {
		var err error
		record, err = c.db.CheckoutRecordByIntent(intentId)
		if err != nil {
			return nil, nil, fmt.Errorf("checkout record: %w", err)
		}
	}

	var order *entity.Order
	var err error
	if record != nil {
		order, err = c.orders.Order(ctx, record.OrderId)
	} else {
		order, err = c.orders.OrderByPaymentIntent(ctx, intentId)
	}
	if errors.Is(err, entity.ErrNotFound) {
		return record, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return record, order, nil
}

func (c *Core) saveRecord(record *entity.CheckoutRecord, status entity.OrderStatus, deliveryId string) {
	if record == nil || c.db == nil {
		return
	}
	record.Status = status
	if deliveryId != "" {
		record.DeliveryId = deliveryId
	}
	if status != entity.StatusPending {
		record.Closed = time.Now()
	}
	if err := c.db.SaveCheckoutRecord(record); err != nil {
		c.log.With(slog.Int64("order_id", record.OrderId)).Error("save checkout record", sl.Err(err))
	}
}

// requestDelivery keeps the order paid when the courier cannot be booked
func (c *Core) requestDelivery(ctx context.Context, log *slog.Logger, order *entity.Order, record *entity.CheckoutRecord) {
	d, err := c.dispatch(ctx, record)
	if err != nil {
		log.Error("delivery dispatch failed", sl.Err(err))
		c.notify("Order #%d is paid but delivery was not booked: %v", order.Id, err)
		return
	}
	log = log.With(
		slog.String("delivery_id", d.ExternalDeliveryId),
		slog.String("tracking_url", d.TrackingUrl),
	)
	if err = c.orders.UpdateOrderStatus(ctx, order.Id, entity.StatusDeliveryRequested, "", d.ExternalDeliveryId); err != nil {
		log.Error("save delivery on order", sl.Err(err))
		return
	}
	c.saveRecord(record, entity.StatusDeliveryRequested, d.ExternalDeliveryId)
	log.Info("delivery requested")
	c.notify("Order #%d courier booked, tracking: %s", order.Id, d.TrackingUrl)
}

func money(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/entity"
	"storefront/internal/doordash"
	"storefront/lib/clock"
	"storefront/lib/sl"
)

func (c *Core) DeliveryQuote(ctx context.Context, req *entity.QuoteRequest) (*entity.DeliveryQuote, error) {
	if c.estimator == nil {
		return nil, notConnected("delivery estimator")
	}
	return c.estimator.Quote(ctx, req.PickupAddress, req.DeliveryAddress), nil
}

// DoorDashQuote never fails: when the provider cannot quote, a flat fallback fee is offered
func (c *Core) DoorDashQuote(ctx context.Context, req *entity.QuoteRequest) *doordash.Delivery {
	log := c.log.With(
		slog.String("pickup", req.PickupAddress),
		slog.String("dropoff", req.DeliveryAddress),
	)
	if c.courier != nil {
		quote, err := c.courier.Quote(ctx, req)
		if err == nil {
			return quote
		}
		log.Warn("doordash quote failed, using fallback", sl.Err(err))
	}
	return c.fallbackQuote(time.Now())
}

func (c *Core) fallbackQuote(now time.Time) *doordash.Delivery {
	fee := c.fallback
	if fee <= 0 {
		fee = 599
	}
	return &doordash.Delivery{
		ExternalDeliveryId:   fmt.Sprintf("fallback_%d", now.Unix()),
		DeliveryStatus:       "fallback",
		Fee:                  fee,
		Currency:             c.restaurant.Currency,
		PickupTimeEstimated:  clock.Format(now.Add(30 * time.Minute)),
		DropoffTimeEstimated: clock.Format(now.Add(60 * time.Minute)),
	}
}

func (c *Core) CreateDelivery(ctx context.Context, req *entity.DeliveryRequest) (*doordash.Delivery, error) {
	if c.courier == nil {
		return nil, notConnected("doordash")
	}
	d, err := c.courier.CreateDelivery(ctx, req)
	if err != nil {
		return nil, courierError("create delivery", err)
	}
	return d, nil
}

func (c *Core) DeliveryStatus(ctx context.Context, id string) (*doordash.Delivery, error) {
	if c.courier == nil {
		return nil, notConnected("doordash")
	}
	d, err := c.courier.GetDelivery(ctx, id)
	if err != nil {
		return nil, courierError("delivery status", err)
	}
	return d, nil
}

// courierError maps provider errors onto the shared error kinds
func courierError(op string, err error) error {
	var apiErr *doordash.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsValidation():
			return fmt.Errorf("%w: %s: %v", entity.ErrInvalid, op, err)
		case apiErr.Status == 404:
			return fmt.Errorf("%w: %s: %v", entity.ErrNotFound, op, err)
		}
	}
	if errors.Is(err, doordash.ErrNotConfigured) {
		return fmt.Errorf("%w: %s: %v", entity.ErrNotConnected, op, err)
	}
	return fmt.Errorf("%w: %s: %v", entity.ErrUpstream, op, err)
}

// dispatch books a courier for a paid delivery order
func (c *Core) dispatch(ctx context.Context, record *entity.CheckoutRecord) (*doordash.Delivery, error) {
	if c.courier == nil {
		return nil, notConnected("doordash")
	}
	return c.courier.CreateDelivery(ctx, &entity.DeliveryRequest{
		PickupAddress:        c.pickupAddress(ctx),
		PickupPhoneNumber:    c.restaurant.Phone,
		PickupBusinessName:   c.restaurant.Name,
		DeliveryAddress:      record.DeliveryAddress,
		DeliveryPhoneNumber:  record.CustomerPhone,
		DeliveryBusinessName: record.CustomerName,
		ExternalDeliveryId:   "order_" + record.PaymentIntentId,
		OrderValue:           record.Totals.Subtotal,
	})
}

func (c *Core) CreateDoorDashBusiness(ctx context.Context, req *entity.BusinessRequest) (*doordash.Business, error) {
	if c.courier == nil {
		return nil, notConnected("doordash")
	}
	business := &doordash.Business{
		ExternalBusinessId: req.BusinessId,
		Name:               req.Name,
		Description:        req.Description,
	}
	if business.ExternalBusinessId == "" {
		business.ExternalBusinessId = c.courier.BusinessId()
	}
	if business.Name == "" {
		business.Name = c.restaurant.Name
	}
	created, err := c.courier.CreateBusiness(ctx, business)
	if err != nil {
		return nil, courierError("create business", err)
	}
	return created, nil
}

// CreateDoorDashStore registers the restaurant as a pickup location; empty
// fields are taken from the restaurant settings
func (c *Core) CreateDoorDashStore(ctx context.Context, req *entity.StoreRequest) (*doordash.Store, error) {
	if c.courier == nil {
		return nil, notConnected("doordash")
	}
	businessId := req.BusinessId
	if businessId == "" {
		businessId = c.courier.BusinessId()
	}
	store := &doordash.Store{
		ExternalStoreId: req.StoreExternalId,
		Name:            req.StoreName,
		PhoneNumber:     req.Phone,
		Address:         req.Address,
	}
	if store.ExternalStoreId == "" {
		store.ExternalStoreId = fmt.Sprintf("restaurant-%d", c.restaurant.Id)
	}
	if store.Name == "" {
		store.Name = c.restaurant.Name
	}
	if store.PhoneNumber == "" {
		store.PhoneNumber = c.restaurant.Phone
	}
	if store.Address == "" {
		store.Address = c.pickupAddress(ctx)
	}
	created, err := c.courier.CreateStore(ctx, businessId, store)
	if err != nil {
		return nil, courierError("create store", err)
	}
	return created, nil
}

func (c *Core) DoorDashStores(ctx context.Context, businessId string) ([]doordash.Store, error) {
	if c.courier == nil {
		return nil, notConnected("doordash")
	}
	if businessId == "" {
		businessId = c.courier.BusinessId()
	}
	stores, err := c.courier.ListStores(ctx, businessId)
	if err != nil {
		return nil, courierError("list stores", err)
	}
	return stores, nil
}

func (c *Core) DoorDashDefaults(ctx context.Context) (*doordash.Defaults, error) {
	if c.courier == nil {
		return nil, notConnected("doordash")
	}
	businesses, err := c.courier.ListBusinesses(ctx)
	if err != nil {
		return nil, courierError("list businesses", err)
	}
	stores, err := c.courier.ListStores(ctx, "default")
	if err != nil {
		return nil, courierError("list stores", err)
	}
	return &doordash.Defaults{
		Businesses: businesses,
		Stores:     stores,
		Message:    `Use businessId "default" and storeId "default" in delivery quotes`,
	}, nil
}

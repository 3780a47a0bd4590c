package entity

import (
	"net/http"
	"time"

	"storefront/lib/validate"
)

type CheckoutRequest struct {
	CartRequest
	CustomerName  string `json:"customer_name" validate:"required,max=128"`
	CustomerPhone string `json:"customer_phone" validate:"required,phone"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
}

func (c *CheckoutRequest) Bind(_ *http.Request) error {
	return validate.Struct(c)
}

type CheckoutResult struct {
	OrderId         int64          `json:"order_id"`
	PaymentIntentId string         `json:"payment_intent_id"`
	ClientSecret    string         `json:"client_secret"`
	Items           []*CartItem    `json:"items"`
	Totals          Totals         `json:"totals"`
	Delivery        *DeliveryQuote `json:"delivery,omitempty"`
}

// CheckoutRecord keeps what the payment webhook needs to finish an order
type CheckoutRecord struct {
	OrderId         int64          `json:"order_id" bson:"order_id"`
	PaymentIntentId string         `json:"payment_intent_id" bson:"payment_intent_id"`
	DeliveryMethod  DeliveryMethod `json:"delivery_method" bson:"delivery_method"`
	CustomerName    string         `json:"customer_name" bson:"customer_name"`
	CustomerPhone   string         `json:"customer_phone" bson:"customer_phone"`
	CustomerEmail   string         `json:"customer_email,omitempty" bson:"customer_email,omitempty"`
	DeliveryAddress string         `json:"delivery_address,omitempty" bson:"delivery_address,omitempty"`
	Items           []*CartItem    `json:"items" bson:"items"`
	Totals          Totals         `json:"totals" bson:"totals"`
	Status          OrderStatus    `json:"status" bson:"status"`
	DeliveryId      string         `json:"delivery_id,omitempty" bson:"delivery_id,omitempty"`
	Created         time.Time      `json:"created" bson:"created"`
	Closed          time.Time      `json:"closed,omitempty" bson:"closed,omitempty"`
}

func (r *CheckoutRecord) IsDelivery() bool {
	return r.DeliveryMethod == MethodDelivery
}

// StripeEvent is stored once per event id so retried webhooks are ignored
type StripeEvent struct {
	Id              string    `bson:"id"`
	Type            string    `bson:"type"`
	PaymentIntentId string    `bson:"payment_intent_id"`
	Received        time.Time `bson:"received"`
}

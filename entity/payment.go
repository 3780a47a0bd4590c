package entity

import (
	"net/http"

	"storefront/lib/validate"
)

// PaymentRequest amounts are in cents
type PaymentRequest struct {
	Subtotal        int64          `json:"subtotal" validate:"gt=0"`
	DeliveryFee     int64          `json:"delivery_fee" validate:"min=0"`
	TaxAmount       int64          `json:"tax_amount" validate:"min=0"`
	CustomerName    string         `json:"customer_name" validate:"required"`
	CustomerPhone   string         `json:"customer_phone" validate:"required"`
	CustomerEmail   string         `json:"customer_email" validate:"omitempty,email"`
	DeliveryMethod  DeliveryMethod `json:"delivery_method" validate:"required,oneof=pickup delivery"`
	DeliveryAddress string         `json:"delivery_address"`
	OrderId         int64          `json:"order_id,omitempty"`
}

func (p *PaymentRequest) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

func (p *PaymentRequest) Total() int64 {
	return p.Subtotal + p.DeliveryFee + p.TaxAmount
}

type PaymentIntent struct {
	Id           string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

package entity

import (
	"net/http"
	"time"

	"storefront/lib/validate"
)

// DeliveryQuote fee is in cents and always zero when delivery is not available
type DeliveryQuote struct {
	Available             bool    `json:"available"`
	DistanceKm            float64 `json:"distance_km,omitempty"`
	DurationMinutes       int     `json:"duration_minutes,omitempty"`
	MaxDistanceKm         float64 `json:"max_distance_km,omitempty"`
	Fee                   int64   `json:"fee"`
	EstimatedDeliveryTime string  `json:"estimated_delivery_time,omitempty"`
	Message               string  `json:"message"`
}

type QuoteRequest struct {
	PickupAddress   string `json:"pickup_address" validate:"required"`
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	CustomerPhone   string `json:"customer_phone" validate:"required"`
	PickupTime      int64  `json:"pickup_time,omitempty" validate:"min=0"`
}

func (q *QuoteRequest) Bind(_ *http.Request) error {
	return validate.Struct(q)
}

// PickupAt returns the requested pickup time or 30 minutes from now
func (q *QuoteRequest) PickupAt() time.Time {
	if q.PickupTime > 0 {
		return time.Unix(q.PickupTime, 0)
	}
	return time.Now().Add(30 * time.Minute)
}

type DeliveryRequest struct {
	PickupAddress        string `json:"pickup_address" validate:"required"`
	PickupPhoneNumber    string `json:"pickup_phone_number" validate:"required"`
	DeliveryAddress      string `json:"delivery_address" validate:"required"`
	DeliveryPhoneNumber  string `json:"delivery_phone_number" validate:"required"`
	PickupBusinessName   string `json:"pickup_business_name,omitempty"`
	DeliveryBusinessName string `json:"delivery_business_name,omitempty"`
	ExternalDeliveryId   string `json:"external_delivery_id,omitempty"`
	OrderValue           int64  `json:"order_value,omitempty" validate:"min=0"`
}

func (d *DeliveryRequest) Bind(_ *http.Request) error {
	return validate.Struct(d)
}

type DeliveryStatusRequest struct {
	DeliveryId string `json:"delivery_id" validate:"required"`
}

func (d *DeliveryStatusRequest) Bind(_ *http.Request) error {
	return validate.Struct(d)
}

type StoreRequest struct {
	BusinessId      string `json:"business_id"`
	StoreExternalId string `json:"store_external_id"`
	StoreName       string `json:"store_name"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
}

func (s *StoreRequest) Bind(_ *http.Request) error {
	return validate.Struct(s)
}

type BusinessRequest struct {
	BusinessId  string `json:"business_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (b *BusinessRequest) Bind(_ *http.Request) error {
	return validate.Struct(b)
}

package entity

import "time"

type OrderStatus string

const (
	StatusPending           OrderStatus = "pending"
	StatusPaid              OrderStatus = "paid"
	StatusPaymentFailed     OrderStatus = "payment_failed"
	StatusCanceled          OrderStatus = "canceled"
	StatusDeliveryRequested OrderStatus = "delivery_requested"
)

// transitions lists the statuses an order may move to from each status;
// a paid order never goes back to an unpaid one
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:       {StatusPending, StatusPaid, StatusPaymentFailed, StatusCanceled},
	StatusPaymentFailed: {StatusPaid, StatusPaymentFailed, StatusCanceled},
	StatusPaid:          {StatusDeliveryRequested},
}

func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	for _, status := range transitions[s] {
		if status == next {
			return true
		}
	}
	return false
}

// StatusesBefore returns the statuses from which an order may move to next
func StatusesBefore(next OrderStatus) []string {
	from := make([]string, 0, len(transitions))
	for _, status := range []OrderStatus{StatusPending, StatusPaymentFailed, StatusPaid} {
		if status.CanMoveTo(next) {
			from = append(from, string(status))
		}
	}
	return from
}

// Order mirrors the orders table; Total is in cents
type Order struct {
	Id              int64       `json:"id"`
	RestaurantId    int64       `json:"restaurant_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	Items           []*CartItem `json:"items"`
	Total           int64       `json:"total"`
	Status          OrderStatus `json:"status"`
	StripeId        string      `json:"stripe_id,omitempty"`
	DeliveryId      string      `json:"delivery_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type OrderInfo struct {
	Order          *Order `json:"order"`
	PaymentStatus  string `json:"payment_status,omitempty"`
	DeliveryStatus string `json:"delivery_status,omitempty"`
	TrackingUrl    string `json:"tracking_url,omitempty"`
}

package doordash

import (
	"fmt"
	"strings"
)

type Delivery struct {
	ExternalDeliveryId   string `json:"external_delivery_id"`
	DeliveryStatus       string `json:"delivery_status"`
	Fee                  int64  `json:"fee"`
	Currency             string `json:"currency,omitempty"`
	PickupAddress        string `json:"pickup_address,omitempty"`
	DropoffAddress       string `json:"dropoff_address,omitempty"`
	PickupTimeEstimated  string `json:"pickup_time_estimated,omitempty"`
	DropoffTimeEstimated string `json:"dropoff_time_estimated,omitempty"`
	TrackingUrl          string `json:"tracking_url,omitempty"`
	SupportReference     string `json:"support_reference,omitempty"`
}

type deliveryPayload struct {
	ExternalDeliveryId              string `json:"external_delivery_id"`
	PickupAddress                   string `json:"pickup_address"`
	PickupPhoneNumber               string `json:"pickup_phone_number,omitempty"`
	PickupBusinessName              string `json:"pickup_business_name,omitempty"`
	PickupTime                      string `json:"pickup_time,omitempty"`
	DropoffAddress                  string `json:"dropoff_address"`
	DropoffPhoneNumber              string `json:"dropoff_phone_number"`
	DropoffBusinessName             string `json:"dropoff_business_name,omitempty"`
	DropoffContactSendNotifications bool   `json:"dropoff_contact_send_notifications,omitempty"`
	OrderValue                      int64  `json:"order_value,omitempty"`
}

type Business struct {
	ExternalBusinessId string `json:"external_business_id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	ActivationStatus   string `json:"activation_status,omitempty"`
}

type Store struct {
	ExternalBusinessId string `json:"external_business_id,omitempty"`
	ExternalStoreId    string `json:"external_store_id"`
	Name               string `json:"name"`
	PhoneNumber        string `json:"phone_number"`
	Address            string `json:"address"`
	Status             string `json:"status,omitempty"`
}

// Defaults lists what the account already has, usually the "default" business and store
type Defaults struct {
	Businesses []Business `json:"businesses"`
	Stores     []Store    `json:"stores"`
	Message    string     `json:"message"`
}

// listResponse covers both spellings the list endpoints have been seen to use
type listResponse[T any] struct {
	Result            []T    `json:"result"`
	Results           []T    `json:"results"`
	ContinuationToken string `json:"continuation_token,omitempty"`
}

func (l *listResponse[T]) items() []T {
	if len(l.Result) > 0 {
		return l.Result
	}
	if l.Results == nil {
		return []T{}
	}
	return l.Results
}

type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// APIError is a non-2xx answer from the Drive API
type APIError struct {
	Status      int          `json:"-"`
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("doordash status %d", e.Status)
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.FieldErrors) > 0 {
		fields := make([]string, 0, len(e.FieldErrors))
		for _, fe := range e.FieldErrors {
			fields = append(fields, fmt.Sprintf("%s %s", fe.Field, fe.Error))
		}
		msg += " (" + strings.Join(fields, "; ") + ")"
	}
	return msg
}

func (e *APIError) IsValidation() bool {
	return e.Status == 422 || e.Message == "Validation Failed"
}

package doordash

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/entity"
	"storefront/internal/config"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	creds := testCredentials()
	return New(config.DoorDashConfig{
		BaseURL:       srv.URL,
		DeveloperId:   creds.DeveloperId,
		KeyId:         creds.KeyId,
		SigningSecret: creds.SigningSecret,
	}, "Joe's Pizza GTA", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateDelivery(t *testing.T) {
	var got deliveryPayload
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/drive/v2/deliveries" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"external_delivery_id":"order_pi_1","delivery_status":"created","fee":975,
			"tracking_url":"https://track.example/abc","support_reference":"1234"}`)
	})

	d, err := c.CreateDelivery(context.Background(), &entity.DeliveryRequest{
		PickupAddress:       "2180 Credit Valley Rd, Mississauga",
		PickupPhoneNumber:   "647-920-6806",
		DeliveryAddress:     "100 City Centre Dr, Mississauga",
		DeliveryPhoneNumber: "(905) 555-0100",
		ExternalDeliveryId:  "order_pi_1",
		OrderValue:          3955,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DeliveryStatus != "created" || d.Fee != 975 || d.TrackingUrl == "" {
		t.Fatalf("unexpected delivery %+v", d)
	}
	if got.PickupPhoneNumber != "+16479206806" || got.DropoffPhoneNumber != "+19055550100" {
		t.Fatalf("phones not normalised: %+v", got)
	}
	if got.PickupBusinessName != "Joe's Pizza GTA" || got.DropoffBusinessName != "Customer" {
		t.Fatalf("business name defaults not applied: %+v", got)
	}
	if !got.DropoffContactSendNotifications || got.OrderValue != 3955 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestCreateDeliveryGeneratesId(t *testing.T) {
	var got deliveryPayload
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"delivery_status":"created"}`)
	})
	_, err := c.CreateDelivery(context.Background(), &entity.DeliveryRequest{
		PickupAddress:       "a",
		PickupPhoneNumber:   "6479206806",
		DeliveryAddress:     "b",
		DeliveryPhoneNumber: "9055550100",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got.ExternalDeliveryId, "order_") || len(got.ExternalDeliveryId) < 10 {
		t.Fatalf("unexpected generated id %q", got.ExternalDeliveryId)
	}
}

func TestValidationError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"code":"validation_error","message":"Validation Failed",
			"field_errors":[{"field":"dropoff_phone_number","error":"Invalid phone number"}]}`)
	})
	_, err := c.CreateDelivery(context.Background(), &entity.DeliveryRequest{
		PickupAddress: "a", PickupPhoneNumber: "1", DeliveryAddress: "b", DeliveryPhoneNumber: "2",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.IsValidation() || apiErr.Status != 422 {
		t.Fatalf("expected validation error, got %+v", apiErr)
	}
	if !strings.Contains(apiErr.Error(), "dropoff_phone_number Invalid phone number") {
		t.Fatalf("field errors missing from message: %s", apiErr.Error())
	}
}

func TestTruncatedResponse(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "200")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"code":"validation_error","mess`)
	})
	_, err := c.GetDelivery(context.Background(), "order_pi_1")
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
	if !strings.Contains(err.Error(), "read response") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("truncated body reported as api error %+v", apiErr)
	}
}

func TestGetDelivery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/drive/v2/deliveries/order_pi_1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"external_delivery_id":"order_pi_1","delivery_status":"enroute_to_dropoff"}`)
	})
	d, err := c.GetDelivery(context.Background(), "order_pi_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DeliveryStatus != "enroute_to_dropoff" {
		t.Fatalf("unexpected status %s", d.DeliveryStatus)
	}
	if _, err = c.GetDelivery(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestQuote(t *testing.T) {
	var got deliveryPayload
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drive/v2/quotes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"external_delivery_id":"quote_x","delivery_status":"quote","fee":825}`)
	})
	q, err := c.Quote(context.Background(), &entity.QuoteRequest{
		PickupAddress:   "a",
		DeliveryAddress: "b",
		CustomerPhone:   "905 555 0100",
		PickupTime:      1750000000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Fee != 825 {
		t.Fatalf("unexpected fee %d", q.Fee)
	}
	if got.PickupTime != "2025-06-15T15:06:40Z" || got.DropoffPhoneNumber != "+19055550100" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestStores(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drive/v1/businesses/default/stores" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method == http.MethodPost {
			var s Store
			_ = json.NewDecoder(r.Body).Decode(&s)
			if s.PhoneNumber != "+16479206806" {
				t.Errorf("store phone not normalised: %s", s.PhoneNumber)
			}
			_ = json.NewEncoder(w).Encode(s)
			return
		}
		_, _ = io.WriteString(w, `{"result":[{"external_store_id":"default","name":"Main"}]}`)
	})

	stores, err := c.ListStores(context.Background(), "default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stores) != 1 || stores[0].ExternalStoreId != "default" {
		t.Fatalf("unexpected stores %+v", stores)
	}

	s, err := c.CreateStore(context.Background(), "default", &Store{
		ExternalStoreId: "joes-main",
		Name:            "Joe's Main",
		PhoneNumber:     "647 920 6806",
		Address:         "2180 Credit Valley Rd",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ExternalStoreId != "joes-main" {
		t.Fatalf("unexpected store %+v", s)
	}
}

func TestListBusinessesResultsSpelling(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"external_business_id":"default","name":"Default"}]}`)
	})
	list, err := c.ListBusinesses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ExternalBusinessId != "default" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestNotConfigured(t *testing.T) {
	c := New(config.DoorDashConfig{}, "x", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := c.ListBusinesses(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

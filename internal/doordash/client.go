package doordash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/entity"
	"storefront/internal/config"
	"storefront/lib/sl"

	"github.com/google/uuid"
)

const (
	pathDrive    = "/drive/v2"
	pathBusiness = "/drive/v1"
)

type Client struct {
	hc           *http.Client
	baseURL      string
	creds        Credentials
	businessId   string
	businessName string
	log          *slog.Logger
	now          func() time.Time
}

func New(conf config.DoorDashConfig, businessName string, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(conf.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://openapi.doordash.com"
	}
	c := &Client{
		hc:      &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		creds: Credentials{
			DeveloperId:   conf.DeveloperId,
			KeyId:         conf.KeyId,
			SigningSecret: conf.SigningSecret,
		},
		businessId:   conf.BusinessId,
		businessName: businessName,
		log:          logger.With(sl.Module("doordash")),
		now:          time.Now,
	}
	c.log.With(
		slog.String("base_url", baseURL),
		sl.Secret("developer_id", conf.DeveloperId),
		sl.Secret("key_id", conf.KeyId),
	).Info("doordash client initialized")
	return c
}

func (c *Client) BusinessId() string {
	if c.businessId == "" {
		return "default"
	}
	return c.businessId
}

// request sends a signed call to the Drive API and decodes a 2xx body into out
func (c *Client) request(ctx context.Context, method, path string, payload, out interface{}) error {
	log := c.log.With(
		slog.String("method", method),
		slog.String("path", path),
	)

	status := "ERROR"
	t1 := time.Now()
	defer func() {
		log.Debug("doordash request completed",
			slog.String("duration", fmt.Sprintf("%.3fms", float64(time.Since(t1))/float64(time.Millisecond))),
			slog.String("status", status))
	}()

	token, err := Token(c.creds, c.now())
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en-US")

	resp, err := c.hc.Do(req)
	if err != nil {
		log.Error("request failed", sl.Err(err))
		return fmt.Errorf("doordash request: %w", err)
	}
	defer resp.Body.Close()
	status = resp.Status
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		log.Error("read response", sl.Err(err))
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if e := json.Unmarshal(raw, apiErr); e != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		log.With(
			slog.String("status", resp.Status),
			slog.String("body", string(raw)),
		).Error("doordash api returned error")
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Quote asks for a delivery price without dispatching a courier
func (c *Client) Quote(ctx context.Context, req *entity.QuoteRequest) (*Delivery, error) {
	payload := deliveryPayload{
		ExternalDeliveryId: "quote_" + uuid.NewString(),
		PickupAddress:      req.PickupAddress,
		PickupTime:         FormatTime(req.PickupAt()),
		DropoffAddress:     req.DeliveryAddress,
		DropoffPhoneNumber: FormatPhone(req.CustomerPhone),
	}
	var quote Delivery
	if err := c.request(ctx, http.MethodPost, pathDrive+"/quotes", payload, &quote); err != nil {
		return nil, err
	}
	c.log.With(
		slog.String("external_delivery_id", quote.ExternalDeliveryId),
		sl.Cents("fee", quote.Fee),
	).Info("quote received")
	return &quote, nil
}

func (c *Client) CreateDelivery(ctx context.Context, req *entity.DeliveryRequest) (*Delivery, error) {
	payload := deliveryPayload{
		ExternalDeliveryId:              req.ExternalDeliveryId,
		PickupAddress:                   req.PickupAddress,
		PickupPhoneNumber:               FormatPhone(req.PickupPhoneNumber),
		PickupBusinessName:              req.PickupBusinessName,
		DropoffAddress:                  req.DeliveryAddress,
		DropoffPhoneNumber:              FormatPhone(req.DeliveryPhoneNumber),
		DropoffBusinessName:             req.DeliveryBusinessName,
		DropoffContactSendNotifications: true,
		OrderValue:                      req.OrderValue,
	}
	if payload.ExternalDeliveryId == "" {
		payload.ExternalDeliveryId = "order_" + uuid.NewString()
	}
	if payload.PickupBusinessName == "" {
		payload.PickupBusinessName = c.businessName
	}
	if payload.DropoffBusinessName == "" {
		payload.DropoffBusinessName = "Customer"
	}
	log := c.log.With(
		slog.String("external_delivery_id", payload.ExternalDeliveryId),
		slog.String("dropoff", payload.DropoffAddress),
	)

	var delivery Delivery
	if err := c.request(ctx, http.MethodPost, pathDrive+"/deliveries", payload, &delivery); err != nil {
		return nil, err
	}
	log.With(
		slog.String("status", delivery.DeliveryStatus),
		sl.Cents("fee", delivery.Fee),
		slog.String("tracking_url", delivery.TrackingUrl),
	).Info("delivery created")
	return &delivery, nil
}

func (c *Client) GetDelivery(ctx context.Context, externalId string) (*Delivery, error) {
	if externalId == "" {
		return nil, fmt.Errorf("delivery id is required")
	}
	var delivery Delivery
	path := fmt.Sprintf("%s/deliveries/%s", pathDrive, url.PathEscape(externalId))
	if err := c.request(ctx, http.MethodGet, path, nil, &delivery); err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (c *Client) CreateBusiness(ctx context.Context, business *Business) (*Business, error) {
	var created Business
	if err := c.request(ctx, http.MethodPost, pathBusiness+"/businesses", business, &created); err != nil {
		return nil, err
	}
	c.log.With(
		slog.String("external_business_id", created.ExternalBusinessId),
		slog.String("name", created.Name),
	).Info("business created")
	return &created, nil
}

func (c *Client) ListBusinesses(ctx context.Context) ([]Business, error) {
	var list listResponse[Business]
	if err := c.request(ctx, http.MethodGet, pathBusiness+"/businesses", nil, &list); err != nil {
		return nil, err
	}
	return list.items(), nil
}

func (c *Client) CreateStore(ctx context.Context, businessId string, store *Store) (*Store, error) {
	store.PhoneNumber = FormatPhone(store.PhoneNumber)
	path := fmt.Sprintf("%s/businesses/%s/stores", pathBusiness, url.PathEscape(businessId))
	var created Store
	if err := c.request(ctx, http.MethodPost, path, store, &created); err != nil {
		return nil, err
	}
	c.log.With(
		slog.String("external_store_id", created.ExternalStoreId),
		slog.String("address", created.Address),
	).Info("store created")
	return &created, nil
}

func (c *Client) ListStores(ctx context.Context, businessId string) ([]Store, error) {
	path := fmt.Sprintf("%s/businesses/%s/stores", pathBusiness, url.PathEscape(businessId))
	var list listResponse[Store]
	if err := c.request(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.items(), nil
}

package stripeclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"storefront/entity"
	"storefront/internal/config"
	"storefront/lib/sl"

	"github.com/biter777/countries"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const webhookTolerance = 5 * time.Minute

var ErrInvalidAmount = errors.New("invalid amount")

type StripeClient struct {
	sc             *client.API
	webhookSecret  string
	restaurantName string
	currency       string
	country        string
	statementName  string
	log            *slog.Logger
	testMode       bool
}

// New returns nil when no secret key is configured for the selected mode
func New(conf *config.Config, logger *slog.Logger) *StripeClient {
	stripeKey := conf.Stripe.APIKey
	webhookSecret := conf.Stripe.WebhookSecret
	if conf.Stripe.TestMode {
		stripeKey = conf.Stripe.TestKey
		webhookSecret = conf.Stripe.TestWebhookSecret
		logger.With(
			sl.Secret("api_key", stripeKey),
			sl.Secret("webhook_secret", webhookSecret),
		).Info("using test mode for stripe")
	}
	if stripeKey == "" {
		logger.Warn("stripe api key not configured, payments disabled")
		return nil
	}
	sc := &client.API{}
	sc.Init(stripeKey, nil)
	return &StripeClient{
		sc:             sc,
		webhookSecret:  webhookSecret,
		restaurantName: conf.Restaurant.Name,
		currency:       strings.ToLower(conf.Restaurant.Currency),
		country:        countryCode(conf.Restaurant.Country),
		statementName:  statementSuffix(conf.Restaurant.StatementName),
		testMode:       conf.Stripe.TestMode,
		log:            logger.With(sl.Module("stripe")),
	}
}

// countryCode normalises a configured country name or code to ISO alpha-2
func countryCode(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) == 2 {
		return strings.ToUpper(value)
	}
	code := countries.ByName(value).Alpha2()
	if len(code) == 2 {
		return code
	}
	return ""
}

// statementSuffix keeps what card networks accept: 22 latin characters without <>\'"*
func statementSuffix(value string) string {
	value = strings.Map(func(r rune) rune {
		if r > 127 || strings.ContainsRune(`<>\'"*`, r) {
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(value)))
	if len(value) > 22 {
		value = strings.TrimSpace(value[:22])
	}
	return value
}

func dollars(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}

func (s *StripeClient) description(method entity.DeliveryMethod) string {
	kind := "Pickup"
	if method == entity.MethodDelivery {
		kind = "Delivery"
	}
	return fmt.Sprintf("%s Order - %s", s.restaurantName, kind)
}

func (s *StripeClient) intentParams(ctx context.Context, req *entity.PaymentRequest) (*stripe.PaymentIntentParams, error) {
	if req.Subtotal <= 0 || req.CustomerName == "" || req.CustomerPhone == "" {
		return nil, fmt.Errorf("missing required fields: subtotal, customer_name, customer_phone")
	}
	total := req.Total()
	if total <= 0 {
		return nil, ErrInvalidAmount
	}

	address := req.DeliveryAddress
	if address == "" {
		address = "N/A"
	}
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(total),
		Currency:    stripe.String(s.currency),
		Description: stripe.String(s.description(req.DeliveryMethod)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("customerName", req.CustomerName)
	params.AddMetadata("customerPhone", req.CustomerPhone)
	params.AddMetadata("deliveryMethod", string(req.DeliveryMethod))
	params.AddMetadata("deliveryAddress", address)
	params.AddMetadata("subtotal", dollars(req.Subtotal))
	params.AddMetadata("deliveryFee", dollars(req.DeliveryFee))
	params.AddMetadata("taxAmount", dollars(req.TaxAmount))
	if req.OrderId > 0 {
		params.AddMetadata("order_id", strconv.FormatInt(req.OrderId, 10))
	}

	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		params.ReceiptEmail = stripe.String(email)
	}
	if s.statementName != "" {
		params.StatementDescriptorSuffix = stripe.String(s.statementName)
	}
	if req.DeliveryMethod == entity.MethodDelivery && req.DeliveryAddress != "" {
		shipping := &stripe.ShippingDetailsParams{
			Name:  stripe.String(req.CustomerName),
			Phone: stripe.String(req.CustomerPhone),
			Address: &stripe.AddressParams{
				Line1: stripe.String(req.DeliveryAddress),
			},
		}
		if s.country != "" {
			shipping.Address.Country = stripe.String(s.country)
		}
		params.Shipping = shipping
	}
	return params, nil
}

func (s *StripeClient) CreateIntent(ctx context.Context, req *entity.PaymentRequest) (*entity.PaymentIntent, error) {
	params, err := s.intentParams(ctx, req)
	if err != nil {
		return nil, err
	}
	log := s.log.With(
		sl.Cents("total", *params.Amount),
		slog.String("currency", s.currency),
		slog.String("method", string(req.DeliveryMethod)),
		slog.Int64("order_id", req.OrderId),
	)

	pi, err := s.sc.PaymentIntents.New(params)
	if err != nil {
		err = s.parseErr(err)
		log.Error("create payment intent", sl.Err(err))
		return nil, fmt.Errorf("stripe response: %w", err)
	}

	log.With(
		slog.String("payment_intent_id", pi.ID),
		slog.String("status", string(pi.Status)),
	).Info("payment intent created")
	return intentFrom(pi), nil
}

func (s *StripeClient) PaymentIntent(ctx context.Context, id string) (*entity.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.sc.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe response: %w", s.parseErr(err))
	}
	return intentFrom(pi), nil
}

func (s *StripeClient) CancelIntent(ctx context.Context, id string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx
	_, err := s.sc.PaymentIntents.Cancel(id, params)
	if err != nil {
		return fmt.Errorf("stripe response: %w", s.parseErr(err))
	}
	s.log.With(slog.String("payment_intent_id", id)).Info("payment intent canceled")
	return nil
}

// VerifyEvent checks the webhook signature and decodes the event
func (s *StripeClient) VerifyEvent(payload []byte, header string) (*stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, header, s.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhookTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		s.log.With(
			sl.Secret("secret", s.webhookSecret),
			sl.Err(err),
		).Warn("webhook verification failed")
		return nil, err
	}
	return &event, nil
}

func intentFrom(pi *stripe.PaymentIntent) *entity.PaymentIntent {
	return &entity.PaymentIntent{
		Id:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}

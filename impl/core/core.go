package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/entity"
	"storefront/internal/config"
	"storefront/internal/doordash"
	"storefront/lib/sl"

	"github.com/stripe/stripe-go/v76"
)

type AuthService interface {
	UserByToken(token string) (*entity.User, error)
}

// Catalog is the read side of the restaurant database
type Catalog interface {
	Restaurant(ctx context.Context, id int64) (*entity.Restaurant, error)
	Menu(ctx context.Context, restaurantId int64) ([]*entity.Category, error)
	MenuItems(ctx context.Context, ids []int64) (map[int64]*entity.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]*entity.MenuItem, error)
	UpdateMenuImage(ctx context.Context, name, imageUrl string) (int64, error)
}

type Orders interface {
	CreateOrder(ctx context.Context, order *entity.Order) error
	Order(ctx context.Context, id int64) (*entity.Order, error)
	OrderByPaymentIntent(ctx context.Context, intentId string) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status entity.OrderStatus, stripeId, deliveryId string) error
	OrdersSince(ctx context.Context, from time.Time) ([]*entity.Order, error)
}

type Payments interface {
	CreateIntent(ctx context.Context, req *entity.PaymentRequest) (*entity.PaymentIntent, error)
	PaymentIntent(ctx context.Context, id string) (*entity.PaymentIntent, error)
	CancelIntent(ctx context.Context, id string) error
	VerifyEvent(payload []byte, header string) (*stripe.Event, error)
}

// Courier dispatches drivers through the delivery provider
type Courier interface {
	BusinessId() string
	Quote(ctx context.Context, req *entity.QuoteRequest) (*doordash.Delivery, error)
	CreateDelivery(ctx context.Context, req *entity.DeliveryRequest) (*doordash.Delivery, error)
	GetDelivery(ctx context.Context, externalId string) (*doordash.Delivery, error)
	CreateBusiness(ctx context.Context, business *doordash.Business) (*doordash.Business, error)
	ListBusinesses(ctx context.Context) ([]doordash.Business, error)
	CreateStore(ctx context.Context, businessId string, store *doordash.Store) (*doordash.Store, error)
	ListStores(ctx context.Context, businessId string) ([]doordash.Store, error)
}

type Estimator interface {
	Quote(ctx context.Context, pickup, dropoff string) *entity.DeliveryQuote
}

// Database keeps checkout state between payment creation and the webhook
type Database interface {
	SaveCheckoutRecord(record *entity.CheckoutRecord) error
	CheckoutRecordByIntent(intentId string) (*entity.CheckoutRecord, error)
	StripeEventProcessed(id string) (bool, error)
	SaveStripeEvent(event *entity.StripeEvent) error
}

type Notifier interface {
	NotifyOrder(msg string)
}

type Core struct {
	restaurant config.RestaurantConfig
	fallback   int64
	catalog    Catalog
	orders     Orders
	payments   Payments
	courier    Courier
	estimator  Estimator
	db         Database
	auth       AuthService
	notifier   Notifier
	log        *slog.Logger
}

func New(conf *config.Config, log *slog.Logger) *Core {
	return &Core{
		restaurant: conf.Restaurant,
		fallback:   conf.Delivery.FallbackFee,
		log:        log.With(sl.Module("core")),
	}
}

func (c *Core) SetCatalog(catalog Catalog) {
	c.catalog = catalog
}

func (c *Core) SetOrders(orders Orders) {
	c.orders = orders
}

func (c *Core) SetPayments(payments Payments) {
	c.payments = payments
}

func (c *Core) SetCourier(courier Courier) {
	c.courier = courier
}

func (c *Core) SetEstimator(estimator Estimator) {
	c.estimator = estimator
}

func (c *Core) SetDatabase(db Database) {
	c.db = db
}

func (c *Core) SetAuthService(auth AuthService) {
	c.auth = auth
}

func (c *Core) SetNotifier(notifier Notifier) {
	c.notifier = notifier
}

func (c *Core) AuthenticateByToken(token string) (*entity.User, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service: %w", entity.ErrNotConnected)
	}
	return c.auth.UserByToken(token)
}

func (c *Core) notify(format string, args ...interface{}) {
	if c.notifier == nil {
		return
	}
	c.notifier.NotifyOrder(fmt.Sprintf(format, args...))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", entity.ErrInvalid, fmt.Sprintf(format, args...))
}

func notConnected(name string) error {
	return fmt.Errorf("%s: %w", name, entity.ErrNotConnected)
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"storefront/entity"
	"storefront/internal/config"
	"storefront/lib/sl"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store reads the catalog and keeps orders in the Supabase Postgres database.
// Prices and totals are numeric dollars in the tables and cents everywhere else.
type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func Connect(ctx context.Context, conf config.PostgresConfig, logger *slog.Logger) (*Store, error) {
	if !conf.Enabled {
		return nil, nil
	}
	poolConf, err := pgxpool.ParseConfig(conf.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if conf.MaxConns > 0 {
		poolConf.MaxConns = conf.MaxConns
	}

	pool, err := pgxpool.ConnectConfig(ctx, poolConf)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	log := logger.With(sl.Module("postgres"))
	log.With(
		slog.String("host", poolConf.ConnConfig.Host),
		slog.String("database", poolConf.ConnConfig.Database),
	).Info("connected")
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func toDollars(cents int64) float64 {
	return float64(cents) / 100
}

func notFound(err error, what string, id interface{}) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, id, entity.ErrNotFound)
	}
	return fmt.Errorf("%s %v: %w", what, id, err)
}

func (s *Store) Restaurant(ctx context.Context, id int64) (*entity.Restaurant, error) {
	var r entity.Restaurant
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, address, created_at FROM restaurants WHERE id = $1`, id,
	).Scan(&r.Id, &r.Name, &r.Address, &r.CreatedAt)
	if err != nil {
		return nil, notFound(err, "restaurant", id)
	}
	return &r, nil
}

// Menu returns the restaurant's categories ordered by name, each with its items
func (s *Store) Menu(ctx context.Context, restaurantId int64) ([]*entity.Category, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, restaurant_id, name, created_at FROM categories
		WHERE restaurant_id = $1 ORDER BY name`, restaurantId)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*entity.Category, 0)
	byId := make(map[int64]*entity.Category)
	ids := make([]int64, 0)
	for rows.Next() {
		c := &entity.Category{MenuItems: make([]*entity.MenuItem, 0)}
		if err = rows.Scan(&c.Id, &c.RestaurantId, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
		byId[c.Id] = c
		ids = append(ids, c.Id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	if len(ids) == 0 {
		return categories, nil
	}

	items, err := s.queryItems(ctx,
		`SELECT id, category_id, name, COALESCE(description, ''), price::float8, COALESCE(image_url, ''), created_at
		FROM menu_items WHERE category_id = ANY($1) ORDER BY name`, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if c, ok := byId[item.CategoryId]; ok {
			c.MenuItems = append(c.MenuItems, item)
		}
	}
	return categories, nil
}

// MenuItems loads the listed items keyed by id; unknown ids are simply absent
func (s *Store) MenuItems(ctx context.Context, ids []int64) (map[int64]*entity.MenuItem, error) {
	result := make(map[int64]*entity.MenuItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	items, err := s.queryItems(ctx,
		`SELECT id, category_id, name, COALESCE(description, ''), price::float8, COALESCE(image_url, ''), created_at
		FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		result[item.Id] = item
	}
	return result, nil
}

func (s *Store) ListMenuItems(ctx context.Context) ([]*entity.MenuItem, error) {
	return s.queryItems(ctx,
		`SELECT id, category_id, name, COALESCE(description, ''), price::float8, COALESCE(image_url, ''), created_at
		FROM menu_items ORDER BY name`)
}

func (s *Store) queryItems(ctx context.Context, query string, args ...interface{}) ([]*entity.MenuItem, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.MenuItem, 0)
	for rows.Next() {
		var item entity.MenuItem
		var price float64
		err = rows.Scan(&item.Id, &item.CategoryId, &item.Name, &item.Description, &price, &item.ImageUrl, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		item.Price = toCents(price)
		items = append(items, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("read menu items: %w", err)
	}
	return items, nil
}

// UpdateMenuImage sets the image of every item with the given name and
// reports how many rows were touched
func (s *Store) UpdateMenuImage(ctx context.Context, name, imageUrl string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE menu_items SET image_url = $1 WHERE name = $2`, imageUrl, name)
	if err != nil {
		return 0, fmt.Errorf("update image %q: %w", name, err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) CreateOrder(ctx context.Context, order *entity.Order) error {
	items, err := encodeItems(order.Items)
	if err != nil {
		return err
	}
	if order.Status == "" {
		order.Status = entity.StatusPending
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO orders (restaurant_id, customer_name, customer_phone, customer_address, items, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		order.RestaurantId,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddress,
		string(items),
		toDollars(order.Total),
		string(order.Status),
	).Scan(&order.Id, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	s.log.With(
		slog.Int64("order_id", order.Id),
		sl.Cents("total", order.Total),
	).Debug("order created")
	return nil
}

const selectOrder = `SELECT id, restaurant_id, customer_name, customer_phone, COALESCE(customer_address, ''),
	items, total::float8, status, COALESCE(stripe_id, ''), COALESCE(delivery_id, ''), created_at FROM orders`

func (s *Store) Order(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx, selectOrder+` WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return order, nil
}

func (s *Store) OrderByPaymentIntent(ctx context.Context, intentId string) (*entity.Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx,
		selectOrder+` WHERE stripe_id = $1 ORDER BY id DESC LIMIT 1`, intentId))
	if err != nil {
		return nil, notFound(err, "order for payment", intentId)
	}
	return order, nil
}

// UpdateOrderStatus changes the status when the current one allows it; the
// stripe and delivery ids are only written when not empty
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status entity.OrderStatus, stripeId, deliveryId string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET status = $2,
			stripe_id = COALESCE(NULLIF($3, ''), stripe_id),
			delivery_id = COALESCE(NULLIF($4, ''), delivery_id)
		WHERE id = $1 AND status::text = ANY($5::text[])`,
		id, string(status), stripeId, deliveryId, entity.StatusesBefore(status))
	if err != nil {
		return fmt.Errorf("update order %d: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var current string
	err = s.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
	if err != nil {
		return notFound(err, "order", id)
	}
	return fmt.Errorf("order %d is %s, not %s: %w", id, current, status, entity.ErrStatusConflict)
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var order entity.Order
	var items []byte
	var total float64
	var status string
	err := row.Scan(
		&order.Id,
		&order.RestaurantId,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.CustomerAddress,
		&items,
		&total,
		&status,
		&order.StripeId,
		&order.DeliveryId,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Total = toCents(total)
	order.Status = entity.OrderStatus(status)
	if order.Items, err = decodeItems(items); err != nil {
		return nil, err
	}
	return &order, nil
}

// orderItem is the jsonb shape of a line in orders.items
type orderItem struct {
	Id       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

func encodeItems(items []*entity.CartItem) ([]byte, error) {
	lines := make([]orderItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, orderItem{
			Id:       item.MenuItemId,
			Name:     item.Name,
			Price:    toDollars(item.Price),
			Quantity: item.Quantity,
		})
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return data, nil
}

func decodeItems(data []byte) ([]*entity.CartItem, error) {
	items := make([]*entity.CartItem, 0)
	if len(data) == 0 {
		return items, nil
	}
	var lines []orderItem
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	for _, line := range lines {
		items = append(items, &entity.CartItem{
			MenuItemId: line.Id,
			Name:       line.Name,
			Price:      toCents(line.Price),
			Quantity:   line.Quantity,
		})
	}
	return items, nil
}

// OrdersSince lists orders created at or after from, oldest first
func (s *Store) OrdersSince(ctx context.Context, from time.Time) ([]*entity.Order, error) {
	rows, err := s.pool.Query(ctx, selectOrder+` WHERE created_at >= $1 ORDER BY id`, from)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()
	orders := make([]*entity.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

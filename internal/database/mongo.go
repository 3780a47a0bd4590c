package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/entity"
	"storefront/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionUsers    = "users"
	collectionCheckout = "checkout_records"
	collectionEvents   = "stripe_events"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) *MongoDB {
	if !conf.Mongo.Enabled {
		return nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find: %w", err)
}

func (m *MongoDB) GetUser(token string) (*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	filter := bson.D{{"token", token}}
	var user entity.User
	err = collection.FindOne(m.ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *MongoDB) findUsers(filter bson.D) ([]*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(m.ctx)

	var users []*entity.User
	err = cursor.All(m.ctx, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetAllTelegramUsers returns every user linked to a telegram account regardless of role
func (m *MongoDB) GetAllTelegramUsers() ([]*entity.User, error) {
	return m.findUsers(bson.D{{"telegram_id", bson.D{{"$gt", 0}}}})
}

func (m *MongoDB) updateTelegramUser(telegramId int64, set bson.D) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionUsers)
	filter := bson.D{{"telegram_id", telegramId}}
	_, err = collection.UpdateOne(m.ctx, filter, bson.D{{"$set", set}})
	return err
}

func (m *MongoDB) SetTelegramEnabled(id int64, isActive bool, logLevel int) error {
	return m.updateTelegramUser(id, bson.D{
		{"telegram_enabled", isActive},
		{"log_level", logLevel},
	})
}

func (m *MongoDB) SetTelegramRole(telegramId int64, role entity.TelegramRole) error {
	set := bson.D{{"telegram_role", role}}
	if role == entity.RoleNone {
		set = append(set, bson.E{Key: "telegram_enabled", Value: false})
	}
	return m.updateTelegramUser(telegramId, set)
}

func (m *MongoDB) SetTelegramTopics(telegramId int64, topics []string) error {
	return m.updateTelegramUser(telegramId, bson.D{{"telegram_topics", topics}})
}

// RegisterTelegramUser creates a pending staff record; an existing record keeps its role
func (m *MongoDB) RegisterTelegramUser(telegramId int64, username string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	filter := bson.D{{"telegram_id", telegramId}}
	update := bson.D{
		{"$set", bson.D{{"telegram_username", username}}},
		{"$setOnInsert", bson.D{
			{"username", fmt.Sprintf("tg_%d", telegramId)},
			{"telegram_role", entity.RolePending},
			{"telegram_enabled", false},
			{"registered_at", time.Now()},
		}},
	}
	_, err = collection.UpdateOne(m.ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) SaveCheckoutRecord(record *entity.CheckoutRecord) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionCheckout)
	filter := bson.D{{"payment_intent_id", record.PaymentIntentId}}
	update := bson.D{{"$set", record}}
	opts := options.Update().SetUpsert(true)
	_, err = collection.UpdateOne(m.ctx, filter, update, opts)
	return err
}

// CheckoutRecordByIntent returns nil without error when nothing was saved for the intent
func (m *MongoDB) CheckoutRecordByIntent(intentId string) (*entity.CheckoutRecord, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionCheckout)
	filter := bson.D{{"payment_intent_id", intentId}}
	var record entity.CheckoutRecord
	err = collection.FindOne(m.ctx, filter).Decode(&record)
	if err != nil {
		return nil, m.findError(err)
	}
	return &record, nil
}

func (m *MongoDB) StripeEventProcessed(id string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionEvents)
	count, err := collection.CountDocuments(m.ctx, bson.D{{"id", id}})
	if err != nil {
		return false, fmt.Errorf("mongodb count: %w", err)
	}
	return count > 0, nil
}

// SaveStripeEvent records the event once; a second call with the same id
// returns entity.ErrAlreadyProcessed
func (m *MongoDB) SaveStripeEvent(event *entity.StripeEvent) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionEvents)
	filter := bson.D{{"id", event.Id}}
	update := bson.D{{"$setOnInsert", event}}
	result, err := collection.UpdateOne(m.ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	if result.UpsertedCount == 0 {
		return entity.ErrAlreadyProcessed
	}
	return nil
}

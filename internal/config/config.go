package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env-default:"8080"`
}

type RestaurantConfig struct {
	Id            int64   `yaml:"id" env-default:"1"`
	Name          string  `yaml:"name" env-default:"Joe's Pizza"`
	Address       string  `yaml:"address" env:"RESTAURANT_ADDRESS" env-default:""`
	Phone         string  `yaml:"phone" env:"RESTAURANT_PHONE" env-default:""`
	Country       string  `yaml:"country" env-default:"CA"`
	Currency      string  `yaml:"currency" env-default:"usd"`
	TaxRate       float64 `yaml:"tax_rate" env-default:"0.13"`
	StatementName string  `yaml:"statement_name" env-default:"JOES PIZZA"`
}

type DeliveryConfig struct {
	BaseFee       float64 `yaml:"base_fee" env-default:"5.0"`
	PerKm         float64 `yaml:"per_km" env-default:"1.0"`
	FreeKm        float64 `yaml:"free_km" env-default:"2"`
	MaxDistanceKm float64 `yaml:"max_distance_km" env-default:"100"`
	SpeedKmh      float64 `yaml:"speed_kmh" env-default:"40"`
	FallbackFee   int64   `yaml:"fallback_fee" env-default:"599"`
}

type StripeConfig struct {
	APIKey            string `yaml:"api_key" env:"STRIPE_SECRET_KEY" env-default:""`
	WebhookSecret     string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
	TestMode          bool   `yaml:"test_mode" env-default:"false"`
	TestKey           string `yaml:"test_key" env-default:""`
	TestWebhookSecret string `yaml:"test_webhook_secret" env-default:""`
}

type DoorDashConfig struct {
	Enabled       bool   `yaml:"enabled" env-default:"false"`
	BaseURL       string `yaml:"base_url" env-default:"https://openapi.doordash.com"`
	DeveloperId   string `yaml:"developer_id" env:"DOORDASH_DEVELOPER_ID" env-default:""`
	KeyId         string `yaml:"key_id" env:"DOORDASH_KEY_ID" env-default:""`
	SigningSecret string `yaml:"signing_secret" env:"DOORDASH_SIGNING_SECRET" env-default:""`
	BusinessId    string `yaml:"business_id" env-default:"default"`
}

type GoogleMapsConfig struct {
	APIKey  string `yaml:"api_key" env:"GOOGLE_MAPS_API_KEY" env-default:""`
	BaseURL string `yaml:"base_url" env-default:""`
}

type PostgresConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	URL      string `yaml:"url" env:"SUPABASE_DB_URL" env-default:""`
	MaxConns int32  `yaml:"max_conns" env-default:"10"`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:"admin"`
	Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
	Database string `yaml:"database" env-default:"storefront"`
}

type TelegramConfig struct {
	Enabled         bool   `yaml:"enabled" env-default:"false"`
	ApiKey          string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
	RequireApproval bool   `yaml:"require_approval" env-default:"true"`
	LogLevel        string `yaml:"log_level" env-default:"warn"`
}

type Config struct {
	Env        string           `yaml:"env" env-default:"local"`
	Log        string           `yaml:"log" env-default:"/var/log/storefront.log"`
	Listen     Listen           `yaml:"listen"`
	Restaurant RestaurantConfig `yaml:"restaurant"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	Stripe     StripeConfig     `yaml:"stripe"`
	DoorDash   DoorDashConfig   `yaml:"doordash"`
	GoogleMaps GoogleMapsConfig `yaml:"google_maps"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Telegram   TelegramConfig   `yaml:"telegram"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

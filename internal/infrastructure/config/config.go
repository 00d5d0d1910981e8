package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process configuration, read from the environment.
//
// Every credential defaults to empty; the wallet and regional gateways default to sandbox.
type Config struct {
	Port           string
	AppEnv         string
	LogLevel       string
	PublicBaseURL  string
	GatewayTimeout time.Duration
	MockGateways   bool

	RateLimit string
	RedisAddr string

	Store  StoreConfig
	Stripe StripeConfig
	PayPal PayPalConfig
	GoPay  GoPayConfig
}

type StoreConfig struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string

	DynamoTable    string
	AWSRegion      string
	DynamoEndpoint string
	AWSAccessKey   string
	AWSSecretKey   string
}

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
}

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Mode         string
	WebhookID    string
}

// Live reports whether the live PayPal environment is selected.
func (c PayPalConfig) Live() bool { return strings.EqualFold(c.Mode, "live") }

type GoPayConfig struct {
	GoID         string
	ClientID     string
	ClientSecret string
	Mode         string
}

// Live reports whether the production GoPay gateway is selected.
func (c GoPayConfig) Live() bool { return strings.EqualFold(c.Mode, "live") }

const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverDynamoDB = "dynamodb"
)

// Load reads the configuration from environment variables.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Config{
		Port:           v.GetString("PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		PublicBaseURL:  strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		GatewayTimeout: v.GetDuration("GATEWAY_TIMEOUT"),
		MockGateways:   isEnabled(v.GetString("PAYMENT_GATEWAY_MOCK")),
		RateLimit:      v.GetString("RATE_LIMIT"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		Store: StoreConfig{
			Driver:         strings.ToLower(v.GetString("STORE_DRIVER")),
			SQLitePath:     v.GetString("SQLITE_PATH"),
			DatabaseURL:    v.GetString("DATABASE_URL"),
			DynamoTable:    v.GetString("PAYMENTS_TABLE"),
			AWSRegion:      v.GetString("AWS_REGION"),
			DynamoEndpoint: v.GetString("DYNAMODB_ENDPOINT"),
			AWSAccessKey:   v.GetString("AWS_ACCESS_KEY_ID"),
			AWSSecretKey:   v.GetString("AWS_SECRET_ACCESS_KEY"),
		},
		Stripe: StripeConfig{
			SecretKey:      v.GetString("STRIPE_SECRET_KEY"),
			PublishableKey: v.GetString("STRIPE_PUBLISHABLE_KEY"),
			WebhookSecret:  v.GetString("STRIPE_WEBHOOK_SECRET"),
		},
		PayPal: PayPalConfig{
			ClientID:     v.GetString("PAYPAL_CLIENT_ID"),
			ClientSecret: v.GetString("PAYPAL_CLIENT_SECRET"),
			Mode:         v.GetString("PAYPAL_MODE"),
			WebhookID:    v.GetString("PAYPAL_WEBHOOK_ID"),
		},
		GoPay: GoPayConfig{
			GoID:         v.GetString("GOPAY_GOID"),
			ClientID:     v.GetString("GOPAY_CLIENT_ID"),
			ClientSecret: v.GetString("GOPAY_CLIENT_SECRET"),
			Mode:         v.GetString("GOPAY_MODE"),
		},
	}
}

// IsDevelopment reports whether human-friendly logging and gin debug mode should be used.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "" || c.AppEnv == "development" || c.AppEnv == "local"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("GATEWAY_TIMEOUT", "15s")
	v.SetDefault("RATE_LIMIT", "300-M")

	v.SetDefault("STORE_DRIVER", StoreDriverSQLite)
	v.SetDefault("SQLITE_PATH", "payments.db")
	v.SetDefault("PAYMENTS_TABLE", "payments")
	v.SetDefault("AWS_REGION", "us-east-1")
	// Local DynamoDB does not validate credentials, but the AWS SDK requires them.
	v.SetDefault("AWS_ACCESS_KEY_ID", "local")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "local")

	v.SetDefault("PAYPAL_MODE", "sandbox")
	v.SetDefault("GOPAY_MODE", "sandbox")
}

func isEnabled(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

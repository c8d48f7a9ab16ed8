package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timezone, timeouts, slot defaults)
// - Optional integrations (Stripe, regional gateway, SMTP) are disabled when their secret is empty
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	Auth     AuthConfig
	Booking  BookingConfig
	Timeouts TimeoutConfig
	Stripe   StripeConfig
	Regional RegionalConfig
	Mail     MailConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" required:"true"`
	Password    string `envconfig:"DB_PASSWORD" required:"true"`
	DBName      string `envconfig:"DB_NAME" required:"true"`
	SSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone    string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns    int32  `envconfig:"DB_MIN_CONNS" default:"2"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	// Serialization failures and deadlocks are retried with exponential backoff.
	TxMaxRetries   int           `envconfig:"DB_TX_MAX_RETRIES" default:"3"`
	TxRetryBackoff time.Duration `envconfig:"DB_TX_RETRY_BACKOFF" default:"100ms"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"25200"` // 7*60*60
}

// AuthConfig describes how identity-provider tokens are verified.
type AuthConfig struct {
	Secret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"AUTH_JWT_ISSUER" default:""`
}

type BookingConfig struct {
	TimeZone           string `envconfig:"BOOKING_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
	Currency           string `envconfig:"BOOKING_CURRENCY" default:"vnd"`
	DefaultOpen        string `envconfig:"BOOKING_DEFAULT_OPEN" default:"06:00"`
	DefaultClose       string `envconfig:"BOOKING_DEFAULT_CLOSE" default:"22:00"`
	DefaultSlotMinutes int    `envconfig:"BOOKING_DEFAULT_SLOT_MINUTES" default:"60"`
	MaxPlayers         int    `envconfig:"BOOKING_MAX_PLAYERS" default:"8"`
}

type TimeoutConfig struct {
	DB       time.Duration `envconfig:"TIMEOUT_DB" default:"5s"`
	Gateway  time.Duration `envconfig:"TIMEOUT_GATEWAY" default:"10s"`
	Callback time.Duration `envconfig:"TIMEOUT_CALLBACK" default:"15s"`
	Mail     time.Duration `envconfig:"TIMEOUT_MAIL" default:"20s"`
}

type StripeConfig struct {
	SecretKey     string `envconfig:"STRIPE_SECRET_KEY" default:""`
	WebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" default:""`
	SuccessURL    string `envconfig:"STRIPE_SUCCESS_URL" default:"http://localhost:3000/checkout/success"`
	CancelURL     string `envconfig:"STRIPE_CANCEL_URL" default:"http://localhost:3000/checkout/cancel"`
}

type RegionalConfig struct {
	CheckoutURL   string `envconfig:"REGIONAL_CHECKOUT_URL" default:"https://sandbox.regional-pay.example/checkout"`
	MerchantCode  string `envconfig:"REGIONAL_MERCHANT_CODE" default:""`
	SecretKey     string `envconfig:"REGIONAL_SECRET_KEY" default:""`
	HashAlgorithm string `envconfig:"REGIONAL_HASH_ALGORITHM" default:"sha512"`
	ReturnURL     string `envconfig:"REGIONAL_RETURN_URL" default:"http://localhost:8080/api/payments/regional/callback"`
	Locale        string `envconfig:"REGIONAL_LOCALE" default:"vn"`
}

type MailConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:""`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME" default:""`
	Password string `envconfig:"SMTP_PASSWORD" default:""`
	From     string `envconfig:"MAIL_FROM" default:"no-reply@court-booking.local"`
	FromName string `envconfig:"MAIL_FROM_NAME" default:"Court Booking"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// Location falls back to UTC when the configured zone is unknown to the host.
func (c BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c StripeConfig) Enabled() bool {
	return c.SecretKey != "" && c.WebhookSecret != ""
}

func (c RegionalConfig) Enabled() bool {
	return c.SecretKey != "" && c.MerchantCode != ""
}

func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8889", // Test port
			ShutdownTimeout: time.Second,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
			MinConns: 1,

			TxMaxRetries:   3,
			TxRetryBackoff: 10 * time.Millisecond,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		Auth: AuthConfig{
			Secret: "test-identity-secret",
			Issuer: "court-booking-test",
		},
		Booking: BookingConfig{
			TimeZone:           "UTC",
			Currency:           "vnd",
			DefaultOpen:        "06:00",
			DefaultClose:       "22:00",
			DefaultSlotMinutes: 60,
			MaxPlayers:         8,
		},
		Timeouts: TimeoutConfig{
			DB:       2 * time.Second,
			Gateway:  2 * time.Second,
			Callback: 3 * time.Second,
			Mail:     time.Second,
		},
		Stripe: StripeConfig{
			SecretKey:     "sk_test_court_booking",
			WebhookSecret: "whsec_court_booking",
			SuccessURL:    "http://localhost:3000/checkout/success",
			CancelURL:     "http://localhost:3000/checkout/cancel",
		},
		Regional: RegionalConfig{
			CheckoutURL:   "https://sandbox.regional-pay.example/checkout",
			MerchantCode:  "COURTTEST",
			SecretKey:     "regional-test-secret",
			HashAlgorithm: "sha512",
			ReturnURL:     "http://localhost:8889/api/payments/regional/callback",
			Locale:        "vn",
		},
	}
}

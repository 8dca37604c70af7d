package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	RazorpayKeyID     string `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `mapstructure:"RAZORPAY_KEY_SECRET"`

	// ShippingCost is a flat per-order charge in whole currency units,
	// applied only to non-empty carts. Zero means free shipping.
	ShippingCost int64  `mapstructure:"SHIPPING_COST"`
	Currency     string `mapstructure:"CURRENCY"`

	ClientURL string `mapstructure:"CLIENT_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	AMQPUrl          string `mapstructure:"AMQP_URL"`
	OrderEventsQueue string `mapstructure:"ORDER_EVENTS_QUEUE"`

	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPPort   string `mapstructure:"SMTP_PORT"`
	SMTPUser   string `mapstructure:"SMTP_USER"`
	SMTPPass   string `mapstructure:"SMTP_PASS"`
	MailSender string `mapstructure:"MAIL_SENDER"`

	// ReconcileInterval is how often the reconciliation pass runs;
	// ReconcileGrace is how old a still-"captured" payment must be before it
	// is flagged for manual follow-up.
	ReconcileInterval time.Duration `mapstructure:"RECONCILE_INTERVAL"`
	ReconcileGrace    time.Duration `mapstructure:"RECONCILE_GRACE"`
}

// LoadConfig loads configuration from environment variables using Viper.
// Outside release mode a local .env file is loaded first, if present.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if strings.ToLower(viper.GetString("GIN_MODE")) != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("config: no .env file loaded:", err)
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("SHIPPING_COST", 0)
	viper.SetDefault("CURRENCY", "INR")
	viper.SetDefault("ORDER_EVENTS_QUEUE", "order.events")
	viper.SetDefault("RECONCILE_INTERVAL", "10m")
	viper.SetDefault("RECONCILE_GRACE", "30m")

	for _, key := range []string{
		"PORT", "GIN_MODE",
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
		"RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET",
		"SHIPPING_COST", "CURRENCY", "CLIENT_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"AMQP_URL", "ORDER_EVENTS_QUEUE",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "MAIL_SENDER",
		"RECONCILE_INTERVAL", "RECONCILE_GRACE",
	} {
		viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}
	if cfg.ShippingCost < 0 {
		return nil, errors.New("SHIPPING_COST must not be negative")
	}

	return &cfg, nil
}

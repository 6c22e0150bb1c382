package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Transports
const (
	TransportTelegram = "telegram"
	TransportWhatsApp = "whatsapp"
)

// Store drivers
const (
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreDynamoDB = "dynamodb"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config holds everything read from the environment at startup
type Config struct {
	Environment string
	Port        string
	LogLevel    string

	Transport string
	BotToken  string

	TwilioAccountSID         string
	TwilioAuthToken          string
	TwilioWhatsAppFrom       string
	DisableWebhookValidation bool

	StoreDriver string

	// Google Sheets
	GoogleCredentialsFile string
	SpreadsheetID         string
	SheetName             string

	// Postgres / sqlite
	DBUser                 string
	DBPass                 string
	DBName                 string
	DBHost                 string
	DBPort                 string
	InstanceConnectionName string
	SQLitePath             string

	// DynamoDB
	OrdersTable string
	AWSRegion   string

	// Redis
	RedisAddr string
	RedisKey  string

	OrderTimezone         string
	SinkTimeout           time.Duration
	AdminUserIDs          []string
	AdminAPIToken         string
	MaxInFlight           int
	SessionReportInterval time.Duration
	SessionIdleAfter      time.Duration
}

// LoadDotEnv loads .env files for local development. Production (Cloud Run) relies on real env vars.
func LoadDotEnv() {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("environments/.env.development"); err != nil {
			log.Debug().Msg("⚠️  No .env file found - checking environment variables")
		}
	}
}

// Load reads the configuration from the environment without validating it
func Load() (*Config, error) {
	sinkTimeout, err := durationEnv("SINK_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	reportInterval, err := durationEnv("SESSION_REPORT_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	idleAfter, err := durationEnv("SESSION_IDLE_AFTER", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	maxInFlight, err := intEnv("MAX_IN_FLIGHT", 64)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "production"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Transport: strings.ToLower(getEnv("TRANSPORT", TransportTelegram)),
		BotToken:  os.Getenv("BOT_TOKEN"),

		TwilioAccountSID:         os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:          os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom:       os.Getenv("TWILIO_WHATSAPP_FROM"),
		DisableWebhookValidation: os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true",

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreSheets)),

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		SpreadsheetID:         os.Getenv("SPREADSHEET_ID"),
		SheetName:             getEnv("SHEET_NAME", "Sheet1"),

		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPass:                 os.Getenv("DB_PASS"),
		DBName:                 getEnv("DB_NAME", "durian_orders"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		SQLitePath:             getEnv("SQLITE_PATH", "durian_orders.db"),

		OrdersTable: os.Getenv("ORDERS_TABLE"),
		AWSRegion:   getEnv("AWS_REGION", "us-east-1"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisKey:  getEnv("REDIS_KEY", "durian:orders"),

		OrderTimezone:         getEnv("ORDER_TIMEZONE", "Asia/Singapore"),
		SinkTimeout:           sinkTimeout,
		AdminUserIDs:          splitList(os.Getenv("ADMIN_USER_IDS")),
		AdminAPIToken:         os.Getenv("ADMIN_API_TOKEN"),
		MaxInFlight:           maxInFlight,
		SessionReportInterval: reportInterval,
		SessionIdleAfter:      idleAfter,
	}
	return cfg, nil
}

// Validate checks the settings the serve command cannot start without
func (c *Config) Validate() error {
	var missing []string

	switch c.Transport {
	case TransportTelegram:
		if c.BotToken == "" {
			missing = append(missing, "BOT_TOKEN")
		}
	case TransportWhatsApp:
		if c.TwilioAccountSID == "" {
			missing = append(missing, "TWILIO_ACCOUNT_SID")
		}
		if c.TwilioAuthToken == "" {
			missing = append(missing, "TWILIO_AUTH_TOKEN")
		}
		if c.TwilioWhatsAppFrom == "" {
			missing = append(missing, "TWILIO_WHATSAPP_FROM")
		}
	default:
		return errors.Errorf("unknown TRANSPORT %q", c.Transport)
	}

	if err := c.ValidateStore(); err != nil {
		var me *MissingError
		if !errors.As(err, &me) {
			return err
		}
		missing = append(missing, me.Keys...)
	}

	if c.MaxInFlight <= 0 {
		return errors.Errorf("MAX_IN_FLIGHT must be positive, got %d", c.MaxInFlight)
	}

	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

// ValidateStore checks only the store credentials (used by read-only commands)
func (c *Config) ValidateStore() error {
	var missing []string
	switch c.StoreDriver {
	case StoreSheets:
		if c.SpreadsheetID == "" {
			missing = append(missing, "SPREADSHEET_ID")
		}
		if _, err := os.Stat(c.GoogleCredentialsFile); err != nil {
			missing = append(missing, "GOOGLE_CREDENTIALS_FILE")
		}
	case StorePostgres:
		if c.DBPass == "" {
			missing = append(missing, "DB_PASS")
		}
	case StoreDynamoDB:
		if c.OrdersTable == "" {
			missing = append(missing, "ORDERS_TABLE")
		}
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return errors.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

// IsDevelopment reports whether the process runs locally
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsAdmin reports whether userID may run admin commands. An empty allowlist admits everyone.
func (c *Config) IsAdmin(userID string) bool {
	if len(c.AdminUserIDs) == 0 {
		return true
	}
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// MissingError lists required environment variables that were not set
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

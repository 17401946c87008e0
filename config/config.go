package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDraftDB  int    `mapstructure:"REDIS_DRAFT_DB"`

	// Draft persistence: "redis" or "memory".
	DraftBackend    string `mapstructure:"DRAFT_BACKEND"`
	DraftTTLMinutes int    `mapstructure:"DRAFT_TTL_MINUTES"`

	// Saubio API.
	SaubioAPIURL            string `mapstructure:"SAUBIO_API_URL"`
	SaubioAPITimeoutSeconds int    `mapstructure:"SAUBIO_API_TIMEOUT_SECONDS"`
	SaubioEventsURL         string `mapstructure:"SAUBIO_EVENTS_URL"`

	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Planner.
	LookupDebounceMs int    `mapstructure:"LOOKUP_DEBOUNCE_MS"`
	PlatformFeeCents int64  `mapstructure:"PLATFORM_FEE_CENTS"`
	Currency         string `mapstructure:"CURRENCY"`
	Timezone         string `mapstructure:"TIMEZONE"`
	FrontendBasePath string `mapstructure:"FRONTEND_BASE_PATH"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DRAFT_DB", 3)
	v.SetDefault("DRAFT_BACKEND", "redis")
	v.SetDefault("DRAFT_TTL_MINUTES", 720)
	v.SetDefault("SAUBIO_API_URL", "http://localhost:4000/api")
	v.SetDefault("SAUBIO_API_TIMEOUT_SECONDS", 10)
	v.SetDefault("SAUBIO_EVENTS_URL", "")
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("LOOKUP_DEBOUNCE_MS", 250)
	v.SetDefault("PLATFORM_FEE_CENTS", 490)
	v.SetDefault("CURRENCY", "EUR")
	v.SetDefault("TIMEZONE", "Europe/Berlin")
	v.SetDefault("FRONTEND_BASE_PATH", "")
}

func LoadConfig() {
	// A local .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.GetViper()
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	cfg, err := load(v)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.DraftBackend = strings.ToLower(strings.TrimSpace(cfg.DraftBackend))
	return cfg, nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) DraftTTL() time.Duration {
	return time.Duration(c.DraftTTLMinutes) * time.Minute
}

func (c Config) APITimeout() time.Duration {
	return time.Duration(c.SaubioAPITimeoutSeconds) * time.Second
}

func (c Config) LookupDebounce() time.Duration {
	return time.Duration(c.LookupDebounceMs) * time.Millisecond
}

// Location resolves TIMEZONE, falling back to UTC when the zone database lacks it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the full application configuration, resolved once at startup.
type Config struct {
	Env string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	// RedisURL is optional. When empty, failed media releases are only logged.
	RedisURL string

	Token   TokenConfig
	Storage StorageConfig
	Log     LogConfig
}

// TokenConfig is handed to the token service at construction.
type TokenConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration

	// SecureCookies marks auth cookies Secure; on in production.
	SecureCookies bool
}

// StorageConfig selects and configures the object storage backend.
type StorageConfig struct {
	Provider  string // "s3" (S3, R2) or "minio"
	Bucket    string
	PublicURL string

	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
}

// LogConfig configures logrus.
type LogConfig struct {
	Level string
	JSON  bool
}

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	StorageS3    = "s3"
	StorageMinio = "minio"
)

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("[Config] No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	accessExpiry, err := ParseExpiry(v.GetString("ACCESS_TOKEN_EXPIRY"))
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRY: %w", err)
	}
	refreshExpiry, err := ParseExpiry(v.GetString("REFRESH_TOKEN_EXPIRY"))
	if err != nil {
		return nil, fmt.Errorf("REFRESH_TOKEN_EXPIRY: %w", err)
	}

	env := strings.ToLower(v.GetString("APP_ENV"))

	cfg := &Config{
		Env: env,

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		ServerPort: v.GetString("SERVER_PORT"),
		RedisURL:   v.GetString("REDIS_URL"),

		Token: TokenConfig{
			AccessTokenSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenSecret: v.GetString("REFRESH_TOKEN_SECRET"),
			RefreshTokenExpiry: refreshExpiry,
			SecureCookies:      env == EnvProduction,
		},

		Storage: StorageConfig{
			Provider:  strings.ToLower(v.GetString("STORAGE_PROVIDER")),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			PublicURL: strings.TrimSuffix(v.GetString("STORAGE_PUBLIC_URL"), "/"),

			S3Endpoint:        v.GetString("S3_ENDPOINT"),
			S3Region:          v.GetString("S3_REGION"),
			S3AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			S3SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),

			MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
			MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
			MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
			MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		},

		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			JSON:  strings.EqualFold(v.GetString("LOG_FORMAT"), "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("ACCESS_TOKEN_EXPIRY", "1d")
	v.SetDefault("REFRESH_TOKEN_EXPIRY", "7d")
	v.SetDefault("STORAGE_PROVIDER", StorageS3)
	v.SetDefault("S3_REGION", "auto")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

func (c *Config) validate() error {
	if c.Token.AccessTokenSecret == "" || c.Token.RefreshTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if c.Token.AccessTokenSecret == c.Token.RefreshTokenSecret {
		return fmt.Errorf("access and refresh token secrets must differ")
	}
	switch c.Storage.Provider {
	case StorageS3, StorageMinio:
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.Storage.Provider)
	}
	return nil
}

// ParseExpiry accepts Go durations ("15m", "24h") and whole days ("1d", "7d").
func ParseExpiry(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty expiry")
	}

	var d time.Duration
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid expiry %q", raw)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid expiry %q", raw)
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive, got %q", raw)
	}
	return d, nil
}

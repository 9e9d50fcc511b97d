package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"

	StorageSupabase = "supabase"
	StorageLocal    = "local"
)

type Config struct {
	Port string

	DBDriver        string
	MongoConnString string
	MongoDatabase   string
	RunMigrations   bool
	SigningKey      string
	SessionTTL      time.Duration
	AdminEmail      string
	AdminPassword   string
	StorageDriver   string
	SupabaseURL     string
	SupabaseKey     string
	BucketName      string
	UploadDir       string
	PublicBaseURL   string
	PublicDir       string
	DefaultLocale   string
}

// GetSecret returns the value of a required environment variable.
func GetSecret(key string) (string, error) {
	val, exist := os.LookupEnv(key)
	if exist {
		return val, nil
	}
	return "", fmt.Errorf("no env variable with key %v", key)
}

func getenv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// Load reads the configuration from the environment (and an optional .env file) and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:            getenv("APP_PORT", "80"),
		DBDriver:        getenv("DB_DRIVER", DriverMongo),
		MongoConnString: os.Getenv("MONGODB_CONNSTRING"),
		MongoDatabase:   getenv("MONGODB_DATABASE", "events-site"),
		AdminEmail:      strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		StorageDriver:   getenv("STORAGE_DRIVER", StorageLocal),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseKey:     os.Getenv("SUPABASE_KEY"),
		BucketName:      os.Getenv("BUCKET_NAME"),
		UploadDir:       getenv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:   strings.TrimSuffix(os.Getenv("PUBLIC_BASE_URL"), "/"),
		PublicDir:       getenv("PUBLIC_DIR", "./public"),
		DefaultLocale:   getenv("DEFAULT_LOCALE", "en"),
	}

	signingKey, err := GetSecret("SIGN")
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.SigningKey = signingKey

	ttl, err := time.ParseDuration(getenv("SESSION_TTL", "8h"))
	if err != nil {
		return nil, fmt.Errorf("config: SESSION_TTL invalid: %w", err)
	}
	cfg.SessionTTL = ttl

	runMigrations, err := strconv.ParseBool(getenv("RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("config: RUN_MIGRATIONS invalid: %w", err)
	}
	cfg.RunMigrations = runMigrations

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.SigningKey) == "" {
		return fmt.Errorf("config: SIGN is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}

	switch c.DBDriver {
	case DriverMongo:
		if c.MongoConnString == "" {
			return fmt.Errorf("config: MONGODB_CONNSTRING is required for the mongo driver")
		}
		parsed, err := url.Parse(c.MongoConnString)
		if err != nil {
			return fmt.Errorf("config: MONGODB_CONNSTRING invalid: %w", err)
		}
		if parsed.Scheme != "mongodb" && parsed.Scheme != "mongodb+srv" {
			return fmt.Errorf("config: MONGODB_CONNSTRING must use the mongodb scheme, got %q", parsed.Scheme)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}

	switch c.StorageDriver {
	case StorageSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" || c.BucketName == "" {
			return fmt.Errorf("config: SUPABASE_URL, SUPABASE_KEY and BUCKET_NAME are required for the supabase storage driver")
		}
	case StorageLocal:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("config: ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// MigrationURL is the database URL golang-migrate expects for the configured mongo database.
func (c *Config) MigrationURL() (string, error) {
	parsed, err := url.Parse(c.MongoConnString)
	if err != nil {
		return "", err
	}
	parsed.Path = "/" + c.MongoDatabase
	return parsed.String(), nil
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Supported document store backends.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendMinIO     = "minio"
	BackendRedis     = "redis"
	BackendMemory    = "memory"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `validate:"required"`
	Port               string `validate:"required"`
	User               string `validate:"required"`
	Password           string
	Name               string `validate:"required"`
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// FirestoreConfig holds Google Cloud Firestore settings.
// When FIRESTORE_EMULATOR_HOST is set the SDK talks to the emulator and credentials are ignored.
type FirestoreConfig struct {
	ProjectID       string `validate:"required"`
	Database        string
	CredentialsFile string
}

// SQLiteConfig holds the SQLite database file location.
type SQLiteConfig struct {
	Path string `validate:"required"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `validate:"required"`
	AccessKey string `validate:"required"`
	SecretKey string `validate:"required"`
	Bucket    string `validate:"required"`
	UseSSL    bool
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `validate:"required"`
	Password string
	DB       int `validate:"gte=0"`
}

// StoreConfig selects the document store backend and the collection the repository works on.
type StoreConfig struct {
	Backend         string `validate:"oneof=firestore postgres sqlite minio redis memory"`
	Collection      string `validate:"required"`
	ListErrorPolicy string `validate:"oneof=mask propagate"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Log       LogConfig
	Store     StoreConfig
	Firestore FirestoreConfig
	Database  DatabaseConfig
	SQLite    SQLiteConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Log: LogConfig{
			Level:  getEnv("LOGGING_LEVEL", "INFO"),
			Format: getEnv("LOGGING_FORMAT", "JSON"),
		},
		Store: StoreConfig{
			Backend:         getEnv("STORE_BACKEND", BackendFirestore),
			Collection:      getEnv("TODO_COLLECTION", "todos"),
			ListErrorPolicy: getEnv("TODO_LIST_ERROR_POLICY", "mask"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
			Database:        getEnv("FIRESTORE_DATABASE", "(default)"),
			CredentialsFile: getEnv("FIRESTORE_CREDENTIALS_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "./data/todos.db"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}
}

// Validate checks the store selection and the settings of the selected backend only.
func (c *AppConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c.Store); err != nil {
		return fmt.Errorf("invalid store config: %w", err)
	}

	var backendCfg any
	switch c.Store.Backend {
	case BackendFirestore:
		backendCfg = c.Firestore
	case BackendPostgres:
		backendCfg = c.Database
	case BackendSQLite:
		backendCfg = c.SQLite
	case BackendMinIO:
		backendCfg = c.MinIO
	case BackendRedis:
		backendCfg = c.Redis
	default:
		return nil
	}
	if err := v.Struct(backendCfg); err != nil {
		return fmt.Errorf("invalid %s config: %w", c.Store.Backend, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

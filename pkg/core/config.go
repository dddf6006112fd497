package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config contains the complete configuration for a memorybase client.
//
// It covers the long-term object storage backend (in-memory, S3-compatible,
// BOS, or OSS) and the optional relational session store.
//
// Example:
//
//	config := &core.Config{
//	    LongTerm: core.LongTermConfig{
//	        S3: core.S3Settings{
//	            Endpoint:        "http://localhost:9000",
//	            Bucket:          "memorybase",
//	            AccessKeyID:     "minioadmin",
//	            SecretAccessKey: "minioadmin",
//	        },
//	    },
//	}
type Config struct {
	// LongTerm contains the long-term object storage configuration.
	LongTerm LongTermConfig `json:"long_term"`

	// Database contains the relational session store configuration.
	Database DatabaseConfig `json:"database"`

	// Logger receives diagnostics (backend selection, decode skips).
	// Nil means no logging.
	Logger *zap.Logger `json:"-"`
}

// LongTermConfig holds the settings for each long-term backend family.
//
// The backend factory walks the families in a fixed order (S3, BOS, OSS)
// and instantiates the first fully configured one; when none is configured
// the in-memory backend is used. See CreateLongTermBackend for the exact
// selection policy.
type LongTermConfig struct {
	// S3 configures the S3-compatible family (AWS S3, MinIO).
	S3 S3Settings `json:"s3"`

	// BOS configures the Baidu BOS family.
	BOS BOSSettings `json:"bos"`

	// OSS configures the Alibaba OSS family.
	OSS OSSSettings `json:"oss"`
}

// S3Settings contains the configuration keys of the S3-compatible family.
// An empty Endpoint targets AWS S3 in Region; a custom Endpoint targets
// MinIO or another S3-protocol service.
type S3Settings struct {
	Endpoint        string `json:"endpoint,omitempty"`
	Region          string `json:"region,omitempty"`
	Bucket          string `json:"bucket,omitempty"`
	AccessKeyID     string `json:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty"`
}

// BOSSettings contains the configuration keys of the Baidu BOS family.
type BOSSettings struct {
	Endpoint  string `json:"endpoint,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
}

// OSSSettings contains the configuration keys of the Alibaba OSS family.
type OSSSettings struct {
	Endpoint        string `json:"endpoint,omitempty"`
	Bucket          string `json:"bucket,omitempty"`
	AccessKeyID     string `json:"access_key_id,omitempty"`
	AccessKeySecret string `json:"access_key_secret,omitempty"`
}

// DatabaseConfig contains configuration for the relational session store.
//
// Supported providers: sqlite, postgres. An empty provider disables the
// session store.
type DatabaseConfig struct {
	// Provider is the session store provider name (sqlite, postgres).
	Provider string `json:"provider,omitempty"`

	// SQLitePath is the database file path for the sqlite provider.
	SQLitePath string `json:"sqlite_path,omitempty"`

	// Postgres contains connection settings for the postgres provider.
	Postgres PostgresSettings `json:"postgres"`
}

// PostgresSettings contains PostgreSQL connection settings.
type PostgresSettings struct {
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	DBName   string `json:"db_name,omitempty"`
	SSLMode  string `json:"ssl_mode,omitempty"`
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - S3_ENDPOINT, S3_BUCKET, AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
//   - BOS_ENDPOINT, BOS_BUCKET, BOS_ACCESS_KEY, BOS_SECRET_KEY
//   - OSS_ENDPOINT, OSS_BUCKET, OSS_ACCESS_KEY_ID, OSS_ACCESS_KEY_SECRET
//   - DATABASE_PROVIDER (sqlite, postgres), SQLITE_PATH
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
//     POSTGRES_DATABASE, POSTGRES_SSLMODE
//
// When no long-term variables are set, the resulting config selects the
// in-memory backend.
func LoadConfigFromEnv() (*Config, error) {
	if envPath, found := FindEnvFile(); found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	config := &Config{
		LongTerm: LongTermConfig{
			S3: S3Settings{
				Endpoint:        os.Getenv("S3_ENDPOINT"),
				Region:          os.Getenv("AWS_REGION"),
				Bucket:          os.Getenv("S3_BUCKET"),
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			},
			BOS: BOSSettings{
				Endpoint:  os.Getenv("BOS_ENDPOINT"),
				Bucket:    os.Getenv("BOS_BUCKET"),
				AccessKey: os.Getenv("BOS_ACCESS_KEY"),
				SecretKey: os.Getenv("BOS_SECRET_KEY"),
			},
			OSS: OSSSettings{
				Endpoint:        os.Getenv("OSS_ENDPOINT"),
				Bucket:          os.Getenv("OSS_BUCKET"),
				AccessKeyID:     os.Getenv("OSS_ACCESS_KEY_ID"),
				AccessKeySecret: os.Getenv("OSS_ACCESS_KEY_SECRET"),
			},
		},
	}

	provider := os.Getenv("DATABASE_PROVIDER")
	switch provider {
	case "sqlite":
		config.Database = DatabaseConfig{
			Provider:   "sqlite",
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "./memorybase.db"),
		}
	case "postgres":
		port, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5432"))
		config.Database = DatabaseConfig{
			Provider: "postgres",
			Postgres: PostgresSettings{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     port,
				User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: os.Getenv("POSTGRES_PASSWORD"),
				DBName:   getEnvOrDefault("POSTGRES_DATABASE", "memorybase"),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
			},
		}
	}

	return config, nil
}

// LoadConfigFromJSON loads configuration from a JSON file.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewMemoryError("LoadConfigFromJSON", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, NewMemoryError("LoadConfigFromJSON", err)
	}
	return &config, nil
}

// Validate validates the configuration.
//
// The long-term backend families are validated by CreateLongTermBackend;
// here only the session store provider is checked.
func (c *Config) Validate() error {
	switch c.Database.Provider {
	case "", "sqlite", "postgres":
		return nil
	default:
		return NewMemoryError("Validate",
			fmt.Errorf("unknown database provider %q: %w", c.Database.Provider, ErrInvalidConfig))
	}
}

// getEnvOrDefault gets an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FindEnvFile searches for .env or .env.example files.
//
// The search checks the current directory first, then walks up to 5
// directory levels, returning the first file found.
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/DukeRupert/folio/internal/templ/components/pagination"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Public base URL of the site, without a trailing slash
	BaseURL string

	// Site identity shown in the layout
	SiteTitle  string
	SiteAuthor string

	// Content directory (posts/, pages/, projects.yaml, images/)
	ContentDir string
	ShowDrafts bool

	// Blog listing
	PostsPerPage        int
	PaginationMaxLength int // pages shown in the pagination bar, including ellipses

	// Images published in parallel at startup and on reload
	MediaConcurrency int

	// Storage Configuration
	StorageProvider string // "local" or "r2"

	// Local Storage (development)
	LocalStoragePath string // Base directory for published media
	LocalStorageURL  string // Base URL for accessing local files

	// R2 Storage (production)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string // Optional custom domain URL

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string

	ShutdownTimeout time.Duration
}

// IsDevelopment reports whether the server runs in development mode, where
// templates are reloaded from disk and drafts are shown by default.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Env:      env,
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),
		SiteTitle:  getEnv("SITE_TITLE", "Folio"),
		SiteAuthor: getEnv("SITE_AUTHOR", ""),

		ContentDir: getEnv("CONTENT_DIR", "./content"),
		ShowDrafts: getEnvBool("SHOW_DRAFTS", env == "development"),

		PostsPerPage:        getEnvInt("POSTS_PER_PAGE", 6),
		PaginationMaxLength: getEnvInt("PAGINATION_MAX_LENGTH", pagination.DefaultMaxLength),

		MediaConcurrency: getEnvInt("MEDIA_CONCURRENCY", 4),

		// Storage defaults to local filesystem for development
		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./storage"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "/files"),

		// R2 configuration (production only)
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", cfg.Port)
	}
	if cfg.ContentDir == "" {
		return fmt.Errorf("CONTENT_DIR is required")
	}
	if cfg.PostsPerPage < 1 {
		return fmt.Errorf("POSTS_PER_PAGE must be at least 1, got: %d", cfg.PostsPerPage)
	}
	if cfg.PaginationMaxLength < pagination.MinWindowLength || cfg.PaginationMaxLength > pagination.MaxWindowLength {
		return fmt.Errorf("PAGINATION_MAX_LENGTH must be between %d and %d, got: %d",
			pagination.MinWindowLength, pagination.MaxWindowLength, cfg.PaginationMaxLength)
	}
	if cfg.MediaConcurrency < 1 {
		return fmt.Errorf("MEDIA_CONCURRENCY must be at least 1, got: %d", cfg.MediaConcurrency)
	}

	// Validate storage configuration
	if cfg.StorageProvider == "r2" {
		if cfg.R2AccountID == "" {
			return fmt.Errorf("R2_ACCOUNT_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2AccessKeyID == "" {
			return fmt.Errorf("R2_ACCESS_KEY_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2SecretAccessKey == "" {
			return fmt.Errorf("R2_SECRET_ACCESS_KEY is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2BucketName == "" {
			return fmt.Errorf("R2_BUCKET_NAME is required when STORAGE_PROVIDER is 'r2'")
		}
		// Pages link images permanently, so presigned URLs will not do
		if cfg.R2PublicURL == "" {
			return fmt.Errorf("R2_PUBLIC_URL is required when STORAGE_PROVIDER is 'r2'")
		}
	} else if cfg.StorageProvider != "local" {
		return fmt.Errorf("STORAGE_PROVIDER must be either 'local' or 'r2', got: %s", cfg.StorageProvider)
	}

	if (cfg.MetricsUsername == "") != (cfg.MetricsPassword == "") {
		return fmt.Errorf("METRICS_USERNAME and METRICS_PASSWORD must be set together")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

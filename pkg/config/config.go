package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Catalog (Product Vault / Onboarding workbooks)
	Catalog CatalogConfig

	// Advisory engine defaults
	Advisory AdvisoryConfig

	// Database (optional, recommendation history)
	Database DatabaseConfig

	// Redis (optional, shared catalog cache)
	Redis RedisConfig

	// API
	RateLimit      RateLimitConfig
	AllowedOrigins []string // CORS + websocket origin (비어있으면 전체 허용)

	// Logging
	LogLevel  string
	LogFormat string
}

// CatalogConfig holds spreadsheet source configuration
type CatalogConfig struct {
	ProductVaultPath string        // product_vault.xlsx 또는 CSV 디렉토리
	ProductVaultURL  string        // 원격 워크북 (설정 시 로컬 경로보다 우선)
	ProductVaultS3   S3Config      // S3/R2 워크북 (설정 시 URL/경로보다 우선)
	OnboardingPath   string        // Onboarding data.xlsx
	RefreshSchedule  string        // cron (seconds 포함)
	CacheTTL         time.Duration // Redis 캐시 TTL
}

// S3Config locates a workbook in an S3-compatible bucket
type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string // R2 등 S3 호환 엔드포인트 (비어있으면 AWS)
	AccessKeyID     string // 비어있으면 기본 credential chain
	SecretAccessKey string
}

// Enabled reports whether an S3 workbook is configured
func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.Key != ""
}

// AdvisoryConfig holds allocation/projection defaults
type AdvisoryConfig struct {
	ProfilesPath       string // 비어있으면 내장 프로파일 사용
	ProjectionYears    int
	MaxProjectionYears int  // 요청 가능한 최대 투자 기간
	StrictBudget       bool // true: 카테고리 예산 초과 시 에러, false: 경고만
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL        string
	SQLitePath string // DATABASE_URL 이 없을 때 로컬 SQLite 파일 (비어있으면 저장 안 함)

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// RateLimitConfig holds per-client API rate limits
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Catalog: CatalogConfig{
			ProductVaultPath: getEnv("PRODUCT_VAULT_PATH", "product_vault.xlsx"),
			ProductVaultURL:  getEnv("PRODUCT_VAULT_URL", ""),
			ProductVaultS3: S3Config{
				Bucket:          getEnv("PRODUCT_VAULT_S3_BUCKET", ""),
				Key:             getEnv("PRODUCT_VAULT_S3_KEY", "product_vault.xlsx"),
				Region:          getEnv("S3_REGION", "us-east-1"),
				Endpoint:        getEnv("S3_ENDPOINT", ""),
				AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			},
			OnboardingPath:   getEnv("ONBOARDING_PATH", "Onboarding data.xlsx"),
			RefreshSchedule:  getEnv("CATALOG_REFRESH_SCHEDULE", "0 */5 * * * *"),
			CacheTTL:         getEnvAsDuration("CATALOG_CACHE_TTL", "10m"),
		},

		Advisory: AdvisoryConfig{
			ProfilesPath:       getEnv("PROFILES_PATH", ""),
			ProjectionYears:    getEnvAsInt("PROJECTION_YEARS", 5),
			MaxProjectionYears: getEnvAsInt("MAX_PROJECTION_YEARS", 100),
			StrictBudget:       getEnvAsBool("STRICT_BUDGET", false),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			SQLitePath:      getEnv("SQLITE_PATH", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("API_RATE_LIMIT", 20),
			Burst:             getEnvAsInt("API_RATE_BURST", 40),
		},

		AllowedOrigins: getEnvAsList("API_ALLOWED_ORIGINS"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Catalog.ProductVaultPath == "" && c.Catalog.ProductVaultURL == "" && !c.Catalog.ProductVaultS3.Enabled() {
		return fmt.Errorf("PRODUCT_VAULT_PATH, PRODUCT_VAULT_URL or PRODUCT_VAULT_S3_BUCKET is required")
	}

	if s3 := c.Catalog.ProductVaultS3; (s3.AccessKeyID == "") != (s3.SecretAccessKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}

	if c.Advisory.ProjectionYears <= 0 {
		return fmt.Errorf("PROJECTION_YEARS must be positive, got %d", c.Advisory.ProjectionYears)
	}

	if c.Advisory.MaxProjectionYears < c.Advisory.ProjectionYears {
		return fmt.Errorf("MAX_PROJECTION_YEARS (%d) must be at least PROJECTION_YEARS (%d)",
			c.Advisory.MaxProjectionYears, c.Advisory.ProjectionYears)
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("API_RATE_LIMIT and API_RATE_BURST must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

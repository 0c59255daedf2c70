package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	TesseractDataPath string
	TesseractLanguage string
	TesseractDPI      int
	WorkerPoolSize    int
	ColorMode         string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	AwsEndpoint  string

	TempDir            string
	MaxUploadMB        int
	RequestTimeout     time.Duration
	CorsAllowedOrigins string
	WarmUpEnabled      bool
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		TesseractDataPath: getEnv("TESSERACT_DATA_PATH", ""),
		TesseractLanguage: getEnv("TESSERACT_LANGUAGE", "eng"),
		TesseractDPI:      getEnvInt("TESSERACT_DPI", 300),
		WorkerPoolSize:    getEnvInt("TESSERACT_WORKER_POOL_SIZE", 8),
		ColorMode:         getEnv("TESSERACT_COLOR_MODE", "gray"),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-1"),
		AwsEndpoint:  getEnv("AWS_ENDPOINT", ""),

		TempDir:            getEnv("TEMP_DIR", os.TempDir()),
		MaxUploadMB:        getEnvInt("MAX_UPLOAD_MB", 50),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 5*time.Minute),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		WarmUpEnabled:      getEnvBool("WARMUP_ENABLED", true),
	}

	return cfg
}

// Validate reports settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.TesseractDPI <= 0 {
		errs = append(errs, fmt.Errorf("TESSERACT_DPI must be positive, got %d", c.TesseractDPI))
	}
	if c.WorkerPoolSize <= 0 {
		errs = append(errs, fmt.Errorf("TESSERACT_WORKER_POOL_SIZE must be positive, got %d", c.WorkerPoolSize))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB))
	}
	if c.ColorMode != "gray" && c.ColorMode != "rgb" {
		errs = append(errs, fmt.Errorf("TESSERACT_COLOR_MODE must be gray or rgb, got %q", c.ColorMode))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	return errors.Join(errs...)
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a bool, using default %t", key, v, def)
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}

package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Recognizer RecognizerConfig
	Raster     RasterConfig
	Output     OutputConfig
}

// RecognizerConfig holds multimodal recognition service configuration
type RecognizerConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     float32
	Timeout         time.Duration
	PageConcurrency int
}

// RasterConfig holds PDF rasterization configuration
type RasterConfig struct {
	Pdftoppm string
	DPI      int
	TempDir  string
}

// OutputConfig holds report output configuration
type OutputConfig struct {
	Dir            string
	AllowedBaseDir string
	UsageFile      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	cwd, _ := os.Getwd()
	return &Config{
		Recognizer: RecognizerConfig{
			APIKey:          getEnv("DASHSCOPE_API_KEY", ""),
			BaseURL:         getEnv("DASHSCOPE_BASE_URL", "https://dashscope.aliyuncs.com/api/v1"),
			Model:           getEnv("AUDIT_MODEL", "qwen-vl-max"),
			Temperature:     getEnvAsFloat32("AUDIT_TEMPERATURE", 0.01),
			Timeout:         getEnvAsDuration("DASHSCOPE_TIMEOUT", 60*time.Second),
			PageConcurrency: getEnvAsInt("AUDIT_PAGE_CONCURRENCY", 4),
		},
		Raster: RasterConfig{
			Pdftoppm: getEnv("PDFTOPPM", "pdftoppm"),
			DPI:      getEnvAsInt("AUDIT_DPI", 150),
			TempDir:  getEnv("AUDIT_TEMP_DIR", "temp_audit_images"),
		},
		Output: OutputConfig{
			Dir:            getEnv("AUDIT_OUTPUT_DIR", "output"),
			AllowedBaseDir: getEnv("AUDIT_BASE_DIR", cwd),
			UsageFile:      getEnv("AUDIT_USAGE_FILE", "usage_count.json"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Recognizer.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "DASHSCOPE_API_KEY is required", ErrInvalidInput)
	}
	if c.Raster.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "AUDIT_DPI must be positive", ErrInvalidInput)
	}
	if c.Recognizer.PageConcurrency <= 0 {
		return NewAppError("CONFIG_ERROR", "AUDIT_PAGE_CONCURRENCY must be positive", ErrInvalidInput)
	}
	return nil
}

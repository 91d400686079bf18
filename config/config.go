package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Platforms decide which fallback sources a reader consults.
const (
	PlatformDesktop = "desktop"
	PlatformMobile  = "mobile"
)

// Config holds the settings shared by the writer, the readers and the HTTP server
type Config struct {
	HTTPPort string
	Platform string

	Redis RedisConfig

	// Group namespaces shared-store keys, like an App Group identifier.
	Group string
	// GroupDir is the shared-group container; snapshot files live under
	// GroupDir/Library/WidgetData. Empty when the container is unavailable.
	GroupDir string
	// AppSupportDir is the private application-support directory; files
	// live under AppSupportDir/ReSchoolWidgets.
	AppSupportDir string

	SourceTimeout   time.Duration
	RefreshInterval time.Duration
}

// RedisConfig describes the shared key-value store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Platform: strings.ToLower(getEnv("WIDGET_PLATFORM", PlatformDesktop)),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Group:           getEnv("WIDGET_GROUP", "group.com.magisky.reschoolbeta"),
		GroupDir:        getEnv("WIDGET_GROUP_DIR", ""),
		AppSupportDir:   getEnv("WIDGET_APP_SUPPORT_DIR", defaultAppSupportDir()),
		SourceTimeout:   getEnvAsDuration("WIDGET_SOURCE_TIMEOUT", 2*time.Second),
		RefreshInterval: getEnvAsDuration("WIDGET_REFRESH_INTERVAL", 30*time.Minute),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	if c.Platform != PlatformDesktop && c.Platform != PlatformMobile {
		problems = append(problems, fmt.Sprintf("WIDGET_PLATFORM must be %q or %q", PlatformDesktop, PlatformMobile))
	}
	if c.Group == "" {
		problems = append(problems, "WIDGET_GROUP is required")
	}
	if c.SourceTimeout <= 0 {
		problems = append(problems, "WIDGET_SOURCE_TIMEOUT must be positive")
	}
	if c.RefreshInterval <= 0 {
		problems = append(problems, "WIDGET_REFRESH_INTERVAL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, ", "))
	}
	return nil
}

// defaultAppSupportDir mirrors the per-user application-support location.
func defaultAppSupportDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: %s=%q is not a duration, using %s", key, value, fallback)
		return fallback
	}
	return d
}

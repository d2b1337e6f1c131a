package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the capture/sync agent.
type Config struct {
	// CDP connection settings
	CDPAddress string
	CDPPort    int

	// Browser launching
	LaunchBrowser     bool
	BrowserStartURL   string
	BrowserProfileDir string

	// Tab matching
	TabURLFilter string

	// Capture behavior
	BufferCap     int
	SyncQueueSize int

	// Command surface
	ListenAddr         string
	ListenAutoFallback bool

	// Notifications
	NotifyURL string

	// Collection store
	PostmanBaseURL string

	// Local persistence
	DataDir          string
	CaptureLog       bool
	CaptureLogSizeMB int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		CDPAddress:         getEnvOrDefault("APISYNC_CDP_ADDRESS", "127.0.0.1"),
		CDPPort:            getEnvIntOrDefault("APISYNC_CDP_PORT", 9222),
		LaunchBrowser:      getEnvBoolOrDefault("APISYNC_LAUNCH_BROWSER", false),
		BrowserStartURL:    getEnvOrDefault("APISYNC_BROWSER_START_URL", ""),
		BrowserProfileDir:  getEnvOrDefault("APISYNC_BROWSER_PROFILE_DIR", "./apisync_profile"),
		TabURLFilter:       getEnvOrDefault("APISYNC_TAB_URL_FILTER", ""),
		BufferCap:          getEnvIntOrDefault("APISYNC_BUFFER_CAP", 100),
		SyncQueueSize:      getEnvIntOrDefault("APISYNC_SYNC_QUEUE_SIZE", 64),
		ListenAddr:         getEnvOrDefault("APISYNC_LISTEN_ADDR", "127.0.0.1:8742"),
		ListenAutoFallback: getEnvBoolOrDefault("APISYNC_LISTEN_AUTO_FALLBACK", true),
		NotifyURL:          getEnvOrDefault("APISYNC_NOTIFY_URL", ""),
		PostmanBaseURL:     getEnvOrDefault("APISYNC_POSTMAN_BASE_URL", "https://api.getpostman.com"),
		DataDir:            getEnvOrDefault("APISYNC_DATA_DIR", "./apisync_data"),
		CaptureLog:         getEnvBoolOrDefault("APISYNC_CAPTURE_LOG", false),
		CaptureLogSizeMB:   getEnvIntOrDefault("APISYNC_CAPTURE_LOG_SIZE_MB", 50),
		LogLevel:           getEnvOrDefault("APISYNC_LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// FallbackListenAddrs returns alternative bind addresses tried when the
// configured ListenAddr is already in use and auto fallback is enabled.
func (c *Config) FallbackListenAddrs() []string {
	host, portStr, err := net.SplitHostPort(c.ListenAddr)
	if err != nil {
		return nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil
	}
	var addrs []string
	for i := 1; i <= 3; i++ {
		addrs = append(addrs, net.JoinHostPort(host, strconv.Itoa(port+i)))
	}
	return addrs
}

// GetCDPURL returns the full CDP HTTP endpoint used by the remote allocator.
func (c *Config) GetCDPURL() string {
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}

// SlogLevel maps the configured level name onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API      APIConfig
	Deals    DealsConfig
	Offers   OffersConfig
	DBPath   string
	LogPath  string
	LogLevel string
	Sources  map[string]*SourceConfig
}

type APIConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

type DealsConfig struct {
	Cron     string
	Interval time.Duration
}

type OffersConfig struct {
	PageSize   int
	DebounceMS int
}

// SourceConfig describes one upstream offer source the backend aggregates.
// Loaded from config/sources/*.yaml; used to label and validate the source
// filter.
type SourceConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Homepage string `yaml:"homepage"`
	Currency string `yaml:"currency"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:           getEnv("API_BASE_URL", "http://localhost:8000"),
			Timeout:           30 * time.Second,
			RequestsPerSecond: getEnvFloat("API_RATE_LIMIT_RPS", 5),
		},
		Deals: DealsConfig{
			Cron: os.Getenv("DEALS_REFRESH_CRON"),
		},
		Offers: OffersConfig{
			PageSize:   getEnvInt("OFFERS_PAGE_SIZE", 20),
			DebounceMS: getEnvInt("FILTER_DEBOUNCE_MS", 800),
		},
		DBPath:   getEnv("DB_PATH", "bestprice.db"),
		LogPath:  getEnv("LOG_PATH", "client.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Sources:  make(map[string]*SourceConfig),
	}

	if timeout := os.Getenv("API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err == nil {
			cfg.API.Timeout = d
		}
	}

	if interval := os.Getenv("DEALS_REFRESH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Deals.Interval = d
		}
	}

	if err := cfg.loadSourceConfigs(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadSourceConfigs() error {
	configDir := "config/sources"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var source SourceConfig
		if err := yaml.Unmarshal(data, &source); err != nil {
			return err
		}

		c.Sources[source.ID] = &source
	}

	return nil
}

// KnownSource reports whether id matches a configured source. An empty id
// means "all sources" and is always valid; an empty catalog accepts anything.
func (c *Config) KnownSource(id string) bool {
	if id == "" || len(c.Sources) == 0 {
		return true
	}
	_, ok := c.Sources[id]
	return ok
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

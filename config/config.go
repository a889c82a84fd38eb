package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	SourceAPI    = "api"
	SourceDirect = "direct"
)

type Config struct {
	Port              string
	APIBaseURL        string
	WSURL             string
	WSToken           string
	WSRetryMaxElapsed time.Duration
	DataSource        string
	PostgresDSN       string
	MongoURI          string
	MongoDB           string
	DirectMajors      []string
	JWTSecret         string
	Locale            string
	ActivityLimit     int
	GrowthYears       int
	BrowserLimit      int
	FetchTimeout      time.Duration
	OpsUser           string
	OpsPasswordHash   string
	LogLevel          string
}

// LoadEnv memuat file .env kalau ada. Tidak ada file .env bukan error.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logrus.Debug(".env tidak ditemukan, memakai environment proses")
	}
}

func Load() (*Config, error) {
	LoadEnv()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://localhost:8000/api/v1")
	v.SetDefault("DATA_SOURCE", SourceAPI)
	v.SetDefault("MONGO_DB", "school")
	v.SetDefault("DASHBOARD_LOCALE", "id")
	v.SetDefault("ACTIVITY_LIMIT", 5)
	v.SetDefault("GROWTH_YEARS", 0)
	v.SetDefault("BROWSER_LIMIT", 6)
	v.SetDefault("FETCH_TIMEOUT", "10s")
	v.SetDefault("WS_RETRY_MAX_ELAPSED", "15m")
	v.SetDefault("OPS_USER", "ops")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Port:              v.GetString("PORT"),
		APIBaseURL:        v.GetString("API_BASE_URL"),
		WSURL:             v.GetString("WS_URL"),
		WSToken:           v.GetString("WS_TOKEN"),
		WSRetryMaxElapsed: v.GetDuration("WS_RETRY_MAX_ELAPSED"),
		DataSource:        strings.ToLower(v.GetString("DATA_SOURCE")),
		PostgresDSN:       v.GetString("POSTGRES_DSN"),
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDB:           v.GetString("MONGO_DB"),
		DirectMajors:      splitList(v.GetString("DIRECT_MAJORS")),
		JWTSecret:         v.GetString("JWT_SECRET"),
		Locale:            v.GetString("DASHBOARD_LOCALE"),
		ActivityLimit:     v.GetInt("ACTIVITY_LIMIT"),
		GrowthYears:       v.GetInt("GROWTH_YEARS"),
		BrowserLimit:      v.GetInt("BROWSER_LIMIT"),
		FetchTimeout:      v.GetDuration("FETCH_TIMEOUT"),
		OpsUser:           v.GetString("OPS_USER"),
		OpsPasswordHash:   v.GetString("OPS_PASSWORD_HASH"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case SourceAPI:
		if c.APIBaseURL == "" {
			return fmt.Errorf("config: API_BASE_URL is required for DATA_SOURCE=api")
		}
	case SourceDirect:
		if c.PostgresDSN == "" || c.MongoURI == "" {
			return fmt.Errorf("config: POSTGRES_DSN and MONGO_URI are required for DATA_SOURCE=direct")
		}
	default:
		return fmt.Errorf("config: unknown DATA_SOURCE %q", c.DataSource)
	}
	if c.ActivityLimit <= 0 {
		return fmt.Errorf("config: ACTIVITY_LIMIT must be positive, got %d", c.ActivityLimit)
	}
	if c.BrowserLimit <= 0 {
		return fmt.Errorf("config: BROWSER_LIMIT must be positive, got %d", c.BrowserLimit)
	}
	return nil
}

// OpsEnabled true kalau route /ops boleh dipasang
func (c *Config) OpsEnabled() bool {
	return c.OpsPasswordHash != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

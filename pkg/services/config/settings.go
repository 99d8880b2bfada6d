package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPropertyID      = "123456789"
	DefaultCredentialsPath = "credentials.json"
	DefaultSecretsPath     = ".secrets.ini"
	DefaultSecretsSection  = "ga4"
	DefaultDateRange       = 30 // days
	DefaultCacheTTL        = 300 * time.Second
)

type Settings struct {
	PropertyID       string         `mapstructure:"property_id"`
	CredentialsPath  string         `mapstructure:"credentials_path"`
	SecretsPath      string         `mapstructure:"secrets_path"`
	SecretsSection   string         `mapstructure:"secrets_section"`
	DefaultDateRange int            `mapstructure:"default_date_range"`
	CacheTTL         time.Duration  `mapstructure:"cache_ttl"`
	Server           ServerSettings `mapstructure:"server"`
	Page             PageSettings   `mapstructure:"page"`
}

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

func (s ServerSettings) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// PageSettings only affects page chrome.
type PageSettings struct {
	Title  string `mapstructure:"title"`
	Icon   string `mapstructure:"icon"`
	Layout string `mapstructure:"layout"`
}

var envBindings = map[string]string{
	"property_id":        "GA4_PROPERTY_ID",
	"credentials_path":   "CREDENTIALS_PATH",
	"secrets_path":       "SECRETS_PATH",
	"secrets_section":    "SECRETS_SECTION",
	"default_date_range": "DEFAULT_DATE_RANGE",
	"cache_ttl":          "CACHE_TTL",
	"server.host":        "SERVER_HOST",
	"server.port":        "SERVER_PORT",
	"page.title":         "PAGE_TITLE",
	"page.icon":          "PAGE_ICON",
	"page.layout":        "PAGE_LAYOUT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("property_id", DefaultPropertyID)
	v.SetDefault("credentials_path", DefaultCredentialsPath)
	v.SetDefault("secrets_path", DefaultSecretsPath)
	v.SetDefault("secrets_section", DefaultSecretsSection)
	v.SetDefault("default_date_range", DefaultDateRange)
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8501")
	v.SetDefault("page.title", "Website Dashboard")
	v.SetDefault("page.icon", "📊")
	v.SetDefault("page.layout", "wide")
}

// Load resolves settings from defaults, the environment and, when path is not
// empty, a config file. Environment variables win over the file.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.PropertyID) == "" {
		errs = append(errs, errors.New("property_id is required"))
	}
	if s.DefaultDateRange <= 0 {
		errs = append(errs, fmt.Errorf("default_date_range must be positive, got %d", s.DefaultDateRange))
	}
	if s.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must be positive, got %s", s.CacheTTL))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

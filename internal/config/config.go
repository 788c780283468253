package config

import (
	"fmt"
	"os"

	"activity_checker/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Chains      []entity.Chain    `yaml:"chains"`
	Alchemy     AlchemyConfig     `yaml:"alchemy"`
	CoinGecko   CoinGeckoConfig   `yaml:"coinGecko"`
	Activity    ActivityConfig    `yaml:"activityService"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// AlchemyConfig holds the configuration for the transfer upstream client.
// BaseURLTemplate may contain "{network}" which is expanded with a chain's
// Alchemy network slug; the API key is appended as the final path segment.
type AlchemyConfig struct {
	BaseURLTemplate      string `yaml:"baseURLTemplate"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RateLimit            int    `yaml:"rateLimit"`
	BurstLimit           int    `yaml:"burstLimit"`
}

// CoinGeckoConfig holds the configuration for the price oracle client.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// ActivityConfig holds configuration for the ActivityService.
type ActivityConfig struct {
	CacheTTLSeconds int `yaml:"cacheTTLSeconds"`
}

// PreferencesConfig holds configuration for persisted user preferences.
type PreferencesConfig struct {
	File string `yaml:"file"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// alchemyAPIKeyEnv overrides the configured API key when set.
const alchemyAPIKeyEnv = "ALCHEMY_API_KEY"

// LoadConfig loads configuration from a YAML file and applies defaults.
// A missing Alchemy API key is a fatal precondition and fails the load.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	cfg.applyDefaults()

	if key := os.Getenv(alchemyAPIKeyEnv); key != "" {
		cfg.Alchemy.APIKey = key
	}
	if cfg.Alchemy.APIKey == "" {
		logrus.Errorf("Alchemy API key missing: set alchemy.apiKey or %s", alchemyAPIKeyEnv)
		return nil, fmt.Errorf("loading config from %s: %w", path, entity.ErrMissingCredential)
	}

	for _, chain := range cfg.Chains {
		if chain.CoinGeckoID == "" {
			logrus.Warnf("Chain '%s' (ChainID: %d) has no coingeckoId configured. USD valuation will be omitted for this chain.", chain.Name, chain.ID)
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Alchemy.BaseURLTemplate == "" {
		cfg.Alchemy.BaseURLTemplate = "https://{network}.g.alchemy.com/v2"
		logrus.Infof("Alchemy.BaseURLTemplate not set, defaulting to %s", cfg.Alchemy.BaseURLTemplate)
	}
	if cfg.Alchemy.RequestTimeoutMillis == 0 {
		cfg.Alchemy.RequestTimeoutMillis = 10000
		logrus.Infof("Alchemy.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Alchemy.RequestTimeoutMillis)
	}
	if cfg.Alchemy.RateLimit == 0 {
		cfg.Alchemy.RateLimit = 10
	}
	if cfg.Alchemy.BurstLimit == 0 {
		cfg.Alchemy.BurstLimit = 5
	}
	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com"
		logrus.Infof("CoinGecko.BaseURL not set, defaulting to %s", cfg.CoinGecko.BaseURL)
	}
	if cfg.CoinGecko.RequestTimeoutMillis == 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}
	if cfg.Activity.CacheTTLSeconds == 0 {
		cfg.Activity.CacheTTLSeconds = 60
		logrus.Infof("ActivityService.CacheTTLSeconds not set, defaulting to %d seconds", cfg.Activity.CacheTTLSeconds)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

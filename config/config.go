package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// ProviderConfig is shared by every outbound HTTP provider.
type ProviderConfig struct {
	BaseURL   string        `mapstructure:"baseURL"`
	APIKey    string        `mapstructure:"apiKey"`
	UserAgent string        `mapstructure:"userAgent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64 `mapstructure:"rateLimit"`
}

// LLMConfig selects a text-generation backend: "openai" for any
// OpenAI-compatible chat completions API, or "gemini".
type LLMConfig struct {
	Backend     string        `mapstructure:"backend"`
	BaseURL     string        `mapstructure:"baseURL"`
	APIKey      string        `mapstructure:"apiKey"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"maxTokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type JWTConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	SecretKey string `mapstructure:"jwtSecret"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type TripConfig struct {
	CacheTTL           time.Duration `mapstructure:"cacheTTL"`
	CacheSweepInterval time.Duration `mapstructure:"cacheSweepInterval"`
	ShareTTL           time.Duration `mapstructure:"shareTTL"`
	PlanRateLimit      int           `mapstructure:"planRateLimit"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Auth struct {
		Supabase JWTConfig `mapstructure:"supabase"`
	} `mapstructure:"auth"`
	Cors struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	Trip      TripConfig `mapstructure:"trip"`
	Providers struct {
		Nominatim ProviderConfig `mapstructure:"nominatim"`
		Overpass  ProviderConfig `mapstructure:"overpass"`
		OSRM      ProviderConfig `mapstructure:"osrm"`
		Wikipedia ProviderConfig `mapstructure:"wikipedia"`
		Pixabay   ProviderConfig `mapstructure:"pixabay"`
		Unsplash  ProviderConfig `mapstructure:"unsplash"`
		LLM       struct {
			Primary   LLMConfig `mapstructure:"primary"`
			Secondary LLMConfig `mapstructure:"secondary"`
		} `mapstructure:"llm"`
	} `mapstructure:"providers"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// TRIP_PROVIDERS_PIXABAY_APIKEY overrides providers.pixabay.apiKey
	v.SetEnvPrefix("TRIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&config)
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func applyDefaults(c *Config) {
	if c.Server.HTTPPort == "" {
		c.Server.HTTPPort = "3000"
	}
	if c.Trip.CacheTTL <= 0 {
		c.Trip.CacheTTL = 30 * time.Minute
	}
	if c.Trip.CacheSweepInterval <= 0 {
		c.Trip.CacheSweepInterval = 10 * time.Minute
	}
	if c.Trip.ShareTTL <= 0 {
		c.Trip.ShareTTL = 24 * time.Hour
	}
	if c.Trip.PlanRateLimit <= 0 {
		c.Trip.PlanRateLimit = 20
	}
}

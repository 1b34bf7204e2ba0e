package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      App      `mapstructure:"app"`
	Server   Server   `mapstructure:"server"`
	Store    Store    `mapstructure:"store"`
	News     News     `mapstructure:"news"`
	AI       AI       `mapstructure:"ai"`
	WhatsApp WhatsApp `mapstructure:"whatsapp"`
	Digest   Digest   `mapstructure:"digest"`
}

// App holds general application configuration
type App struct {
	Debug      bool   `mapstructure:"debug"`
	LogLevel   string `mapstructure:"log_level"`
	ConfigFile string `mapstructure:"config_file"`
}

// Server holds webhook HTTP server configuration
type Server struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// Store holds Supabase preference store configuration
type Store struct {
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
	Table   string `mapstructure:"table"`
	Timeout string `mapstructure:"timeout"`
}

// News holds NewsAPI configuration
type News struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	PageSize       int    `mapstructure:"page_size"`
	DefaultSources string `mapstructure:"default_sources"`
	Timeout        string `mapstructure:"timeout"`
}

// AI holds summarization provider configuration
type AI struct {
	Provider string       `mapstructure:"provider"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// WhatsApp holds WhatsApp Cloud API configuration
type WhatsApp struct {
	Token       string `mapstructure:"token"`
	PhoneID     string `mapstructure:"phone_id"`
	VerifyToken string `mapstructure:"verify_token"`
	BaseURL     string `mapstructure:"base_url"`
	APIVersion  string `mapstructure:"api_version"`
	Timeout     string `mapstructure:"timeout"`
}

// Digest holds daily digest configuration
type Digest struct {
	PageSize int `mapstructure:"page_size"`
}

var globalConfig *Config

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	// Configure viper
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".newsbot")
		viper.SetConfigType("yaml")
	}

	// Set defaults
	setDefaults()

	// Bind environment variables
	bindEnvironmentVariables()

	// Enable automatic environment variable reading
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal into struct
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "10s")

	// Store defaults
	viper.SetDefault("store.table", "users")
	viper.SetDefault("store.timeout", "10s")

	// News defaults
	viper.SetDefault("news.base_url", "https://newsapi.org/v2")
	viper.SetDefault("news.page_size", 5)
	viper.SetDefault("news.default_sources", "bbc-news,cnn")
	viper.SetDefault("news.timeout", "15s")

	// AI defaults
	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.openai.model", "gpt-4o-mini")
	viper.SetDefault("ai.openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("ai.gemini.model", "gemini-1.5-flash-latest")

	// WhatsApp defaults
	viper.SetDefault("whatsapp.base_url", "https://graph.facebook.com")
	viper.SetDefault("whatsapp.api_version", "v20.0")
	viper.SetDefault("whatsapp.timeout", "10s")

	// Digest defaults
	viper.SetDefault("digest.page_size", 5)
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	// Supabase
	bindEnvKeys("store.url", []string{
		"SUPABASE_URL",
	})
	bindEnvKeys("store.api_key", []string{
		"SUPABASE_KEY",
		"SUPABASE_API_KEY",
	})

	// NewsAPI
	bindEnvKeys("news.api_key", []string{
		"NEWS_API_KEY",
		"NEWSAPI_KEY",
	})

	// OpenAI API key - support both naming conventions
	bindEnvKeys("ai.openai.api_key", []string{
		"OPENAI_API_KEY",
		"OPENAI_KEY",
	})

	// Gemini API key
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
	})

	// WhatsApp Cloud API
	bindEnvKeys("whatsapp.token", []string{
		"WHATSAPP_TOKEN",
	})
	bindEnvKeys("whatsapp.phone_id", []string{
		"PHONE_NUMBER_ID",
		"WHATSAPP_PHONE_ID",
	})
	bindEnvKeys("whatsapp.verify_token", []string{
		"VERIFY_TOKEN",
		"WHATSAPP_VERIFY_TOKEN",
	})

	// General settings
	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"NEWSBOT_DEBUG",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// Convenience getters for commonly used configuration values
func GetStore() Store       { return Get().Store }
func GetNews() News         { return Get().News }
func GetAI() AI             { return Get().AI }
func GetWhatsApp() WhatsApp { return Get().WhatsApp }
func GetServer() Server     { return Get().Server }
func GetDigest() Digest     { return Get().Digest }

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}

package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Market   Market   `mapstructure:"market"`
	TradeLog TradeLog `mapstructure:"trade_log"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Market holds the configuration for the market data APIs.
type Market struct {
	ApiKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	SentimentURL   string        `mapstructure:"sentiment_url"`
	Convert        string        `mapstructure:"convert"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	QuoteTTL       time.Duration `mapstructure:"quote_ttl"`
	GlobalTTL      time.Duration `mapstructure:"global_ttl"`
	SentimentTTL   time.Duration `mapstructure:"sentiment_ttl"`
	SearchTTL      time.Duration `mapstructure:"search_ttl"`
	SearchLimit    int           `mapstructure:"search_limit"`
}

// TradeLog holds the configuration for the trade log.
type TradeLog struct {
	FeePercent float64 `mapstructure:"fee_percent"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("market.base_url", "https://pro-api.coinmarketcap.com/v1")
	viper.SetDefault("market.sentiment_url", "https://api.alternative.me/fng/")
	viper.SetDefault("market.convert", "USD")
	viper.SetDefault("market.rate_limit", 10) // requests per second
	viper.SetDefault("market.rate_limit_burst", 5)
	viper.SetDefault("market.quote_ttl", 5*time.Minute)
	viper.SetDefault("market.global_ttl", time.Hour)
	viper.SetDefault("market.sentiment_ttl", time.Hour)
	viper.SetDefault("market.search_ttl", time.Hour)
	viper.SetDefault("market.search_limit", 20)
	viper.SetDefault("trade_log.fee_percent", 0.075)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "dashboard.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}

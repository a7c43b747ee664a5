package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Chat     ChatConfig
	TMDB     TMDBConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret            string
	ExpiryHours       int
	RefreshExpiryDays int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL int // seconds
}

type AMQPConfig struct {
	URL   string
	Queue string
}

type ChatConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int
	Temperature    float64
	TimeoutSeconds int
	HistoryLimit   int
	RatePerMinute  int
}

type TMDBConfig struct {
	APIKey  string
	BaseURL string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_DAYS", 30)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_CACHE_TTL", 300)
	viper.SetDefault("AMQP_QUEUE", "lumo.booking.events")
	viper.SetDefault("CHAT_BASE_URL", "https://openrouter.ai/api/v1")
	viper.SetDefault("CHAT_MODEL", "deepseek/deepseek-chat-v3.1")
	viper.SetDefault("CHAT_MAX_TOKENS", 500)
	viper.SetDefault("CHAT_TEMPERATURE", 0.7)
	viper.SetDefault("CHAT_TIMEOUT_SECONDS", 30)
	viper.SetDefault("CHAT_HISTORY_LIMIT", 10)
	viper.SetDefault("CHAT_RATE_PER_MINUTE", 10)
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:            viper.GetString("JWT_SECRET"),
			ExpiryHours:       viper.GetInt("JWT_EXPIRY_HOURS"),
			RefreshExpiryDays: viper.GetInt("JWT_REFRESH_EXPIRY_DAYS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			CacheTTL: viper.GetInt("REDIS_CACHE_TTL"),
		},
		AMQP: AMQPConfig{
			URL:   viper.GetString("AMQP_URL"),
			Queue: viper.GetString("AMQP_QUEUE"),
		},
		Chat: ChatConfig{
			APIKey:         viper.GetString("OPENROUTER_API_KEY"),
			BaseURL:        viper.GetString("CHAT_BASE_URL"),
			Model:          viper.GetString("CHAT_MODEL"),
			MaxTokens:      viper.GetInt("CHAT_MAX_TOKENS"),
			Temperature:    viper.GetFloat64("CHAT_TEMPERATURE"),
			TimeoutSeconds: viper.GetInt("CHAT_TIMEOUT_SECONDS"),
			HistoryLimit:   viper.GetInt("CHAT_HISTORY_LIMIT"),
			RatePerMinute:  viper.GetInt("CHAT_RATE_PER_MINUTE"),
		},
		TMDB: TMDBConfig{
			APIKey:  viper.GetString("TMDB_API_KEY"),
			BaseURL: viper.GetString("TMDB_BASE_URL"),
		},
	}

	return config, nil
}

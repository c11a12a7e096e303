package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Provider Provider
	Sync     Sync
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Provider holds the connection details for the upstream exam-results API.
type Provider struct {
	BaseURL string
	Token   string
}

// Sync controls the ingestion worker pool and its retry policy.
type Sync struct {
	Concurrency int
	MaxRetries  int
	BaseDelay   time.Duration
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("PROVIDER_BASE_URL", "https://web.getmarks.app")
	viper.SetDefault("SYNC_CONCURRENCY", 4)
	viper.SetDefault("SYNC_MAX_RETRIES", 2)
	viper.SetDefault("SYNC_BASE_DELAY_MS", 500)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Provider.BaseURL = viper.GetString("PROVIDER_BASE_URL")
	config.Provider.Token = viper.GetString("PROVIDER_AUTH_TOKEN")

	config.Sync.Concurrency = viper.GetInt("SYNC_CONCURRENCY")
	config.Sync.MaxRetries = viper.GetInt("SYNC_MAX_RETRIES")
	config.Sync.BaseDelay = time.Duration(viper.GetInt("SYNC_BASE_DELAY_MS")) * time.Millisecond

	log.Info().Str("port", config.Server.Port).Str("provider", config.Provider.BaseURL).Msg("Config loaded")
	return &config, nil
}

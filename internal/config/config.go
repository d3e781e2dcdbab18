/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables (with
 * an optional .env file), providing a centralized and straightforward way to
 * manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Store backends the service can run on.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config holds all the configuration variables for the ledger-service.
// These values are loaded from environment variables.
type Config struct {
	BotToken    string `mapstructure:"BOT_TOKEN"`
	AdminUserID string `mapstructure:"ADMIN_USER_ID"`

	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	RedisURL     string `mapstructure:"REDIS_URL"`

	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	LedgerEventQueue string `mapstructure:"LEDGER_EVENT_QUEUE"`

	DiscordClientID     string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordCallbackURL  string `mapstructure:"DISCORD_CALLBACK_URL"`
	SessionSecret       string `mapstructure:"SESSION_SECRET"`

	ServerURL  string `mapstructure:"SERVER_URL"`
	ServerPort string `mapstructure:"SERVER_PORT"`
	PublicDir  string `mapstructure:"PUBLIC_DIR"`

	DefaultReceiveNumber string `mapstructure:"DEFAULT_RECEIVE_NUMBER"`
	DefaultSendNumber    string `mapstructure:"DEFAULT_SEND_NUMBER"`
	DefaultTaxAmount     string `mapstructure:"DEFAULT_TAX_AMOUNT"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("STORE_BACKEND", StorePostgres)
	viper.SetDefault("LEDGER_EVENT_QUEUE", "dashboard.balance_updates")
	viper.SetDefault("PUBLIC_DIR", "public")
	viper.SetDefault("DEFAULT_RECEIVE_NUMBER", "01152810152")
	viper.SetDefault("DEFAULT_SEND_NUMBER", "01117097868")
	viper.SetDefault("DEFAULT_TAX_AMOUNT", "305")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("BOT_TOKEN")
	_ = viper.BindEnv("ADMIN_USER_ID", "ADMIN_USER_ID", "ADMIN_ID")
	_ = viper.BindEnv("STORE_BACKEND")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("LEDGER_EVENT_QUEUE")
	_ = viper.BindEnv("DISCORD_CLIENT_ID")
	_ = viper.BindEnv("DISCORD_CLIENT_SECRET")
	_ = viper.BindEnv("DISCORD_CALLBACK_URL")
	_ = viper.BindEnv("SESSION_SECRET")
	_ = viper.BindEnv("SERVER_URL")
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("PUBLIC_DIR")
	_ = viper.BindEnv("DEFAULT_RECEIVE_NUMBER")
	_ = viper.BindEnv("DEFAULT_SEND_NUMBER")
	_ = viper.BindEnv("DEFAULT_TAX_AMOUNT")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
		err = nil
	}

	// Unmarshal the configuration into the Config struct.
	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}

	config.BotToken = strings.TrimSpace(config.BotToken)
	config.AdminUserID = strings.TrimSpace(config.AdminUserID)
	config.SessionSecret = strings.TrimSpace(config.SessionSecret)
	config.ServerURL = strings.TrimRight(strings.TrimSpace(config.ServerURL), "/")

	config.StoreBackend = strings.ToLower(strings.TrimSpace(config.StoreBackend))
	switch config.StoreBackend {
	case StorePostgres, StoreRedis, StoreMemory:
	case "":
		config.StoreBackend = StorePostgres
	default:
		log.Printf("level=warn component=config msg=\"unknown store backend; falling back to postgres\" store_backend=%s", config.StoreBackend)
		config.StoreBackend = StorePostgres
	}

	return
}

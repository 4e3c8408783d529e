package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string `mapstructure:"PORT"`
	DatabasePath                  string `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string `mapstructure:"JWT_SECRET"`
	AdminAPIKey                   string `mapstructure:"ADMIN_API_KEY"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordAnnouncementsChannelID string `mapstructure:"DISCORD_ANNOUNCEMENTS_CHANNEL_ID"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "campus_events.db")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("ADMIN_API_KEY")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_ANNOUNCEMENTS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

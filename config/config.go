package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey             string `mapstructure:"secret_key"`
		AccessTokenTTLMinutes int    `mapstructure:"access_token_ttl_minutes"`
		RefreshTokenTTLHours  int    `mapstructure:"refresh_token_ttl_hours"`
	} `mapstructure:"jwt"`
	Cookie struct {
		Secure bool   `mapstructure:"secure"`
		Domain string `mapstructure:"domain"`
	} `mapstructure:"cookie"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

// AccessTokenTTL returns the configured access token lifetime.
func AccessTokenTTL() time.Duration {
	return time.Duration(AppConfig.JWT.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the sliding lifetime applied to a session on
// every login and successful refresh.
func RefreshTokenTTL() time.Duration {
	return time.Duration(AppConfig.JWT.RefreshTokenTTLHours) * time.Hour
}

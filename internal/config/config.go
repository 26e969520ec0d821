package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration, loaded once at startup from
// environment variables and an optional local config file.
type Config struct {
	Env string `mapstructure:"APP_ENV"` // development | production

	// MQTT broker endpoint
	MQTTHost     string `mapstructure:"MQTT_HOST"`
	MQTTPort     int    `mapstructure:"MQTT_PORT"`
	MQTTUsername string `mapstructure:"MQTT_USERNAME"`
	MQTTPassword string `mapstructure:"MQTT_PASSWORD"`

	// Topic the work orders are retained on
	PublishTopic string `mapstructure:"MQTT_PUBLISH_TOPIC"`

	// Internal observability listener; 0 disables it
	StatusPort int `mapstructure:"STATUS_PORT"`
}

// Load reads configuration from environment variables (and an optional
// config file in the working directory) and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Unmarshal only sees env-backed keys that are bound or defaulted
	for _, key := range []string{"MQTT_HOST", "MQTT_USERNAME", "MQTT_PASSWORD", "MQTT_PUBLISH_TOPIC"} {
		_ = v.BindEnv(key)
	}

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MQTT_PORT", 1883)
	v.SetDefault("STATUS_PORT", 0)

	// Optional config file for local development — does not fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required broker fields. Username and password are
// optional; everything else that names the broker or topic is not.
func (c *Config) Validate() error {
	if c.MQTTHost == "" {
		return errors.New("config: MQTT_HOST is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("config: MQTT_PORT %d is out of range", c.MQTTPort)
	}
	if c.PublishTopic == "" {
		return errors.New("config: MQTT_PUBLISH_TOPIC is required")
	}
	return nil
}

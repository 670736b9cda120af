package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port    string `mapstructure:"port"`
			Enabled bool   `mapstructure:"enabled"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Planner struct {
		APIBaseURL     string        `mapstructure:"apiBaseURL"`
		RequestTimeout time.Duration `mapstructure:"requestTimeout"`
		SearchURL      string        `mapstructure:"searchURL"`
		SessionTTL     time.Duration `mapstructure:"sessionTTL"`
	} `mapstructure:"planner"`
	Upstreams struct {
		NominatimURL string `mapstructure:"nominatimURL"`
		OpenMeteoURL string `mapstructure:"openMeteoURL"`
		OverpassURL  string `mapstructure:"overpassURL"`
		UserAgent    string `mapstructure:"userAgent"`
		PlacesRadius int    `mapstructure:"placesRadius"`
		PlacesLimit  int    `mapstructure:"placesLimit"`
	} `mapstructure:"upstreams"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

// PostgresEnabled reports whether a database host was configured.
func (c Config) PostgresEnabled() bool {
	return c.Repositories.Postgres.Host != ""
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// TOURISM_PLANNER_APIBASEURL overrides planner.apiBaseURL, and so on.
	v.SetEnvPrefix("tourism")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}

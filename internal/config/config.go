package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int     `envconfig:"PORT" default:"8080"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	HistoryLimit   int     `envconfig:"HISTORY_LIMIT" default:"100"`
	ExportScale    float64 `envconfig:"EXPORT_SCALE" default:"2"`
	ExportMaxSide  int     `envconfig:"EXPORT_MAX_SIDE" default:"8192"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

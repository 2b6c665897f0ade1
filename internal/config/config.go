package config

import (
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Service *svcConfig
}

type svcConfig struct {
	Server          string `envconfig:"INTELLIREFER_SERVER" default:"http://localhost:8080"`
	ConfigDir       string `envconfig:"INTELLIREFER_CONFIG_DIR" default:""`
	LogLevel        string `envconfig:"INTELLIREFER_LOG_LEVEL" default:"info"`
	RefreshInterval int    `envconfig:"INTELLIREFER_REFRESH_INTERVAL_SECONDS" default:"30"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
		if singleConfig.Service.ConfigDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			singleConfig.Service.ConfigDir = filepath.Join(home, ".intellirefer")
		}
	}
	return singleConfig, nil
}

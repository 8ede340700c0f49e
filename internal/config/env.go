package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig configures the SSH server. Every field can be set from the
// environment; command-line flags override it.
type ServerConfig struct {
	Address     string        `env:"BLOCKFALL_SSH_ADDR" envDefault:":23234"`
	HostKeyPath string        `env:"BLOCKFALL_HOST_KEY"`
	DBPath      string        `env:"BLOCKFALL_DB"`
	IdleTimeout time.Duration `env:"BLOCKFALL_IDLE_TIMEOUT" envDefault:"30m"`
	RoomTimeout time.Duration `env:"BLOCKFALL_ROOM_TIMEOUT" envDefault:"10m"`
	ConfigPath  string        `env:"BLOCKFALL_CONFIG"`
}

// LoadServerConfig parses ServerConfig from the environment and fills the
// host key and database paths from the data directory when unset.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.HostKeyPath == "" {
		p, err := DataPath("host_key")
		if err != nil {
			return cfg, err
		}
		cfg.HostKeyPath = p
	}
	if cfg.DBPath == "" {
		p, err := DataPath("blockfall.db")
		if err != nil {
			return cfg, err
		}
		cfg.DBPath = p
	}
	return cfg, nil
}

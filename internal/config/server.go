package config

import "time"

// ServerConfig holds the settings of the SSH server. Command-line flags
// take precedence over the environment.
type ServerConfig struct {
	SSHAddr     string        `env:"BRIX_SSH_ADDR" envDefault:":23234"`
	HostKey     string        `env:"BRIX_HOST_KEY"`
	DBPath      string        `env:"BRIX_DB" envDefault:"~/.arcade/scores.db"`
	MetricsAddr string        `env:"BRIX_METRICS_ADDR"`
	IdleTimeout time.Duration `env:"BRIX_IDLE_TIMEOUT" envDefault:"30m"`
	LobbyTTL    time.Duration `env:"BRIX_LOBBY_TTL" envDefault:"2m"`
	TickRate    int           `env:"BRIX_TICK_RATE" envDefault:"30"`
	LogLevel    string        `env:"BRIX_LOG_LEVEL" envDefault:"info"`
}

// LoadServer reads the server settings from the environment.
func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

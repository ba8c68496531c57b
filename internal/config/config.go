package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	xdgConfigFile   = "tictactoe/config.yml"
	localConfigFile = "config.yml"
)

var ErrUnknownStorage = errors.New("unknown storage")

type Config struct {
	LogLevel   string `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"TICTACTOE_HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"TICTACTOE_SOCKET_PORT" env-default:"9091"`
	Storage    string `yaml:"storage" env:"TICTACTOE_STORAGE" env-default:"memory"`
	Redis      Redis  `yaml:"redis"`
}

type Redis struct {
	Host       string        `yaml:"host" env:"TICTACTOE_REDIS_HOST" env-default:"localhost"`
	Port       string        `yaml:"port" env:"TICTACTOE_REDIS_PORT" env-default:"6379"`
	GameTTL    time.Duration `yaml:"game-ttl" env:"TICTACTOE_REDIS_GAME_TTL" env-default:"24h"`
	MaxRetries int           `yaml:"max-retries" env:"TICTACTOE_REDIS_MAX_RETRIES" env-default:"10"`
}

// MustLoad - loads configuration from path, or from the environment only when path is empty.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// FindPath - looks for a config file under the XDG config dirs, then in the working directory.
// Returns an empty string when neither exists.
func FindPath() string {
	if path, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return path
	}

	if _, err := os.Stat(localConfigFile); err == nil {
		return localConfigFile
	}

	return ""
}

func (that *Config) validate() error {
	switch that.Storage {
	case StorageMemory, StorageRedis:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, that.Storage)
	}
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

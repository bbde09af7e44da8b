package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel       string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort       string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort     string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	AllowedOrigins []string  `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-separator:","`
	WebSocket      WebSocket `yaml:"websocket"`
	Redis          Redis     `yaml:"redis"`
	Archive        Archive   `yaml:"archive"`
}

type WebSocket struct {
	ReadLimit  int64         `yaml:"read-limit" env:"WS_READ_LIMIT" env-default:"4096"`
	WriteWait  time.Duration `yaml:"write-wait" env:"WS_WRITE_WAIT" env-default:"10s"`
	PongWait   time.Duration `yaml:"pong-wait" env:"WS_PONG_WAIT" env-default:"60s"`
	SendBuffer int           `yaml:"send-buffer" env:"WS_SEND_BUFFER" env-default:"64"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Archive - finished games kept in Redis.
type Archive struct {
	HistorySize int           `yaml:"history-size" env:"ARCHIVE_HISTORY_SIZE" env-default:"100"`
	TTL         time.Duration `yaml:"ttl" env:"ARCHIVE_TTL" env-default:"168h"`
}

// MustLoad - load all configurations in config.yml file, or only from the environment if there is no file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

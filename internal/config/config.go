package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string      `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort  string      `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7000"`
	Redis       Redis       `yaml:"redis"`
	Matches     Matches     `yaml:"matches"`
	Leaderboard Leaderboard `yaml:"leaderboard"`
	ProductAPI  ProductAPI  `yaml:"product-api"`
	CORS        CORS        `yaml:"cors"`
	RateLimit   RateLimit   `yaml:"rate-limit"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Matches struct {
	// SessionTTL of zero keeps sessions until they are deleted.
	SessionTTL time.Duration `yaml:"session-ttl" env:"MATCH_SESSION_TTL" env-default:"24h"`
}

type Leaderboard struct {
	Key string `yaml:"key" env:"LEADERBOARD_KEY" env-default:"leaderboard"`
}

type ProductAPI struct {
	BaseURL  string        `yaml:"base-url" env:"PRODUCT_API_BASE_URL" env-default:"http://localhost:3001"`
	Timeout  time.Duration `yaml:"timeout" env:"PRODUCT_API_TIMEOUT" env-default:"10s"`
	PageSize int           `yaml:"page-size" env:"PRODUCT_API_PAGE_SIZE" env-default:"8"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed-origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

type RateLimit struct {
	RequestsPerMinute int `yaml:"requests-per-minute" env:"RATE_LIMIT_PER_MINUTE" env-default:"600"`
	Burst             int `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"60"`
}

// MustLoad - load all configurations in config.yml file, environment variables win.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

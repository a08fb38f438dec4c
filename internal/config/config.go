// Package config предоставляет структуры и функции для загрузки конфигурации
// из YAML-файла и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Бэкенды хранилища медиафайлов.
const (
	MediaBackendLocal = "local"
	MediaBackendS3    = "s3"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Media                   Media     `yaml:"media"`
	Broker                  Broker    `yaml:"broker"`
	RateLimit               RateLimit `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP    string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":5000"`
	TimeoutHTTP    time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" env:"HTTP_MAX_UPLOAD_BYTES" env-default:"16777216"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"24h"`
}

// Media настройки хранилища загруженных файлов.
type Media struct {
	Backend   string `yaml:"backend" env:"MEDIA_BACKEND" env-default:"local"`
	UploadDir string `yaml:"upload_dir" env:"MEDIA_UPLOAD_DIR" env-default:"uploads"`
	S3        S3     `yaml:"s3"`
}

// S3 параметры S3-совместимого хранилища.
type S3 struct {
	Bucket       string `yaml:"bucket" env:"S3_BUCKET"`
	Region       string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint     string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey    string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey    string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	UsePathStyle bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE" env-default:"true"`
}

// Broker настройки публикации доменных событий. Пустой URL отключает публикацию.
type Broker struct {
	URL      string `yaml:"url" env:"BROKER_URL"`
	Exchange string `yaml:"exchange" env:"BROKER_EXCHANGE" env-default:"marketplace"`
}

// RateLimit ограничение частоты запросов к регистрации и входу.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Load читает конфиг из файла path и переменных окружения.
// При пустом path используются только переменные окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг из файла CONFIG_PATH (если задан) и окружения.
// При ошибке завершает процесс.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.Media.Backend {
	case MediaBackendLocal:
		if c.Media.UploadDir == "" {
			return errors.New("media.upload_dir is empty")
		}
	case MediaBackendS3:
		if c.Media.S3.Bucket == "" {
			return errors.New("media.s3.bucket is required for s3 backend")
		}
	default:
		return fmt.Errorf("unknown media backend %q", c.Media.Backend)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("http_server.max_upload_bytes must be positive")
	}
	if c.TokenTTL <= 0 {
		return errors.New("jwttoken.token_ttl must be positive")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  MaxUploadBytes: %d\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Media:\n"+
			"  Backend: %s\n"+
			"  UploadDir: %s\n"+
			"  S3Bucket: %s\n"+
			"Broker:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n"+
			"RateLimit:\n"+
			"  RPS: %g\n"+
			"  Burst: %d\n",
		c.Env,
		c.MigrationsPath,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.MaxUploadBytes,
		c.TokenTTL,
		c.Media.Backend,
		c.Media.UploadDir,
		c.Media.S3.Bucket,
		c.Broker.URL != "",
		c.Broker.Exchange,
		c.RateLimit.RPS,
		c.RateLimit.Burst,
	)
}

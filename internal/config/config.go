// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string        `yaml:"env" env-default:"local"`
	StorageConnectionString string        `yaml:"storage_connection_string" env-required:"true"`
	StorageTimeout          time.Duration `yaml:"storage_timeout" env-default:"5s"`
	MigrationsPath          string        `yaml:"migrations_path" env-default:"./migrations"`
	GRPCAddress             string        `yaml:"grpc_address" env-default:":50051"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Session                 `yaml:"session"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMSProvider             `yaml:"sms_provider"`
	Notification            `yaml:"notification"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"1h"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Session настройки cookie-сессии.
type Session struct {
	SessionKey   string `yaml:"session_key" env-required:"true"`
	SessionName  string `yaml:"session_name" env-default:"webshop_session"`
	MaxAge       int    `yaml:"max_age" env-default:"28800"`
	CookieSecure bool   `yaml:"cookie_secure"`
	CookieDomain string `yaml:"cookie_domain"`
}

// RabbitMQ настройки подключения к брокеру.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMSProvider настройки HTTP-провайдера SMS.
type SMSProvider struct {
	SMSProviderURL string        `yaml:"url"`
	SMSAPIKey      string        `yaml:"api_key"`
	SMSSender      string        `yaml:"sender" env-default:"WebShop"`
	SMSTimeout     time.Duration `yaml:"timeout" env-default:"10s"`
}

// Notification настройки отправки уведомлений.
// Mode "queue" публикует SMS в RabbitMQ, "log" только пишет их в лог.
type Notification struct {
	Mode           string        `yaml:"mode" env-default:"log"`
	SendTimeout    time.Duration `yaml:"send_timeout" env-default:"5s"`
	MetricsAddress string        `yaml:"metrics_address" env-default:":9091"`
}

// RateLimit ограничение частоты запросов входа и оформления заказа с одного IP.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type PaymentConfig struct {
	Env          string `yaml:"env"`
	HTTPServer   `yaml:"http_server"`
	PaymentDB    `yaml:"payment_db"`
	RedisService `yaml:"redis-service"`
	KafkaService `yaml:"kafka-service"`
	Gateway      `yaml:"gateway"`
	Payment      `yaml:"payment"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type PaymentDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type RedisService struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"payment-events"`
}

type Gateway struct {
	BaseURL       string   `yaml:"base_url"`
	Secret        string   `yaml:"secret" env:"GATEWAY_SECRET"`
	AllowedCIDRs  []string `yaml:"allowed_cidrs"`
	FreshnessSecs int      `yaml:"freshness_seconds" env-default:"300"`
}

type Payment struct {
	LockTTLSecs          int     `yaml:"lock_ttl_seconds" env-default:"30"`
	PendingTimeoutMins   int     `yaml:"pending_timeout_minutes" env-default:"20"`
	CompletedGraceSecs   int     `yaml:"completed_grace_seconds" env-default:"60"`
	ReceiptRetentionHrs  int     `yaml:"receipt_retention_hours" env-default:"6"`
	RiskThreshold        float64 `yaml:"risk_threshold" env-default:"0.7"`
	RiskVelocityWindowHr int     `yaml:"risk_velocity_window_hours" env-default:"24"`
}

func (g Gateway) Freshness() time.Duration {
	return time.Duration(g.FreshnessSecs) * time.Second
}

func (p Payment) LockTTL() time.Duration {
	return time.Duration(p.LockTTLSecs) * time.Second
}

func (p Payment) PendingTimeout() time.Duration {
	return time.Duration(p.PendingTimeoutMins) * time.Minute
}

func (p Payment) CompletedGrace() time.Duration {
	return time.Duration(p.CompletedGraceSecs) * time.Second
}

func (p Payment) ReceiptRetention() time.Duration {
	return time.Duration(p.ReceiptRetentionHrs) * time.Hour
}

func (p Payment) RiskVelocityWindow() time.Duration {
	return time.Duration(p.RiskVelocityWindowHr) * time.Hour
}

func MustLoad() *PaymentConfig {

	// Processing env config variable and file
	configPath := os.Getenv("PAYMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("PAYMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg PaymentConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}

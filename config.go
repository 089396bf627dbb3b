package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, supplied via environment
// variables (optionally from a .env file). Nothing here is hardcoded at use
// sites.
type Config struct {
	Port int `env:"PORT" envDefault:"3000"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	DynamoEndpoint string `env:"DYNAMO_ENDPOINT"`
	TableName      string `env:"TABLE_NAME" envDefault:"device-locations"`

	// dynamodb or memory; memory is for local development and tests.
	StoreBackend string        `env:"STORE_BACKEND" envDefault:"dynamodb"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	MaxQueryLimit int `env:"MAX_QUERY_LIMIT" envDefault:"1000"`

	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"10485760"`

	HTTPReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// MQTT ingestion is enabled only when a broker URL is set.
	MQTTBrokerURL string `env:"MQTT_BROKER_URL"`
	MQTTClientID  string `env:"MQTT_CLIENT_ID" envDefault:"gps-tracking-server"`
}

// LoadConfig reads .env when present, then parses the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Package config loads the core-relevant environment variables named in
// spec.md §6, validates them, and resolves the TASK_SLOT/SHARD_ID override.
//
// Grounded in adred-codev-ws_poc/ws/config.go: caarlos0/env struct-tag
// parsing, optional godotenv load, a Validate() method returning a plain
// error rather than panicking.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tulpje/tulpje/internal/apperr"
)

// Gateway holds the gateway ingress worker's configuration.
type Gateway struct {
	DiscordToken   string `env:"DISCORD_TOKEN,required"`
	DiscordProxy   string `env:"DISCORD_PROXY"`
	GatewayQueue   string `env:"DISCORD_GATEWAY_QUEUE,required"`
	ShardID        int    `env:"SHARD_ID" envDefault:"0"`
	ShardCount     int    `env:"SHARD_COUNT" envDefault:"1"`
	TaskSlot       *int   `env:"TASK_SLOT"`
	RabbitMQAddr   string `env:"RABBITMQ_ADDRESS"`
	NATSAddr       string `env:"NATS_ADDRESS" envDefault:"nats://127.0.0.1:4222"`
	QueueBackend   string `env:"QUEUE_BACKEND" envDefault:"nats"`
	RedisURL       string `env:"REDIS_URL,required"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"json"`
	BuildVersion   string `env:"BUILD_VERSION" envDefault:"dev"`
	MetricsAddr    string `env:"METRICS_ADDR" envDefault:":9090"`
}

// Handler holds the handler runtime's configuration.
type Handler struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	DiscordProxy string `env:"DISCORD_PROXY"`
	RabbitMQAddr string `env:"RABBITMQ_ADDRESS"`
	NATSAddr     string `env:"NATS_ADDRESS" envDefault:"nats://127.0.0.1:4222"`
	QueueBackend string `env:"QUEUE_BACKEND" envDefault:"nats"`
	RedisURL     string `env:"REDIS_URL,required"`
	DatabaseURL  string `env:"DATABASE_URL,required"`
	HandlerID    int    `env:"HANDLER_ID" envDefault:"0"`
	HandlerCount int    `env:"HANDLER_COUNT" envDefault:"1"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"json"`
	MetricsAddr  string `env:"METRICS_ADDR" envDefault:":9091"`
}

// LoadGateway reads and validates the gateway worker's configuration.
//
// Priority: real environment variables > .env file > struct defaults, same
// as the teacher's LoadConfig.
func LoadGateway() (*Gateway, error) {
	_ = godotenv.Load()

	cfg := &Gateway{}
	if err := env.Parse(cfg); err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "failed to parse gateway config", err)
	}

	cfg.resolveShardID()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveShardID applies the TASK_SLOT override.
//
// Decision (DESIGN.md "Open Questions" #1): TASK_SLOT always wins over
// SHARD_ID when both are present, matching the original source's silent
// overwrite — it exists so a container scheduler can assign a 1-based slot
// per replica without the operator also needing to compute and set SHARD_ID.
func (c *Gateway) resolveShardID() {
	if c.TaskSlot != nil {
		c.ShardID = *c.TaskSlot - 1
	}
}

func (c *Gateway) validate() error {
	if c.ShardCount < 1 {
		return apperr.New(apperr.KindConfig, "SHARD_COUNT must be >= 1")
	}
	if c.ShardID < 0 || c.ShardID >= c.ShardCount {
		return apperr.New(apperr.KindConfig, fmt.Sprintf("SHARD_ID %d out of range [0,%d)", c.ShardID, c.ShardCount))
	}
	if c.QueueBackend != "nats" && c.QueueBackend != "amqp" {
		return apperr.New(apperr.KindConfig, "QUEUE_BACKEND must be one of: nats, amqp")
	}
	if c.QueueBackend == "amqp" && c.RabbitMQAddr == "" {
		return apperr.New(apperr.KindConfig, "RABBITMQ_ADDRESS is required when QUEUE_BACKEND=amqp")
	}
	return nil
}

// LoadHandler reads and validates the handler runtime's configuration.
func LoadHandler() (*Handler, error) {
	_ = godotenv.Load()

	cfg := &Handler{}
	if err := env.Parse(cfg); err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "failed to parse handler config", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Handler) validate() error {
	if c.HandlerCount < 1 {
		return apperr.New(apperr.KindConfig, "HANDLER_COUNT must be >= 1")
	}
	if c.QueueBackend != "nats" && c.QueueBackend != "amqp" {
		return apperr.New(apperr.KindConfig, "QUEUE_BACKEND must be one of: nats, amqp")
	}
	if c.QueueBackend == "amqp" && c.RabbitMQAddr == "" {
		return apperr.New(apperr.KindConfig, "RABBITMQ_ADDRESS is required when QUEUE_BACKEND=amqp")
	}
	return nil
}

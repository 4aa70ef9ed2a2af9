package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort uint16 `env:"REDIS_PORT" envDefault:"6379"   validate:"min=1000,max=65535"`

	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"auction_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"auction_password"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"auction_db"`

	ProductServiceURL string `env:"PRODUCT_SERVICE_URL" envDefault:"http://localhost:8081" validate:"url"`
	UserServiceURL    string `env:"USER_SERVICE_URL"    envDefault:"http://localhost:8082" validate:"url"`

	// Default minimum increment, used when an auction is registered without one.
	BidMinIncrement float64 `env:"BID_MIN_INCREMENT" envDefault:"0" validate:"min=0"`

	// Bounded retries for the conditional high-bid write before the bid is
	// rejected with a conflict.
	BidMaxRetries int `env:"BID_MAX_RETRIES" envDefault:"3" validate:"min=1,max=10"`

	SchedulerInterval   time.Duration `env:"SCHEDULER_INTERVAL"   envDefault:"10s"   validate:"min=1s"`
	CollaboratorTimeout time.Duration `env:"COLLABORATOR_TIMEOUT" envDefault:"3s"    validate:"min=100ms"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

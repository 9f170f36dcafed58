package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string    `mapstructure:"service_name"`
	Env         string    `mapstructure:"env"`
	Port        string    `mapstructure:"port"`
	Storage     string    `mapstructure:"storage"`
	Database    Database  `mapstructure:"database"`
	AWS         AWS       `mapstructure:"aws"`
	Saga        Saga      `mapstructure:"saga"`
	Simulator   Simulator `mapstructure:"simulator"`
}

type Database struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type AWS struct {
	Region      string `mapstructure:"region"`
	SNSTopicArn string `mapstructure:"sns_topic_arn"`
	SQSQueueURL string `mapstructure:"sqs_queue_url"`
}

// Saga holds the activity retry profile and the launcher limits
type Saga struct {
	StepTimeout       time.Duration `mapstructure:"step_timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
	BackoffMultiplier float64       `mapstructure:"backoff_multiplier"`
	MaxConcurrent     int64         `mapstructure:"max_concurrent"`
	RejectDuplicates  bool          `mapstructure:"reject_duplicates"`
}

// Simulator holds the simulated resource manager failure profile
type Simulator struct {
	PaymentDeclineRate  float64       `mapstructure:"payment_decline_rate"`
	InventoryShortRate  float64       `mapstructure:"inventory_short_rate"`
	FraudFlagRate       float64       `mapstructure:"fraud_flag_rate"`
	ShippingUnavailRate float64       `mapstructure:"shipping_unavail_rate"`
	MaxLatency          time.Duration `mapstructure:"max_latency"`
}

func ReadConfig() (*Config, error) {
	viper.SetConfigName(getConfigName())
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Allow environment variables to override config
	viper.AutomaticEnv()
	viper.SetEnvPrefix("ORDER")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Defaults plus environment cover local runs without a config file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func getConfigName() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return "local"
	}
	return env
}

func setDefaults() {
	viper.SetDefault("service_name", "order-service")
	viper.SetDefault("env", getEnv("ENV", "local"))
	viper.SetDefault("port", getEnv("PORT", "8080"))
	viper.SetDefault("storage", getEnv("STORAGE", "memory"))

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "order_saga")
	viper.SetDefault("database.ssl_mode", "disable")

	viper.SetDefault("aws.region", getEnv("AWS_DEFAULT_REGION", "us-east-1"))
	viper.SetDefault("aws.sns_topic_arn", getEnv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:000000000000:order-events"))
	viper.SetDefault("aws.sqs_queue_url", getEnv("SQS_QUEUE_URL", "http://localhost:4566/000000000000/order-requests"))

	viper.SetDefault("saga.step_timeout", "5m")
	viper.SetDefault("saga.max_attempts", 3)
	viper.SetDefault("saga.initial_backoff", "1s")
	viper.SetDefault("saga.max_backoff", "10s")
	viper.SetDefault("saga.backoff_multiplier", 2.0)
	viper.SetDefault("saga.max_concurrent", 64)
	viper.SetDefault("saga.reject_duplicates", false)

	viper.SetDefault("simulator.payment_decline_rate", 0.10)
	viper.SetDefault("simulator.inventory_short_rate", 0.05)
	viper.SetDefault("simulator.fraud_flag_rate", 0.03)
	viper.SetDefault("simulator.shipping_unavail_rate", 0.02)
	viper.SetDefault("simulator.max_latency", "500ms")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDatabaseURL constructs database URL from config
func (c *Config) GetDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

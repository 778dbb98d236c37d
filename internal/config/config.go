// Package config loads railbook settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// PathEnv names the variable holding the optional YAML config path.
const PathEnv = "RAILBOOK_CONFIG"

type Config struct {
	Env      string   `yaml:"env" env:"RAILBOOK_ENV" env-default:"local"`
	Storage  Storage  `yaml:"storage"`
	Security Security `yaml:"security"`
	Log      Log      `yaml:"log"`
	Events   Events   `yaml:"events"`
	HTTP     HTTP     `yaml:"http"`
}

type Storage struct {
	// Driver is one of json, memory or postgres.
	Driver     string `yaml:"driver" env:"RAILBOOK_STORAGE_DRIVER" env-default:"json"`
	DataDir    string `yaml:"data_dir" env:"RAILBOOK_DATA_DIR" env-default:"data"`
	TrainsFile string `yaml:"trains_file" env:"RAILBOOK_TRAINS_FILE" env-default:"trains.json"`
	UsersFile  string `yaml:"users_file" env:"RAILBOOK_USERS_FILE" env-default:"users.json"`
	DSN        string `yaml:"dsn" env:"RAILBOOK_DATABASE_DSN"`
}

type Security struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"RAILBOOK_BCRYPT_COST" env-default:"10"`
}

type Log struct {
	Level   string   `yaml:"level" env:"RAILBOOK_LOG_LEVEL" env-default:"info"`
	Outputs []string `yaml:"outputs" env:"RAILBOOK_LOG_OUTPUTS" env-default:"stderr"`
}

type Events struct {
	// Backend is one of memory, gochannel, redis or kafka.
	Backend       string   `yaml:"backend" env:"RAILBOOK_EVENTS_BACKEND" env-default:"memory"`
	RedisAddr     string   `yaml:"redis_addr" env:"RAILBOOK_REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string   `yaml:"redis_password" env:"RAILBOOK_REDIS_PASSWORD"`
	RedisDB       int      `yaml:"redis_db" env:"RAILBOOK_REDIS_DB" env-default:"0"`
	KafkaBrokers  []string `yaml:"kafka_brokers" env:"RAILBOOK_KAFKA_BROKERS" env-default:"localhost:9092"`
	ConsumerGroup string   `yaml:"consumer_group" env:"RAILBOOK_CONSUMER_GROUP" env-default:"railbook"`
	// AMQPURL, when set, forwards confirmed bookings to RabbitMQ.
	AMQPURL string `yaml:"amqp_url" env:"RAILBOOK_AMQP_URL"`
}

type HTTP struct {
	Enabled bool   `yaml:"enabled" env:"RAILBOOK_HTTP_ENABLED" env-default:"false"`
	Addr    string `yaml:"addr" env:"RAILBOOK_HTTP_ADDR" env-default:":8080"`
}

var (
	validStorageDrivers = map[string]bool{"json": true, "memory": true, "postgres": true}
	validEventBackends  = map[string]bool{"memory": true, "gochannel": true, "redis": true, "kafka": true}
)

// Load reads the YAML file at path when it is non-empty, then applies the
// environment on top. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad loads .env if present and then the file named by RAILBOOK_CONFIG.
func MustLoad() *Config {
	_ = godotenv.Load()

	cfg, err := Load(os.Getenv(PathEnv))
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Validate() error {
	if !validStorageDrivers[c.Storage.Driver] {
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return errors.New("storage driver postgres requires a dsn")
	}
	if !validEventBackends[c.Events.Backend] {
		return fmt.Errorf("unknown events backend %q", c.Events.Backend)
	}
	if c.Events.Backend == "kafka" && len(c.Events.KafkaBrokers) == 0 {
		return errors.New("events backend kafka requires at least one broker")
	}
	return nil
}

func (s Storage) TrainsPath() string {
	return filepath.Join(s.DataDir, s.TrainsFile)
}

func (s Storage) UsersPath() string {
	return filepath.Join(s.DataDir, s.UsersFile)
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Minio   MinioConfig   `yaml:"minio"`
	Camera  CameraConfig  `yaml:"camera"`
	Capture CaptureConfig `yaml:"capture"`
	Share   ShareConfig   `yaml:"share"`
	Worker  WorkerConfig  `yaml:"worker"`
	Retry   RetryConfig   `yaml:"retry"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type DBConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
	Name            string        `yaml:"name" env:"DB_NAME" env-default:"vibecapture"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	RendersTopic string   `yaml:"renders_topic" env:"KAFKA_RENDERS_TOPIC" env-default:"vibe-renders"`
	ResultsTopic string   `yaml:"results_topic" env:"KAFKA_RESULTS_TOPIC" env-default:"vibe-rendered"`
	GroupID      string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"vibe-capture-group"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY" env-default:"minioadmin"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY" env-default:"minioadmin"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"vibe-artifacts"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type CameraConfig struct {
	DeviceID string `yaml:"device_id" env:"CAMERA_DEVICE"`
	Width    int    `yaml:"width" env-default:"1280"`
	Height   int    `yaml:"height" env-default:"720"`
	FPS      int    `yaml:"fps" env-default:"30"`
	// Audio is requested only when recording is supported; photo-only
	// deployments leave it off.
	RecordingSupported bool `yaml:"recording_supported" env-default:"true"`
}

type CaptureConfig struct {
	RecordLimit time.Duration `yaml:"record_limit" env-default:"10s"`
	OutputFPS   int           `yaml:"output_fps" env-default:"30"`
	JPEGQuality int           `yaml:"jpeg_quality" env-default:"92"`
}

type ShareConfig struct {
	SaveDir string `yaml:"save_dir" env:"SHARE_SAVE_DIR" env-default:"./saved"`
}

type WorkerConfig struct {
	Concurrency int `yaml:"concurrency" env:"WORKER_CONCURRENCY" env-default:"4"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts" env-default:"3"`
	Delay    time.Duration `yaml:"delay" env-default:"500ms"`
	Backoff  float64       `yaml:"backoff" env-default:"2"`
}

// MustLoad reads CONFIG_PATH (yaml) with env overrides. A missing
// config file is fine; env defaults cover everything.
func MustLoad() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	path := os.Getenv("CONFIG_PATH")
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) DBDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/pelletier/go-toml/v2"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	StorageMemory = "memory"
	StorageS3     = "s3"

	DispatchInProcess = "inprocess"
	DispatchSQS       = "sqs"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	HealthPort  string
	LogLevel    string

	StoreDriver string
	PostgresDSN string
	SQLitePath  string
	AutoMigrate bool

	StorageDriver  string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3UsePathStyle bool

	DispatchDriver       string
	SQSQueueURL          string
	OptimizerConcurrency int
	OptimizerJobTimeout  time.Duration
	FFmpegBinary         string
	FFmpegVideoBitrate   string
	ScratchDir           string
	ScratchMaxAge        time.Duration

	PartURLTTL     time.Duration
	SessionMaxAge  time.Duration
	ReaperInterval time.Duration

	RedisURL string

	TracingEnabled bool
	OTLPEndpoint   string
}

// fileConfig is the optional TOML overlay named by CONTENTFLOW_CONFIG.
// Environment variables win over file values.
type fileConfig struct {
	ServiceName string `toml:"service_name"`
	LogLevel    string `toml:"log_level"`
	HTTP        struct {
		Port       string `toml:"port"`
		HealthPort string `toml:"health_port"`
	} `toml:"http"`
	Store struct {
		Driver      string `toml:"driver"`
		PostgresDSN string `toml:"postgres_dsn"`
		SQLitePath  string `toml:"sqlite_path"`
		AutoMigrate *bool  `toml:"auto_migrate"`
	} `toml:"store"`
	Storage struct {
		Driver       string `toml:"driver"`
		Bucket       string `toml:"bucket"`
		Region       string `toml:"region"`
		Endpoint     string `toml:"endpoint"`
		UsePathStyle *bool  `toml:"use_path_style"`
	} `toml:"storage"`
	Optimizer struct {
		Dispatch      string `toml:"dispatch"`
		QueueURL      string `toml:"queue_url"`
		Concurrency   int    `toml:"concurrency"`
		JobTimeout    string `toml:"job_timeout"`
		FFmpegBinary  string `toml:"ffmpeg_binary"`
		VideoBitrate  string `toml:"video_bitrate"`
		ScratchDir    string `toml:"scratch_dir"`
		ScratchMaxAge string `toml:"scratch_max_age"`
	} `toml:"optimizer"`
	Uploads struct {
		PartURLTTL     string `toml:"part_url_ttl"`
		SessionMaxAge  string `toml:"session_max_age"`
		ReaperInterval string `toml:"reaper_interval"`
	} `toml:"uploads"`
	Fanout struct {
		RedisURL string `toml:"redis_url"`
	} `toml:"fanout"`
	Tracing struct {
		Enabled      *bool  `toml:"enabled"`
		OTLPEndpoint string `toml:"otlp_endpoint"`
	} `toml:"tracing"`
}

func Load() (Config, error) {
	var file fileConfig
	if path := strings.TrimSpace(os.Getenv("CONTENTFLOW_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg := Config{
		ServiceName: envString("SERVICE_NAME", firstNonEmpty(file.ServiceName, "contentflow")),
		HTTPPort:    envString("HTTP_PORT", firstNonEmpty(file.HTTP.Port, "8080")),
		HealthPort:  envString("HEALTH_GRPC_PORT", firstNonEmpty(file.HTTP.HealthPort, "9090")),
		LogLevel:    envString("LOG_LEVEL", firstNonEmpty(file.LogLevel, "info")),

		StoreDriver: strings.ToLower(envString("STORE_DRIVER", firstNonEmpty(file.Store.Driver, StoreMemory))),
		PostgresDSN: envString("POSTGRES_DSN", file.Store.PostgresDSN),
		SQLitePath:  envString("SQLITE_PATH", firstNonEmpty(file.Store.SQLitePath, "data/contentflow.db")),
		AutoMigrate: envBool("AUTO_MIGRATE", boolOr(file.Store.AutoMigrate, true)),

		StorageDriver:  strings.ToLower(envString("STORAGE_DRIVER", firstNonEmpty(file.Storage.Driver, StorageMemory))),
		S3Bucket:       envString("S3_BUCKET", file.Storage.Bucket),
		S3Region:       envString("AWS_REGION", firstNonEmpty(file.Storage.Region, "us-east-1")),
		S3Endpoint:     envString("S3_ENDPOINT", file.Storage.Endpoint),
		S3UsePathStyle: envBool("S3_USE_PATH_STYLE", boolOr(file.Storage.UsePathStyle, false)),

		DispatchDriver:       strings.ToLower(envString("OPTIMIZER_DISPATCH", firstNonEmpty(file.Optimizer.Dispatch, DispatchInProcess))),
		SQSQueueURL:          envString("OPTIMIZER_QUEUE_URL", file.Optimizer.QueueURL),
		OptimizerConcurrency: envInt("OPTIMIZER_CONCURRENCY", intOr(file.Optimizer.Concurrency, 2)),
		FFmpegBinary:         envString("FFMPEG_BINARY", firstNonEmpty(file.Optimizer.FFmpegBinary, "ffmpeg")),
		FFmpegVideoBitrate:   envString("FFMPEG_VIDEO_BITRATE", firstNonEmpty(file.Optimizer.VideoBitrate, "2500k")),
		ScratchDir:           envString("OPTIMIZER_SCRATCH_DIR", firstNonEmpty(file.Optimizer.ScratchDir, os.TempDir())),

		RedisURL: envString("REDIS_URL", file.Fanout.RedisURL),

		TracingEnabled: envBool("TRACING_ENABLED", boolOr(file.Tracing.Enabled, false)),
		OTLPEndpoint:   envString("OTEL_EXPORTER_OTLP_ENDPOINT", firstNonEmpty(file.Tracing.OTLPEndpoint, "localhost:4317")),
	}

	durations := []struct {
		target   *time.Duration
		env      string
		file     string
		fallback time.Duration
	}{
		{&cfg.OptimizerJobTimeout, "OPTIMIZER_JOB_TIMEOUT", file.Optimizer.JobTimeout, 30 * time.Minute},
		{&cfg.ScratchMaxAge, "OPTIMIZER_SCRATCH_MAX_AGE", file.Optimizer.ScratchMaxAge, 2 * time.Hour},
		{&cfg.PartURLTTL, "PART_URL_TTL", file.Uploads.PartURLTTL, 15 * time.Minute},
		{&cfg.SessionMaxAge, "SESSION_MAX_AGE", file.Uploads.SessionMaxAge, 24 * time.Hour},
		{&cfg.ReaperInterval, "REAPER_INTERVAL", file.Uploads.ReaperInterval, 10 * time.Minute},
	}
	for _, item := range durations {
		fallback := item.fallback
		if strings.TrimSpace(item.file) != "" {
			parsed, err := time.ParseDuration(item.file)
			if err != nil {
				return Config{}, fmt.Errorf("config file duration for %s: %w", item.env, err)
			}
			fallback = parsed
		}
		*item.target = envDuration(item.env, fallback)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// maxQueuedJobTimeout leaves room for the visibility margin under the 12h SQS ceiling.
const maxQueuedJobTimeout = 12*time.Hour - 5*time.Minute

// Validate rejects driver combinations that cannot start.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres store"))
		}
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StorageS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	switch c.DispatchDriver {
	case DispatchInProcess:
	case DispatchSQS:
		if strings.TrimSpace(c.SQSQueueURL) == "" {
			errs = append(errs, errors.New("OPTIMIZER_QUEUE_URL is required for sqs dispatch"))
		}
		if c.OptimizerJobTimeout > maxQueuedJobTimeout {
			errs = append(errs, fmt.Errorf("OPTIMIZER_JOB_TIMEOUT must not exceed %s for sqs dispatch", maxQueuedJobTimeout))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown OPTIMIZER_DISPATCH %q", c.DispatchDriver))
	}
	return errors.Join(errs...)
}

func envString(name string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func intOr(value int, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

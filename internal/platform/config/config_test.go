package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configEnv = []string{
	"CONTENTFLOW_CONFIG", "SERVICE_NAME", "HTTP_PORT", "HEALTH_GRPC_PORT", "LOG_LEVEL",
	"STORE_DRIVER", "POSTGRES_DSN", "SQLITE_PATH", "AUTO_MIGRATE",
	"STORAGE_DRIVER", "S3_BUCKET", "AWS_REGION", "S3_ENDPOINT", "S3_USE_PATH_STYLE",
	"OPTIMIZER_DISPATCH", "OPTIMIZER_QUEUE_URL", "OPTIMIZER_CONCURRENCY", "OPTIMIZER_JOB_TIMEOUT",
	"FFMPEG_BINARY", "FFMPEG_VIDEO_BITRATE", "OPTIMIZER_SCRATCH_DIR", "OPTIMIZER_SCRATCH_MAX_AGE",
	"PART_URL_TTL", "SESSION_MAX_AGE", "REAPER_INTERVAL", "REDIS_URL",
	"TRACING_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnv {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.StoreDriver != StoreMemory || cfg.StorageDriver != StorageMemory || cfg.DispatchDriver != DispatchInProcess {
		t.Fatalf("unexpected drivers: %+v", cfg)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected http port %q", cfg.HTTPPort)
	}
	if cfg.PartURLTTL != 15*time.Minute {
		t.Fatalf("expected 15m part url ttl, got %s", cfg.PartURLTTL)
	}
	if cfg.SessionMaxAge != 24*time.Hour {
		t.Fatalf("expected 24h session max age, got %s", cfg.SessionMaxAge)
	}
	if cfg.OptimizerJobTimeout != 30*time.Minute {
		t.Fatalf("expected 30m job timeout, got %s", cfg.OptimizerJobTimeout)
	}
	if !cfg.AutoMigrate {
		t.Fatal("expected auto migrate on by default")
	}
	if cfg.TracingEnabled {
		t.Fatal("expected tracing off by default")
	}
}

func TestLoadFileOverlayWithEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "contentflow.toml")
	body := `
service_name = "contentflow-staging"

[store]
driver = "sqlite"
sqlite_path = "/var/lib/contentflow/app.db"
auto_migrate = false

[uploads]
part_url_ttl = "5m"
session_max_age = "6h"

[optimizer]
concurrency = 4
job_timeout = "10m"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONTENTFLOW_CONFIG", path)
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("OPTIMIZER_CONCURRENCY", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServiceName != "contentflow-staging" {
		t.Fatalf("unexpected service name %q", cfg.ServiceName)
	}
	if cfg.StoreDriver != StoreSQLite || cfg.SQLitePath != "/var/lib/contentflow/app.db" {
		t.Fatalf("unexpected store config: %q %q", cfg.StoreDriver, cfg.SQLitePath)
	}
	if cfg.AutoMigrate {
		t.Fatal("expected file to disable auto migrate")
	}
	if cfg.PartURLTTL != 5*time.Minute {
		t.Fatalf("expected file part url ttl, got %s", cfg.PartURLTTL)
	}
	if cfg.SessionMaxAge != 2*time.Hour {
		t.Fatalf("expected env to win for session max age, got %s", cfg.SessionMaxAge)
	}
	if cfg.OptimizerConcurrency != 8 {
		t.Fatalf("expected env to win for concurrency, got %d", cfg.OptimizerConcurrency)
	}
	if cfg.OptimizerJobTimeout != 10*time.Minute {
		t.Fatalf("expected file job timeout, got %s", cfg.OptimizerJobTimeout)
	}
}

func TestLoadRejectsIncompleteDrivers(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "postgres without dsn", env: map[string]string{"STORE_DRIVER": "postgres"}, want: "POSTGRES_DSN"},
		{name: "s3 without bucket", env: map[string]string{"STORAGE_DRIVER": "s3"}, want: "S3_BUCKET"},
		{name: "sqs without queue", env: map[string]string{"OPTIMIZER_DISPATCH": "sqs"}, want: "OPTIMIZER_QUEUE_URL"},
		{name: "unknown store", env: map[string]string{"STORE_DRIVER": "mongo"}, want: "unknown STORE_DRIVER"},
		{
			name: "sqs job timeout beyond visibility ceiling",
			env:  map[string]string{"OPTIMIZER_DISPATCH": "sqs", "OPTIMIZER_QUEUE_URL": "https://sqs.local/jobs", "OPTIMIZER_JOB_TIMEOUT": "13h"},
			want: "OPTIMIZER_JOB_TIMEOUT",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsBadFileDuration(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[uploads]\npart_url_ttl = \"soon\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONTENTFLOW_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid duration error")
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		raw      string
		fallback bool
		want     bool
	}{
		{"", true, true},
		{"yes", false, true},
		{"OFF", true, false},
		{"maybe", true, true},
	}
	for _, tc := range tests {
		t.Setenv("CONTENTFLOW_TEST_BOOL", tc.raw)
		if got := envBool("CONTENTFLOW_TEST_BOOL", tc.fallback); got != tc.want {
			t.Fatalf("envBool(%q, %v) = %v, want %v", tc.raw, tc.fallback, got, tc.want)
		}
	}
}

func TestEnvDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("CONTENTFLOW_TEST_DURATION", "-5m")
	if got := envDuration("CONTENTFLOW_TEST_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
	t.Setenv("CONTENTFLOW_TEST_DURATION", "90s")
	if got := envDuration("CONTENTFLOW_TEST_DURATION", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
}

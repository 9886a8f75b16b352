package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{BaseURL: "http://localhost:8000/v1"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingRedisAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingEmbeddingURL(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.BaseURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding base_url")
	}
}

func TestValidate_NegativeCacheTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.CacheTTLHours = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative cache_ttl_hours")
	}
}

func TestValidate_Threshold(t *testing.T) {
	for _, th := range []float64{-1.5, 1, 2} {
		cfg := validConfig()
		cfg.ApplyDefaults()
		cfg.Matching.Threshold = th
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for threshold %g", th)
		}
	}
}

func TestValidate_NotificationSender(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	cfg.Notification.SendGridAPIKey = "SG.test"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing from_email")
	}
	expected := "notification.from_email is required when sendgrid_api_key is set"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}

	cfg.Notification.FromEmail = "noreply@lostaf.app"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.HTTP.MaxUploadMB != 10 {
		t.Errorf("expected MaxUploadMB=10, got %d", cfg.HTTP.MaxUploadMB)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Embedding.Model != "clip-ViT-B-32" {
		t.Errorf("expected Model=clip-ViT-B-32, got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 512 {
		t.Errorf("expected Dimensions=512, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.MaxImageSide != 800 || cfg.Embedding.JPEGQuality != 85 {
		t.Errorf("unexpected image defaults: side=%d quality=%d",
			cfg.Embedding.MaxImageSide, cfg.Embedding.JPEGQuality)
	}
	if cfg.Matching.Threshold != 0.70 {
		t.Errorf("expected Threshold=0.70, got %g", cfg.Matching.Threshold)
	}
	if cfg.Matching.CandidateLimit != 100 {
		t.Errorf("expected CandidateLimit=100, got %d", cfg.Matching.CandidateLimit)
	}
	if cfg.Notification.SendTimeoutSec != 10 {
		t.Errorf("expected SendTimeoutSec=10, got %d", cfg.Notification.SendTimeoutSec)
	}
	if cfg.Auth.SessionTTLHours != 168 {
		t.Errorf("expected SessionTTLHours=168, got %d", cfg.Auth.SessionTTLHours)
	}
	if cfg.Notification.Enabled() {
		t.Error("notifications must be disabled without an API key")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Matching: MatchingConfig{Threshold: 0.85, CandidateLimit: 500},
		Embedding: EmbeddingConfig{
			Model: "clip-ViT-L-14", Dimensions: 768,
		},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Matching.Threshold != 0.85 {
		t.Errorf("expected Threshold=0.85, got %g", cfg.Matching.Threshold)
	}
	if cfg.Matching.CandidateLimit != 500 {
		t.Errorf("expected CandidateLimit=500, got %d", cfg.Matching.CandidateLimit)
	}
	if cfg.Embedding.Model != "clip-ViT-L-14" || cfg.Embedding.Dimensions != 768 {
		t.Errorf("embedding overridden: %+v", cfg.Embedding)
	}
}

func TestApplyDefaults_CORSOrigins(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{CORSOrigins: []string{"", "  "}}}
	cfg.ApplyDefaults()
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "*" {
		t.Errorf("blank origins should fall back to *, got %v", cfg.HTTP.CORSOrigins)
	}

	cfg = Config{HTTP: HTTPConfig{CORSOrigins: []string{"https://lostaf.app", ""}}}
	cfg.ApplyDefaults()
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "https://lostaf.app" {
		t.Errorf("unexpected origins: %v", cfg.HTTP.CORSOrigins)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LOSTAF_TEST_KEY", "secret")

	got := string(expandEnvVars([]byte("a: ${LOSTAF_TEST_KEY}\nb: ${LOSTAF_TEST_MISSING:-fallback}\nc: ${LOSTAF_TEST_MISSING}")))
	want := "a: secret\nb: fallback\nc: "
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9090
database:
  addrs: ["${LOSTAF_TEST_REDIS:-localhost:6379}"]
embedding:
  base_url: http://clip:8000/v1
matching:
  threshold: 0.8
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d", cfg.HTTP.Port)
	}
	if cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("Addrs = %v", cfg.Database.Addrs)
	}
	if cfg.Matching.Threshold != 0.8 {
		t.Errorf("Threshold = %g", cfg.Matching.Threshold)
	}
	if cfg.Matching.CandidateLimit != 100 {
		t.Errorf("CandidateLimit default not applied: %d", cfg.Matching.CandidateLimit)
	}
}

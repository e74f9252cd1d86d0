package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GEMINI_MODEL", "GEMINI_STREAM", "SCAN_ENABLED", "APP_ENV", "ZOHO_AUTH_DOMAIN", "ZOHO_API_DOMAIN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %q", cfg.Server.Addr)
	}
	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected default model: %q", cfg.AI.Model)
	}
	if cfg.AI.Temperature == nil || *cfg.AI.Temperature != 0.2 {
		t.Fatalf("unexpected default temperature: %v", cfg.AI.Temperature)
	}
	if !cfg.AI.StreamResponse {
		t.Fatal("streaming should default on")
	}
	if cfg.Zoho.AuthDomain != "accounts.zoho.com" || cfg.Zoho.APIDomain != "www.zohoapis.com" {
		t.Fatalf("unexpected zoho domains: %+v", cfg.Zoho)
	}
	if !cfg.Features.ScanEnabled {
		t.Fatal("scan should default on")
	}
	if cfg.Features.Development() {
		t.Fatal("development mode should default off")
	}
}

func TestLoadServerAddrVariants(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:9091")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9091" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
}

func TestZohoEnabledRequiresAllCredentials(t *testing.T) {
	t.Setenv("ZOHO_REFRESH_TOKEN", "r")
	t.Setenv("ZOHO_CLIENT_ID", "c")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Zoho.Enabled() {
		t.Fatal("enabled without client secret")
	}

	t.Setenv("ZOHO_CLIENT_SECRET", "s")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Zoho.Enabled() {
		t.Fatal("expected enabled with full credentials")
	}
}

func TestTimeoutOverrides(t *testing.T) {
	t.Setenv("AI_TIMEOUT_SECONDS", "45")
	t.Setenv("ZOHO_API_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AI.Timeout != 45*time.Second {
		t.Fatalf("unexpected ai timeout: %v", cfg.AI.Timeout)
	}
	if cfg.Zoho.APITimeout != 5*time.Second {
		t.Fatalf("unexpected api timeout: %v", cfg.Zoho.APITimeout)
	}
}

func TestInvalidValuesRejected(t *testing.T) {
	t.Setenv("SCAN_ENABLED", "definitely")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SCAN_ENABLED")
	}
	t.Setenv("SCAN_ENABLED", "")

	t.Setenv("GEMINI_TEMPERATURE", "warm")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid GEMINI_TEMPERATURE")
	}
	t.Setenv("GEMINI_TEMPERATURE", "")

	t.Setenv("AI_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive AI_TIMEOUT_SECONDS")
	}
}

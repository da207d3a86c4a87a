package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CRISISGRID_AUTH_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != DefaultAddr {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.AccessTTL != DefaultAccessTTL || cfg.RefreshTTL != DefaultRefreshTTL {
		t.Fatalf("unexpected ttls: %v / %v", cfg.AccessTTL, cfg.RefreshTTL)
	}
	if cfg.BcryptCost != DefaultBcryptCost {
		t.Fatalf("unexpected cost: %d", cfg.BcryptCost)
	}
	if cfg.Production() {
		t.Fatal("default environment must not be production")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("CRISISGRID_AUTH_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without signing secret")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CRISISGRID_AUTH_SECRET", "test-secret")
	t.Setenv("CRISISGRID_ACCESS_TTL", "30m")
	t.Setenv("CRISISGRID_REFRESH_TTL", "72h")
	t.Setenv("CRISISGRID_ENV", "production")
	t.Setenv("CRISISGRID_SUPER_ADMIN_ID", "01J0000000000000000000SUPR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessTTL != 30*time.Minute {
		t.Fatalf("unexpected access ttl: %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 72*time.Hour {
		t.Fatalf("unexpected refresh ttl: %v", cfg.RefreshTTL)
	}
	if !cfg.Production() {
		t.Fatal("expected production environment")
	}
	if cfg.SuperAdminID != "01J0000000000000000000SUPR" {
		t.Fatalf("unexpected super admin id: %s", cfg.SuperAdminID)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("CRISISGRID_AUTH_SECRET", "test-secret")
	t.Setenv("CRISISGRID_ACCESS_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}

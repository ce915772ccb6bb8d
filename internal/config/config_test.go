package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "drawbridge" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.DBURL != "" {
		t.Fatalf("DBURL should default to empty, got %q", cfg.DBURL)
	}
	if cfg.ConfirmTTL != 30*time.Second {
		t.Fatalf("unexpected ConfirmTTL: %s", cfg.ConfirmTTL)
	}
	if cfg.EditDelay != time.Second {
		t.Fatalf("unexpected EditDelay: %s", cfg.EditDelay)
	}
	if len(cfg.StaffKeywords) != 2 || cfg.StaffKeywords[0] != "ADMIN" || cfg.StaffKeywords[1] != "!AC" {
		t.Fatalf("unexpected StaffKeywords: %v", cfg.StaffKeywords)
	}
}

func TestLoad_GroupTableParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WORKSPACE_GROUP_MAP", "League Admin:930, Moderator:910")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.GroupTable) != 2 {
		t.Fatalf("unexpected GroupTable: %v", cfg.GroupTable)
	}
	if cfg.GroupTable["League Admin"] != 930 || cfg.GroupTable["Moderator"] != 910 {
		t.Fatalf("unexpected GroupTable: %v", cfg.GroupTable)
	}
}

func TestLoad_GroupTableRejectsMalformedItems(t *testing.T) {
	cases := map[string]string{
		"missing id":     "League Admin",
		"empty name":     ":930",
		"non-numeric id": "League Admin:abc",
		"zero id":        "League Admin:0",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("WORKSPACE_GROUP_MAP", raw)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %q", raw)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_CitadelCircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CITADEL_TIMEOUT", "7s")
	t.Setenv("CITADEL_MAX_RETRIES", "4")
	t.Setenv("CITADEL_CIRCUIT_FAILURE_COUNT", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CitadelTimeout != 7*time.Second {
		t.Fatalf("unexpected CitadelTimeout: %s", cfg.CitadelTimeout)
	}
	if cfg.CitadelMaxRetries != 4 {
		t.Fatalf("unexpected CitadelMaxRetries: %d", cfg.CitadelMaxRetries)
	}
	if cfg.CitadelCircuitFailureCount != 9 {
		t.Fatalf("unexpected CitadelCircuitFailureCount: %d", cfg.CitadelCircuitFailureCount)
	}
}

func TestLoad_RejectsNegativeEditDelay(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("EDIT_DELAY", "-1s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative EDIT_DELAY")
	}
}

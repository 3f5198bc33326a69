package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIURL, EnvTimeout, EnvRate, EnvBurst, EnvSessionFile, EnvPGDSN, EnvDevAddr, EnvAuthSecret} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL || cfg.DevAddr != DefaultDevAddr {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Timeout != 0 || cfg.Rate != 0 || cfg.Burst != 0 || cfg.PGDSN != "" {
		t.Fatalf("optional settings should be off: %+v", cfg)
	}
	if want := filepath.Join(home, ".farmchain", "session.json"); cfg.SessionFile != want {
		t.Fatalf("SessionFile = %q, want %q", cfg.SessionFile, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, " https://farmchain.example/api ")
	t.Setenv(EnvTimeout, "5s")
	t.Setenv(EnvRate, "2.5")
	t.Setenv(EnvBurst, "4")
	t.Setenv(EnvSessionFile, "/tmp/fc.json")
	t.Setenv(EnvPGDSN, "postgres://localhost/fc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://farmchain.example/api" {
		t.Fatalf("APIURL not trimmed: %q", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second || cfg.Rate != 2.5 || cfg.Burst != 4 {
		t.Fatalf("unexpected numeric settings: %+v", cfg)
	}
	if cfg.SessionFile != "/tmp/fc.json" || cfg.PGDSN != "postgres://localhost/fc" {
		t.Fatalf("unexpected storage settings: %+v", cfg)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{key: EnvTimeout, value: "soon"},
		{key: EnvTimeout, value: "-1s"},
		{key: EnvRate, value: "fast"},
		{key: EnvBurst, value: "1.5"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvSessionFile, "/tmp/fc.json")
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.key) {
				t.Fatalf("expected error naming %s, got %v", tc.key, err)
			}
		})
	}
}

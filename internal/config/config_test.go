package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/internal/config"
	"github.com/goliatone/go-docwizard/pkg/orchestrator"
)

func TestFromMapDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromMap(map[string]string{"DOCWIZARD_CATALOG": "catalog.json"})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	want := config.Config{
		Addr:          ":8080",
		CatalogPath:   "catalog.json",
		Policy:        "advisory",
		LogLevel:      "info",
		SessionMaxAge: 24 * time.Hour,
		SessionIdle:   30 * time.Minute,
		CleanupPeriod: time.Minute,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.ValidationPolicy() != orchestrator.Advisory {
		t.Fatalf("policy = %v", cfg.ValidationPolicy())
	}
}

func TestFromMapOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromMap(map[string]string{
		"DOCWIZARD_CATALOG":      "docs.yaml",
		"DOCWIZARD_ADDR":         "127.0.0.1:9000",
		"DOCWIZARD_POLICY":       "blocking",
		"DOCWIZARD_LOG_LEVEL":    "debug",
		"DOCWIZARD_SESSION_IDLE": "5m",
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.SessionIdle != 5*time.Minute {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.ValidationPolicy() != orchestrator.Blocking {
		t.Fatalf("policy = %v", cfg.ValidationPolicy())
	}
	if cfg.Logger().GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v", cfg.Logger().GetLevel())
	}
}

func TestFromMapErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]map[string]string{
		"missing catalog": {},
		"bad policy":      {"DOCWIZARD_CATALOG": "c.json", "DOCWIZARD_POLICY": "strict"},
		"bad duration":    {"DOCWIZARD_CATALOG": "c.json", "DOCWIZARD_SESSION_IDLE": "soon"},
		"zero cleanup":    {"DOCWIZARD_CATALOG": "c.json", "DOCWIZARD_CLEANUP_PERIOD": "0s"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := config.FromMap(vars); err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("err = %v, want config error", err)
			}
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DOCWIZARD_CATALOG=from-file.json\nDOCWIZARD_ADDR=:7070\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("DOCWIZARD_ADDR", ":9090")
	t.Setenv("DOCWIZARD_CATALOG", "")
	os.Unsetenv("DOCWIZARD_CATALOG")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogPath != "from-file.json" {
		t.Fatalf("catalog = %q", cfg.CatalogPath)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr = %q, process env should win", cfg.Addr)
	}
}

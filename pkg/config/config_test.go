package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
environment: test
server:
  port: 9090
deriv:
  websocket_url: wss://ws.derivws.com/websockets/v3
  app_id: "1089"
  symbols: [frxEURUSD, frxGBPUSD]
store:
  max_points: 200
aliases:
  EURUSD_OTC: frxEURUSD
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("unexpected port %d", c.Server.Port)
	}
	if c.Store.MaxPoints != 200 {
		t.Fatalf("unexpected max_points %d", c.Store.MaxPoints)
	}
	if c.Aliases["EURUSD_OTC"] != "frxEURUSD" {
		t.Fatalf("aliases not parsed: %v", c.Aliases)
	}
	// defaults applied
	if c.Deriv.PingInterval != 30*time.Second {
		t.Fatalf("expected default ping interval, got %v", c.Deriv.PingInterval)
	}
	if c.Logging.Level != "info" {
		t.Fatalf("expected default log level, got %q", c.Logging.Level)
	}
}

func TestLoadMissingURL(t *testing.T) {
	body := "environment: test\nderiv:\n  app_id: \"1089\"\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected validation error for missing websocket_url")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DERIV_TOKEN", "tok-123")
	t.Setenv("SYMBOLS", "frxAUDUSD,frxUSDJPY")

	c, err := LoadWithEnv(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Deriv.Token != "tok-123" {
		t.Fatalf("token override not applied")
	}
	if len(c.Deriv.Symbols) != 2 || c.Deriv.Symbols[0] != "frxAUDUSD" {
		t.Fatalf("symbols override not applied: %v", c.Deriv.Symbols)
	}
}

/*-------------------------------------------------------------------------
 *
 * config_test.go
 *    Tests for configuration loading and validation
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/config/config_test.go
 *
 *-------------------------------------------------------------------------
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigAppliesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
  auth_token: secret
agent:
  proposal_ttl: 10m
  max_tool_iterations: 3
llm:
  model: gpt-4o-mini
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.AuthToken != "secret" {
		t.Errorf("auth_token = %q", cfg.Server.AuthToken)
	}
	if cfg.Agent.ProposalTTL != 10*time.Minute {
		t.Errorf("proposal_ttl = %s, want 10m", cfg.Agent.ProposalTTL)
	}
	if cfg.Agent.MaxToolIterations != 3 {
		t.Errorf("max_tool_iterations = %d, want 3", cfg.Agent.MaxToolIterations)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}

	/* Untouched sections keep their defaults */
	if cfg.Database.Port != 5432 {
		t.Errorf("database port = %d, want default 5432", cfg.Database.Port)
	}
	if cfg.Agent.SweepInterval != 60*time.Second {
		t.Errorf("sweep_interval = %s, want default 60s", cfg.Agent.SweepInterval)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("NEURONHR_SERVER_PORT", "7070")
	t.Setenv("NEURONHR_DB_PASSWORD", "pw")
	t.Setenv("NEURONHR_PROPOSAL_TTL", "15m")
	t.Setenv("NEURONHR_TOOL_CALLING_ENABLED", "false")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Database.Password != "pw" {
		t.Errorf("password = %q", cfg.Database.Password)
	}
	if cfg.Agent.ProposalTTL != 15*time.Minute {
		t.Errorf("proposal_ttl = %s, want 15m", cfg.Agent.ProposalTTL)
	}
	if cfg.Agent.ToolCallingEnabled {
		t.Error("tool calling should be disabled")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"zero ttl", func(c *Config) { c.Agent.ProposalTTL = 0 }},
		{"zero iterations", func(c *Config) { c.Agent.MaxToolIterations = 0 }},
		{"zero sweep interval", func(c *Config) { c.Agent.SweepInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConnString(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "hr", Password: "pw", Database: "neuronhr"}
	want := "host=db port=5432 user=hr password=pw dbname=neuronhr sslmode=disable"
	if got := d.ConnString(); got != want {
		t.Errorf("conn string = %q, want %q", got, want)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultGenerateConfig(t *testing.T) {
	cfg := DefaultGenerateConfig()

	if cfg.Type != "person" {
		t.Errorf("Type = %v, want person", cfg.Type)
	}
	if cfg.Count != 5 {
		t.Errorf("Count = %v, want 5", cfg.Count)
	}
	if cfg.MaxCount != 10000 {
		t.Errorf("MaxCount = %v, want 10000", cfg.MaxCount)
	}
	if cfg.Strict {
		t.Errorf("Strict = %v, want false", cfg.Strict)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Count != 5 || cfg.Type != "person" || len(cfg.Rules) != 0 {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_YAMLWithRules(t *testing.T) {
	path := writeConfig(t, "dtogen.yaml", `generate:
  type: order
  count: 12
  strict: true
log:
  level: debug
  format: json
rules:
  - label: number-orders
    type: order
    edits:
      - op: increment
        path: customer
        base: customer-
  - label: big-every-third
    type: order
    edits:
      - op: set
        path: total
        value: 999.5
    where:
      - op: every
        index: 3
      - join: and_not
        op: value_in
        path: status
        values: [CANCELLED, REFUNDED]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Type != "order" || cfg.Count != 12 || !cfg.Strict {
		t.Errorf("generate = %+v, want order/12/strict", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("len(Rules) = %v, want 2", len(cfg.Rules))
	}

	r := cfg.Rules[1]
	if r.Label != "big-every-third" || r.Edits[0].Op != "set" || r.Edits[0].Value != 999.5 {
		t.Errorf("Rules[1] = %+v", r)
	}
	if len(r.Where) != 2 || r.Where[0].Index != 3 || r.Where[1].Join != "and_not" {
		t.Errorf("Rules[1].Where = %+v", r.Where)
	}
	if len(r.Where[1].Values) != 2 || r.Where[1].Values[0] != "CANCELLED" {
		t.Errorf("Rules[1].Where[1].Values = %v", r.Where[1].Values)
	}
	if got := len(cfg.RulesFor("order")); got != 2 {
		t.Errorf("RulesFor(order) = %v rules, want 2", got)
	}
	if got := len(cfg.RulesFor("person")); got != 0 {
		t.Errorf("RulesFor(person) = %v rules, want 0", got)
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "dtogen.json", `{"generate": {"count": 3}, "rules": [{"type": "person", "edits": [{"op": "add", "path": "age", "value": 1}]}]}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Count != 3 || len(cfg.Rules) != 1 || cfg.Rules[0].Edits[0].Path != "age" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
}

func TestLoadConfig_Store(t *testing.T) {
	path := writeConfig(t, "dtogen.toml", "[store]\nurl = \"sqlite://fixtures.db\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Store.URL != "sqlite://fixtures.db" {
		t.Errorf("Store.URL = %q, want %q", cfg.Store.URL, "sqlite://fixtures.db")
	}

	t.Setenv("DTOGEN_STORE_URL", "postgres://localhost/fixtures")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Store.URL != "postgres://localhost/fixtures" {
		t.Errorf("Store.URL = %q, want env override", cfg.Store.URL)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "zero count", content: "generate:\n  count: 0\n", wantErr: "generate.count"},
		{name: "count above max", content: "generate:\n  count: 20\n  max_count: 10\n", wantErr: "between 1 and 10"},
		{name: "negative max", content: "generate:\n  max_count: -1\n", wantErr: "generate.max_count"},
		{name: "bad log format", content: "log:\n  format: xml\n", wantErr: "log.format"},
		{name: "bad store url", content: "store:\n  url: mysql://localhost/db\n", wantErr: "store.url"},
		{name: "rule without type", content: "rules:\n  - label: x\n    edits:\n      - op: set\n        path: name\n", wantErr: "type is required"},
		{name: "rule without edits", content: "rules:\n  - label: x\n    type: person\n", wantErr: "at least one edit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "c.yaml", tt.content))
			if err == nil {
				t.Fatalf("LoadConfig() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("LoadConfig() error = %v, want read failure", err)
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kompox/shipyard/domain/model"
)

// run executes the root command against a private in-process database.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db-url", "memory:" + t.Name(), "--log-output", "none"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "shipyard version ") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestEnvironmentLifecycle(t *testing.T) {
	if _, err := run(t, "environment", "create", "staging"); err != nil {
		t.Fatalf("create: %v", err)
	}
	out, err := run(t, "env", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var env model.Environment
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &env); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if env.Name != "staging" {
		t.Errorf("name = %q", env.Name)
	}

	if _, err := run(t, "env", "rename", "staging", "stage"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := run(t, "env", "get", "staging"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("get old name: want not found, got %v", err)
	}
	if _, err := run(t, "env", "delete", "stage"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestSettingsValueIsYAML(t *testing.T) {
	if _, err := run(t, "env", "create", "prod"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := run(t, "settings", "--env", "prod", "set", "replicas", "3"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, "settings", "-e", "prod", "get", "replicas")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var s model.Setting
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if v, ok := s.Value.(float64); !ok || v != 3 {
		t.Errorf("value = %#v, want number 3", s.Value)
	}
}

func TestExitCodes(t *testing.T) {
	_, err := run(t, "env", "create", "Not_Valid")
	if got := exitCode(err); got != 2 {
		t.Errorf("invalid name: exit %d, err %v", got, err)
	}
	_, err = run(t, "app", "get", "missing")
	if got := exitCode(err); got != 3 {
		t.Errorf("missing app: exit %d, err %v", got, err)
	}
	if got := exitCode(ExitCodeError{Code: 42}); got != 42 {
		t.Errorf("exec exit: %d", got)
	}
}

func TestTemplateSeedAndPreview(t *testing.T) {
	out, err := run(t, "db", "init")
	if err != nil {
		t.Fatalf("db init: %v", err)
	}
	if !strings.Contains(out, "9 templates created") {
		t.Errorf("db init output %q", out)
	}

	dir := t.TempDir()
	vars := filepath.Join(dir, "vars.yml")
	content := "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: \"{{ .name }}\"\n  namespace: demo\n"
	spec := filepath.Join(dir, "tmpl.yml")
	if err := os.WriteFile(filepath.Join(dir, "cm.yaml.tmpl"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(spec, []byte("name: config-map\ncontentFile: cm.yaml.tmpl\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(vars, []byte("name: settings\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "template", "create", "-f", spec); err != nil {
		t.Fatalf("create: %v", err)
	}
	out, err = run(t, "template", "preview", "config-map", "-f", vars)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "name: settings") || !strings.Contains(out, "kind: ConfigMap") {
		t.Errorf("preview output %q", out)
	}
}

func TestDashboardCommand(t *testing.T) {
	if _, err := run(t, "env", "create", "prod"); err != nil {
		t.Fatalf("create env: %v", err)
	}
	if _, err := run(t, "app", "create", "shop"); err != nil {
		t.Fatalf("create app: %v", err)
	}
	out, err := run(t, "dashboard", "--json")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	var got struct {
		Applications int `json:"applications"`
		Environments int `json:"environments"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Applications != 1 || got.Environments != 1 {
		t.Errorf("dashboard = %+v", got)
	}
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"inspira/internal/config"
	"inspira/internal/project"
	"inspira/internal/testsupport"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Starter configuration written")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateReportsLoadedFile(t *testing.T) {
	t.Setenv("AUDIO_DIR", "")
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	out, err := runCLI(t, "--config", configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path:  "+configPath)
	requireContains(t, out, "Projects dir: "+cfg.Paths.ProjectsDir)
	requireContains(t, out, "Configuration valid")
}

func TestProjectCommands(t *testing.T) {
	t.Setenv("AUDIO_DIR", "")
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	store := testsupport.MustOpenStore(t, cfg)
	proj, err := store.Create(context.Background(), "manha-luz", "Deixe a luz da manhã te guiar.", "")
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if err := store.SetStatus(context.Background(), proj.ID, project.StatusVoiced); err != nil {
		t.Fatalf("set status: %v", err)
	}

	out, err := runCLI(t, "--config", configPath, "projects")
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	requireContains(t, out, "manha-luz")
	requireContains(t, out, "voiced")

	out, err = runCLI(t, "--config", configPath, "projects", "--status", "failed")
	if err != nil {
		t.Fatalf("projects --status failed: %v", err)
	}
	requireContains(t, out, "No projects")

	if _, err = runCLI(t, "--config", configPath, "projects", "--status", "bogus"); err == nil {
		t.Fatal("expected error for unknown status filter")
	}

	out, err = runCLI(t, "--config", configPath, "show", "manha-luz")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Slug:        manha-luz")
	requireContains(t, out, "Deixe a luz da manhã te guiar.")

	if _, err = runCLI(t, "--config", configPath, "show", "missing"); err == nil {
		t.Fatal("expected error for unknown slug")
	}

	out, err = runCLI(t, "--config", configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "voiced")
	requireContains(t, out, "Total: 1")

	out, err = runCLI(t, "--config", configPath, "remove", "manha-luz")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	requireContains(t, out, "removed")

	out, err = runCLI(t, "--config", configPath, "remove", "manha-luz")
	if err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	requireContains(t, out, "not found")
}

func TestProjectsJSON(t *testing.T) {
	t.Setenv("AUDIO_DIR", "")
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	store := testsupport.MustOpenStore(t, cfg)
	if _, err := store.Create(context.Background(), "gratidao", "A gratidão transforma o dia.", ""); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	out, err := runCLI(t, "--config", configPath, "projects", "--json")
	if err != nil {
		t.Fatalf("projects --json: %v", err)
	}
	requireContains(t, out, `"slug": "gratidao"`)
	requireContains(t, out, `"status": "pending"`)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the command tree with the given args and returns stdout.
func runCLI(t *testing.T, args []string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, []string{"config", "init", "--path", target})
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber the file.
	if _, err := runCLI(t, []string{"config", "init", "--path", target}); err == nil {
		t.Fatal("expected error for existing config file")
	}
	if _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestSyncRejectsUnknownLanguageFlag(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RADARR_API_KEY", "key")

	configPath := filepath.Join(home, "config.toml")
	contents := "[radarr]\nurl = \"http://127.0.0.1:7878\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := runCLI(t, []string{"sync", "--config", configPath, "--lang", "klingon", "--dry-run"})
	if err == nil {
		t.Fatal("expected error for unknown language")
	}
	if !strings.Contains(err.Error(), "klingon") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRootRequiresValidConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RADARR_API_KEY", "")

	_, err := runCLI(t, []string{"search", "vikram"})
	if err == nil {
		t.Fatal("expected config validation error without radarr settings")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Title", "Year"},
		[][]string{{"Vikram", "2022"}, {"Maharaja"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	requireContains(t, out, "Vikram")
	requireContains(t, out, "Maharaja")
	requireContains(t, out, "2022")
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	logDir     string
	ruleFile   string
	binary     string
}

// setupCLITestEnv isolates HOME, writes a stub engine binary that replays the
// given output lines, and writes a config file pointing at both.
func setupCLITestEnv(t *testing.T, engineLines []string, engineExit int) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	logDir := filepath.Join(base, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}

	ruleFile := filepath.Join(base, "rules.yaml")
	if err := os.WriteFile(ruleFile, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatalf("write rule file: %v", err)
	}

	binary := writeStubEngine(t, base, engineLines, engineExit)

	configPath := filepath.Join(homeDir, ".config", "curator", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(
		"[organizer]\nbinary = %q\nrule_file = %q\n\n[paths]\nlog_dir = %q\n",
		binary, ruleFile, logDir,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		logDir:     logDir,
		ruleFile:   ruleFile,
		binary:     binary,
	}
}

// writeStubEngine creates a shell script that prints the given lines and
// exits with the given code, standing in for the organize binary.
func writeStubEngine(t *testing.T, dir string, lines []string, exit int) string {
	t.Helper()
	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	for _, line := range lines {
		fmt.Fprintf(&script, "echo '%s'\n", line)
	}
	fmt.Fprintf(&script, "exit %d\n", exit)

	path := filepath.Join(dir, "organize-stub")
	if err := os.WriteFile(path, []byte(script.String()), 0o755); err != nil {
		t.Fatalf("write stub engine: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

package main

import (
	"strings"
	"testing"
)

func TestSimCommandStreamsAndRecords(t *testing.T) {
	env := setupCLITestEnv(t, []string{
		`Rule "Tidy Downloads"`,
		`MOVE /downloads/report.pdf -> /documents/report.pdf`,
		`echo: done sorting`,
	}, 0)

	out, _, err := runCLI(t, []string{"sim"}, env.configPath)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	requireContains(t, out, "MOVE")
	requireContains(t, out, "/downloads/report.pdf -> /documents/report.pdf")
	requireContains(t, out, "Tidy Downloads")
	requireContains(t, out, "completed")
	requireContains(t, out, "simulation, no files were changed")

	// The run must be visible in history afterwards.
	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "sim")
	requireContains(t, out, "completed")
}

func TestRunCommandFailsOnEngineError(t *testing.T) {
	env := setupCLITestEnv(t, []string{
		`ERROR: permission denied for /secure/file.txt`,
	}, 3)

	out, _, err := runCLI(t, []string{"run", "--yes"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure for non-zero engine exit")
	}
	if !strings.Contains(err.Error(), "exit code 3") {
		t.Fatalf("unexpected error: %v", err)
	}
	requireContains(t, out, "ERROR")
	requireContains(t, out, "permission denied")
}

func TestRunCommandRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t, []string{`echo: hi`}, 0)

	// Empty stdin means the prompt reads EOF and the run is aborted.
	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run without confirmation: %v", err)
	}
	requireContains(t, out, "Aborted")

	// History must not contain an executed run.
	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")
}

func TestSimCommandRejectsMissingRuleFile(t *testing.T) {
	env := setupCLITestEnv(t, []string{`echo: hi`}, 0)

	_, _, err := runCLI(t, []string{"sim", "/nonexistent/rules.yaml"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing rule file")
	}
	if !strings.Contains(err.Error(), "inspect rule file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHistoryShowAbbreviatedID(t *testing.T) {
	env := setupCLITestEnv(t, []string{
		`Rule "Tidy"`,
		`MOVE /a.txt -> /b/a.txt`,
	}, 0)

	if _, _, err := runCLI(t, []string{"sim"}, env.configPath); err != nil {
		t.Fatalf("sim: %v", err)
	}

	listOut, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	shortID := extractRunID(t, listOut)

	out, _, err := runCLI(t, []string{"history", "show", shortID}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Mode:      sim")
	requireContains(t, out, "/a.txt -> /b/a.txt")
}

// extractRunID pulls the first 8-hex-digit run id out of the list table.
func extractRunID(t *testing.T, listOutput string) string {
	t.Helper()
	for _, field := range strings.FieldsFunc(listOutput, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '│' || r == '|'
	}) {
		if len(field) == 8 && isHex(field) {
			return field
		}
	}
	t.Fatalf("no run id found in output:\n%s", listOutput)
	return ""
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/dayly/internal/schedule"
	"github.com/sandeepkv93/dayly/internal/storage"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "storage:\n" +
		"  backend: file\n" +
		"  path: " + filepath.Join(dir, "state.json") + "\n" +
		"log:\n" +
		"  level: error\n"
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestListSeedsDefaultSchedule(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Morning Gym", "Team Standup", "Project Work", "Reading", "1/4 done (25%)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestAddKeepsScheduleSortedAndRejectsOverlap(t *testing.T) {
	cfg := writeConfig(t)

	if _, err := execute(t, cfg, "add", "Lunch", "with", "team", "12:00-13:00"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := execute(t, cfg, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "3\t[ ]") || !strings.Contains(out, "Lunch with team") {
		t.Fatalf("expected lunch at position 3:\n%s", out)
	}

	_, err = execute(t, cfg, "add", "Clash", "06:30", "07:30")
	if !errors.Is(err, schedule.ErrOverlap) {
		t.Fatalf("expected overlap error, got %v", err)
	}
}

func TestDoneUndoAndRemoveByPosition(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "done", "1")
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	if !strings.Contains(out, "2/4 done") {
		t.Fatalf("unexpected done output %q", out)
	}
	if out, err = execute(t, cfg, "undo", "2"); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !strings.Contains(out, "1/4 done") {
		t.Fatalf("unexpected undo output %q", out)
	}
	if _, err = execute(t, cfg, "remove", "4"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	out, err = execute(t, cfg, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "Reading") || !strings.Contains(out, "1/3 done") {
		t.Fatalf("unexpected list after remove:\n%s", out)
	}

	if _, err = execute(t, cfg, "done", "9"); err == nil {
		t.Fatal("expected out of range target to fail")
	}
}

func TestSummaryPrintsNotificationBody(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if strings.TrimSpace(out) != "Completed 25% • Missed 3 tasks" {
		t.Fatalf("unexpected summary %q", out)
	}
}

func TestExportFormats(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "export", "--format", "yaml")
	if err != nil {
		t.Fatalf("export yaml: %v", err)
	}
	if !strings.Contains(out, "title: Morning Gym") {
		t.Fatalf("unexpected yaml export:\n%s", out)
	}

	out, err = execute(t, cfg, "export")
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	items, err := storage.UnmarshalActivities(storage.FormatJSON, []byte(out))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 exported activities, got %d", len(items))
	}

	if _, err = execute(t, cfg, "export", "--format", "xml"); !errors.Is(err, storage.ErrUnknownFormat) {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

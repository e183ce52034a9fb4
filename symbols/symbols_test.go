package symbols

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "symbols.yml",
		"greeting: bar\nanswer: 42\n")

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if table["greeting"] != "bar" {
		t.Errorf("greeting = %v", table["greeting"])
	}

	if _, ok := table["answer"]; !ok {
		t.Error("answer missing")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yml"))
	if !errors.Is(err, ErrLoadSymbols) {
		t.Fatalf("expected ErrLoadSymbols, got %v", err)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause must be preserved, got %v", err)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yml", "greeting: [unclosed\n")

	_, err := LoadFile(path)
	if !errors.Is(err, ErrLoadSymbols) {
		t.Fatalf("expected ErrLoadSymbols, got %v", err)
	}
}

func TestLoad_MergesInOrder(t *testing.T) {
	dir := t.TempDir()

	first := writeFile(t, dir, "first.yml", "a: 1\nshared: first\n")
	second := writeFile(t, dir, "second.yml", "b: 2\nshared: second\n")

	t.Setenv(EnvVar, strings.Join(
		[]string{first, second},
		string(filepath.ListSeparator),
	))

	table, err := Load("testapp")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if table["shared"] != "second" {
		t.Errorf("later files must override earlier: %v", table["shared"])
	}

	if _, ok := table["a"]; !ok {
		t.Error("first file not merged")
	}

	if _, ok := table["b"]; !ok {
		t.Error("second file not merged")
	}
}

func TestLoad_ExplicitMissingFails(t *testing.T) {
	t.Setenv(EnvVar, filepath.Join(t.TempDir(), "absent.yml"))

	_, err := Load("testapp")
	if err == nil {
		t.Fatal("an explicitly listed missing file must fail the load")
	}
}

func TestLoad_DefaultMissingTolerated(t *testing.T) {
	// With no explicit configuration the default file is optional.
	t.Setenv(EnvVar, "")
	os.Unsetenv(EnvVar)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	table, err := Load("testapp")
	if err != nil {
		t.Fatalf("missing default must be tolerated: %v", err)
	}

	if len(table) != 0 {
		t.Errorf("expected an empty table, got %v", table)
	}
}

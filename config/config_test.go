package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Assembler.MaxIncludeDepth != 32 {
		t.Errorf("MaxIncludeDepth = %d, want 32", cfg.Assembler.MaxIncludeDepth)
	}
	if !cfg.Lint.WarnUnusedSymbols {
		t.Error("WarnUnusedSymbols should default true")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatal("missing config file should return Default()")
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatal("empty path should return Default()")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "z80asm.toml")
	const toml = `
[assembler]
search_paths = ["lib"]
max_include_depth = 8

[vdc]
[vdc.initial_registers]
h_total = 99
h_displayed = 80

[format]
indent_width = 2
`
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Assembler.MaxIncludeDepth != 8 {
		t.Errorf("MaxIncludeDepth = %d, want 8", cfg.Assembler.MaxIncludeDepth)
	}
	if len(cfg.Assembler.SearchPaths) != 1 || cfg.Assembler.SearchPaths[0] != "lib" {
		t.Errorf("got search paths %v", cfg.Assembler.SearchPaths)
	}
	if cfg.VDC.InitialRegisters["h_total"] != 99 {
		t.Errorf("got h_total = %d, want 99", cfg.VDC.InitialRegisters["h_total"])
	}
	if cfg.Format.IndentWidth != 2 {
		t.Errorf("IndentWidth = %d, want 2", cfg.Format.IndentWidth)
	}
}

func TestDefaultPathNotEmpty(t *testing.T) {
	if DefaultPath() == "" {
		t.Fatal("DefaultPath must never return an empty string")
	}
}

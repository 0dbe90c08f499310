package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration for the assembler CLI and its
// companion tools, loaded from a TOML file.
type Config struct {
	Assembler AssemblerConfig `toml:"assembler"`
	VDC       VDCConfig       `toml:"vdc"`
	Format    FormatConfig    `toml:"format"`
	Lint      LintConfig      `toml:"lint"`
}

type AssemblerConfig struct {
	SearchPaths  []string `toml:"search_paths"`
	MaxIncludeDepth int   `toml:"max_include_depth"`
	MaxMacroDepth   int   `toml:"max_macro_depth"`
}

// VDCConfig seeds a vdc.Vdc's register file before a test harness or the
// inspector starts feeding it real register writes, useful for exercising
// the raster state machine without a full boot sequence.
type VDCConfig struct {
	InitialRegisters map[string]int `toml:"initial_registers"`
	SnapshotPath     string         `toml:"snapshot_path"`
}

type FormatConfig struct {
	IndentWidth   int  `toml:"indent_width"`
	AlignComments bool `toml:"align_comments"`
	ColumnWidth   int  `toml:"column_width"`
}

type LintConfig struct {
	WarnUnusedSymbols bool `toml:"warn_unused_symbols"`
	WarnShadowedLabels bool `toml:"warn_shadowed_labels"`
}

// Default returns the configuration used when no config file is found or
// given.
func Default() Config {
	return Config{
		Assembler: AssemblerConfig{
			MaxIncludeDepth: 32,
			MaxMacroDepth:   64,
		},
		Format: FormatConfig{
			IndentWidth: 4,
			ColumnWidth: 40,
		},
		Lint: LintConfig{
			WarnUnusedSymbols: true,
		},
	}
}

// Load reads and merges a TOML config file over Default's values. A
// missing file at path is not an error: Load returns Default() as-is, the
// same way the assembler runs fine with no config file present at all.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns the platform-conventional location for a user
// config file, mirroring the teacher's GetConfigPath split on GOOS.
func DefaultPath() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
	case "darwin":
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			dir = xdg
		} else {
			home, _ := os.UserHomeDir()
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, "z80asm", "config.toml")
}

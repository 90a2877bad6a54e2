// Package config loads the interpreter's optional project overlay: a
// nox.toml found by walking up from the current directory, the same
// way the pack's project-manifest lookup works, but for the handful
// of settings this interpreter actually exposes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the tunables nox.toml may override. Zero values mean
// "use the VM's hard-coded default" — see internal/vm.New.
type Config struct {
	VM VMConfig `toml:"vm"`
}

type VMConfig struct {
	// FramesMax overrides the call-stack depth limit (default 64).
	FramesMax int `toml:"frames_max"`
	// Disassemble, if true, dumps each compiled chunk's disassembly to
	// stderr before running it.
	Disassemble bool `toml:"disassemble"`
}

// Load walks up from dir looking for nox.toml, the way the pack's
// project-manifest lookup does for its own config file. Finding none
// is not an error — it just means every default applies.
func Load(dir string) (Config, error) {
	var cfg Config
	path, ok, err := find(dir)
	if err != nil || !ok {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("nox.toml: %w", err)
	}
	return cfg, nil
}

func find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "nox.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

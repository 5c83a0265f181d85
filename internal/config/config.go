// Package config resolves the compiler's ambient configuration: the
// module search path used to locate imports (spec §6) and a small set of
// project-wide defaults, loaded in increasing priority from an optional
// loop.yaml file, then environment variables, then (by the caller,
// cmd/loopc) CLI flags — the same layered-override shape the teacher's
// own internal/maincmd applies to CLI flags alone, extended here with a
// config file and env vars beneath it.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// FileName is the optional project config file that Load looks for in the
// directory it is given.
const FileName = "loop.yaml"

// Config holds the resolved ambient settings for one compiler
// invocation. Fields are tagged for both loop.yaml (yaml) and
// environment-variable (env) sources; CLI flags, parsed by cmd/loopc via
// mna/mainer, take priority over both and are applied by the caller after
// Load returns.
type Config struct {
	// PackagesPath is an additional static search-path entry, the
	// loop.yaml equivalent of LOOP_PACKAGES_PATH.
	PackagesPath string `yaml:"packages_path" env:"LOOP_PACKAGES_PATH"`
	// Verbose enables note-level diagnostics in addition to errors. No
	// envDefault tag: a default would reapply on every Load and clobber a
	// loop.yaml-set true whenever LOOP_VERBOSE is merely unset.
	Verbose bool `yaml:"verbose" env:"LOOP_VERBOSE"`
}

// Load builds a Config by reading loop.yaml (if present in dir) and then
// overlaying environment variables on top of it. A missing loop.yaml is
// not an error; a malformed one is.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	path := dir
	if path == "" {
		path = "."
	}
	yamlPath := path + string(os.PathSeparator) + FileName

	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", yamlPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: reading %s: %w", yamlPath, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: reading environment: %w", err)
	}

	return cfg, nil
}

// SearchPaths returns the ordered list of directories the resolver should
// try when locating an imported module's source file, per spec §6: ""
// (CWD-relative) first, then cfg.PackagesPath if it resolved to a
// non-empty value (whether from loop.yaml or LOOP_PACKAGES_PATH).
func (c *Config) SearchPaths() []string {
	paths := []string{""}
	if c.PackagesPath != "" {
		paths = append(paths, c.PackagesPath)
	}
	return paths
}

/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package config loads dxmatch settings.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults (Default)
//  2. an optional YAML file
//  3. a .env file in the working directory, if present
//  4. DXMATCH_* environment variables
//
// A .env file never overrides variables already set in the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"dirpx.dev/dxmatch/dxcore/tool"
	"dirpx.dev/dxmatch/dxcore/walker"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when Load is given no explicit path and it exists.
const DefaultFile = "dxmatch.yaml"

// Config holds every dxmatch setting. Relative directories are resolved
// against Root.
type Config struct {
	// Root is the data directory holding versions/, libraries/ and the
	// matches directory.
	Root string `yaml:"root"`

	// CatalogDir is the version catalog data directory.
	CatalogDir string `yaml:"catalog_dir"`

	// MatchesDir holds the match records.
	MatchesDir string `yaml:"matches_dir"`

	// CurrentFile names the most recently created match. Empty disables it.
	CurrentFile string `yaml:"current_file"`

	// JavaHome selects $JAVA_HOME/bin/java. Empty means java on PATH.
	JavaHome string `yaml:"java_home"`

	// Merger is the jar merge tool.
	Merger MergerConfig `yaml:"merger"`

	// Roots are the versions the walk starts from.
	Roots []string `yaml:"roots"`

	// Concurrency bounds parallel downloads.
	Concurrency int `yaml:"concurrency"`

	// CacheSize bounds each catalog document cache.
	CacheSize int `yaml:"cache_size"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// MergerConfig locates the merge tool in a Maven repository.
type MergerConfig struct {
	Maven       string `yaml:"maven"`
	Coordinates string `yaml:"coordinates"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Root:        ".",
		CatalogDir:  filepath.Join("mc-versions", "data"),
		MatchesDir:  "matches",
		CurrentFile: "current.txt",
		Merger: MergerConfig{
			Maven:       tool.DefaultMerger.Maven,
			Coordinates: tool.DefaultMerger.String(),
		},
		Roots:       slices.Clone(walker.DefaultRoots),
		Concurrency: 8,
		CacheSize:   1024,
		LogLevel:    "info",
	}
}

// Load builds the configuration. An explicit path must exist; with an empty
// path DefaultFile is used when present.
func Load(path string) (Config, error) {
	cfg := Default()

	file, explicit := path, path != ""
	if !explicit {
		file = DefaultFile
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", file, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Root, "DXMATCH_ROOT")
	setString(&c.CatalogDir, "DXMATCH_CATALOG_DIR")
	setString(&c.MatchesDir, "DXMATCH_MATCHES_DIR")
	setString(&c.CurrentFile, "DXMATCH_CURRENT_FILE")
	setString(&c.Merger.Maven, "DXMATCH_MERGER_MAVEN")
	setString(&c.Merger.Coordinates, "DXMATCH_MERGER")
	setString(&c.LogLevel, "DXMATCH_LOG_LEVEL")

	c.JavaHome = firstNonEmpty(env("DXMATCH_JAVA_HOME"), c.JavaHome, env("JAVA_HOME"))

	if raw := env("DXMATCH_ROOTS"); raw != "" {
		c.Roots = splitList(raw)
	}
	for name, dst := range map[string]*int{
		"DXMATCH_CONCURRENCY": &c.Concurrency,
		"DXMATCH_CACHE_SIZE":  &c.CacheSize,
	} {
		raw := env(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Root == "":
		return errors.New("config: root must not be empty")
	case c.CatalogDir == "":
		return errors.New("config: catalog_dir must not be empty")
	case c.MatchesDir == "":
		return errors.New("config: matches_dir must not be empty")
	case len(c.Roots) == 0:
		return errors.New("config: at least one walk root is required")
	case c.Concurrency <= 0:
		return fmt.Errorf("config: concurrency must be positive, got %d", c.Concurrency)
	case c.CacheSize <= 0:
		return fmt.Errorf("config: cache_size must be positive, got %d", c.CacheSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.MergeTool(); err != nil {
		return err
	}
	return nil
}

// Path resolves p against Root unless it is absolute.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}

// MergeTool returns the configured merge tool.
func (c Config) MergeTool() (tool.Tool, error) {
	return tool.ParseTool(c.Merger.Maven, c.Merger.Coordinates)
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func setString(dst *string, name string) {
	if v := env(name); v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

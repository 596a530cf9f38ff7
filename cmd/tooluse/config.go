package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	ui "github.com/mutablelogic/go-tooluse/pkg/ui"
	yaml "gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Config is read from a YAML file. Zero values are filled from flags and
// then from the defaults. MaxIterations is a pointer so an explicit zero,
// which means no limit, is kept.
type Config struct {
	Provider      string                  `yaml:"provider"`
	System        string                  `yaml:"system"`
	Generation    schema.GenerationConfig `yaml:",inline"`
	Attempts      uint                    `yaml:"attempts"`
	Timeout       time.Duration           `yaml:"timeout"`
	MaxIterations *uint                   `yaml:"max_iterations"`
	Sentinel      string                  `yaml:"sentinel"`
	ResearchFile  string                  `yaml:"research_file"`
	Database      string                  `yaml:"database"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	configDir  = "tooluse"
	configFile = "config.yaml"
)

// defaults are used for anything not set by a flag or the config file
var defaults = Config{
	Generation: schema.GenerationConfig{
		MaxOutputTokens: 4096,
	},
	Attempts:      3,
	Timeout:       2 * time.Minute,
	MaxIterations: types.Ptr(uint(10)),
	Sentinel:      ui.DefaultSentinel,
	ResearchFile:  "research.md",
	Database:      ":memory:",
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// LoadConfig reads the file at path. When path is empty the file in the user
// config directory is read if it exists.
func LoadConfig(path string) (Config, error) {
	var config Config
	explicit := path != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return config, nil
		}
		path = filepath.Join(dir, configDir, configFile)
	}

	r, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return config, nil
	} else if err != nil {
		return config, err
	}
	defer r.Close()

	if err := decodeConfig(r, &config); err != nil {
		return config, tooluse.ErrBadParameter.Withf("%s: %v", path, err)
	}
	return config, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Merge returns a copy of c with unset fields replaced by those in other
func (c Config) Merge(other Config) Config {
	if c.Provider == "" {
		c.Provider = other.Provider
	}
	if c.System == "" {
		c.System = other.System
	}
	c.Generation = c.Generation.Merge(other.Generation)
	if c.Attempts == 0 {
		c.Attempts = other.Attempts
	}
	if c.Timeout == 0 {
		c.Timeout = other.Timeout
	}
	if c.MaxIterations == nil {
		c.MaxIterations = other.MaxIterations
	}
	if c.Sentinel == "" {
		c.Sentinel = other.Sentinel
	}
	if c.ResearchFile == "" {
		c.ResearchFile = other.ResearchFile
	}
	if c.Database == "" {
		c.Database = other.Database
	}
	return c
}

// Validate checks the generation config and timeout
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return tooluse.ErrBadParameter.With("timeout cannot be negative")
	}
	if err := c.Generation.Validate(); err != nil {
		return tooluse.ErrBadParameter.Wrap(err)
	}
	return nil
}

func (c Config) String() string {
	return types.Stringify(c)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c Config) maxIterations() uint {
	if c.MaxIterations == nil {
		return 0
	}
	return *c.MaxIterations
}

func decodeConfig(r io.Reader, config *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

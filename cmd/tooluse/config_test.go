package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_config_001(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: openai
model: gpt-4o-mini
temperature: 0.2
max_output_tokens: 512
attempts: 5
timeout: 30s
sentinel: quit
`), 0600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal("openai", config.Provider)
	assert.Equal("gpt-4o-mini", config.Generation.Model)
	assert.Equal(uint(512), config.Generation.MaxOutputTokens)
	if assert.NotNil(config.Generation.Temperature) {
		assert.Equal(0.2, *config.Generation.Temperature)
	}
	assert.Equal(uint(5), config.Attempts)
	assert.Equal(30*time.Second, config.Timeout)
	assert.Equal("quit", config.Sentinel)
}

func Test_config_002(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	// An explicit path must exist
	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(err)

	// Unknown keys are rejected
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colour: blue\n"), 0600))
	_, err = LoadConfig(path)
	assert.ErrorIs(err, tooluse.ErrBadParameter)

	// An empty file is an empty config
	path = filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0600))
	config, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal(Config{}, config)
}

func Test_config_003(t *testing.T) {
	assert := assert.New(t)
	flags := Config{Provider: "stub", Generation: schema.GenerationConfig{Temperature: types.Ptr(0.0)}}
	file := Config{Provider: "anthropic", System: "Be brief", Attempts: 1, Generation: schema.GenerationConfig{Temperature: types.Ptr(0.7)}}

	config := flags.Merge(file).Merge(defaults)
	assert.Equal("stub", config.Provider)
	assert.Equal("Be brief", config.System)
	assert.Equal(uint(1), config.Attempts)
	assert.Equal(0.0, *config.Generation.Temperature)
	assert.Equal(defaults.Timeout, config.Timeout)
	assert.Equal(defaults.Sentinel, config.Sentinel)
	assert.NoError(config.Validate())

	config.Generation.Temperature = types.Ptr(2.0)
	assert.ErrorIs(config.Validate(), tooluse.ErrBadParameter)
}

func Test_config_004(t *testing.T) {
	// An explicit zero iteration limit is kept, an absent one uses the default
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_iterations: 0\n"), 0600))

	file, err := LoadConfig(path)
	require.NoError(t, err)
	if assert.NotNil(file.MaxIterations) {
		assert.Equal(uint(0), *file.MaxIterations)
	}
	assert.Equal(uint(0), Config{}.Merge(file).Merge(defaults).maxIterations())
	assert.Equal(uint(10), Config{}.Merge(Config{}).Merge(defaults).maxIterations())

	flags := Config{MaxIterations: types.Ptr(uint(3))}
	assert.Equal(uint(3), flags.Merge(file).Merge(defaults).maxIterations())
}

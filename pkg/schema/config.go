package schema

import (
	"fmt"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// GenerationConfig is the fixed set of options recognised for each request
type GenerationConfig struct {
	Model           string   `json:"model,omitempty" yaml:"model"`
	MaxOutputTokens uint     `json:"max_output_tokens,omitempty" yaml:"max_output_tokens"`
	Temperature     *float64 `json:"temperature,omitempty" yaml:"temperature"`
	ForcedTool      string   `json:"forced_tool,omitempty" yaml:"forced_tool"`
}

// Request is everything sent to the model for one turn
type Request struct {
	System  string           `json:"system,omitempty"`
	History []Turn           `json:"history"`
	Tools   []ToolDescriptor `json:"tools,omitempty"`
	Config  GenerationConfig `json:"config"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c GenerationConfig) String() string {
	return types.Stringify(c)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks the temperature is in range
func (c GenerationConfig) Validate() error {
	if c.Temperature != nil {
		if t := *c.Temperature; t < 0 || t > 1 {
			return fmt.Errorf("temperature %v out of range [0,1]", t)
		}
	}
	return nil
}

// Merge returns a copy of c with zero fields replaced by those in other
func (c GenerationConfig) Merge(other GenerationConfig) GenerationConfig {
	if c.Model == "" {
		c.Model = other.Model
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = other.MaxOutputTokens
	}
	if c.Temperature == nil && other.Temperature != nil {
		c.Temperature = types.Ptr(*other.Temperature)
	}
	if c.ForcedTool == "" {
		c.ForcedTool = other.ForcedTool
	}
	return c
}

// Validate checks the history, configuration and forced tool. When a tool
// is forced it must be one of the advertised tools.
func (r Request) Validate() error {
	if err := r.Config.Validate(); err != nil {
		return err
	}
	if len(r.History) == 0 {
		return fmt.Errorf("empty history")
	}
	for i, turn := range r.History {
		if err := turn.Validate(); err != nil {
			return fmt.Errorf("turn %d: %w", i, err)
		}
	}
	if name := r.Config.ForcedTool; name != "" {
		found := false
		for _, tool := range r.Tools {
			if tool.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("forced tool %q is not advertised", name)
		}
	}
	return nil
}

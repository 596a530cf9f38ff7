/*
tokens estimates the number of tokens in text and conversations. The
estimate uses the cl100k_base encoding, and falls back to four characters
per token when the encoding cannot be loaded.
*/
package tokens

import (
	"sync"

	// Packages
	tiktoken "github.com/pkoukk/tiktoken-go"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Estimator counts tokens
type Estimator struct {
	sync.Mutex
	encoding *tiktoken.Tiktoken
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultEncoding = "cl100k_base"

	// Tokens added for the role and structure of each turn
	TurnOverhead = 4
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns an estimator. When the encoding cannot be loaded the
// estimator falls back to counting characters, and the error is returned
// alongside it.
func New() (*Estimator, error) {
	encoding, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return &Estimator{}, err
	}
	return &Estimator{encoding: encoding}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Count returns the number of tokens in text
func (e *Estimator) Count(text string) int {
	if e == nil || e.encoding == nil {
		return (len(text) + 3) / 4
	}
	e.Lock()
	defer e.Unlock()
	return len(e.encoding.Encode(text, nil, nil))
}

// Turns returns the estimated number of tokens in a sequence of turns
func (e *Estimator) Turns(turns ...schema.Turn) int {
	var total int
	for _, turn := range turns {
		total += TurnOverhead
		for _, block := range turn.Content {
			switch {
			case block.Text != nil:
				total += e.Count(*block.Text)
			case block.ToolCall != nil:
				total += e.Count(block.ToolCall.Name) + e.Count(string(block.ToolCall.Input))
			case block.ToolResult != nil:
				total += e.Count(string(block.ToolResult.Content))
			}
		}
	}
	return total
}

// Fallback reports whether the estimator is counting characters
func (e *Estimator) Fallback() bool {
	return e == nil || e.encoding == nil
}

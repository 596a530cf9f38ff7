package openai

import (
	"fmt"

	// Packages
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
)

const (
	userKey = "openai.user"
	stopKey = "openai.stop"
	topPKey = "openai.top_p"
)

// WithUser sets the end-user identifier for the request
func WithUser(value string) opt.Opt {
	return opt.SetString(userKey, value)
}

// WithStopSequences sets up to four stop sequences
func WithStopSequences(values ...string) opt.Opt {
	if len(values) == 0 || len(values) > 4 {
		return opt.Error(fmt.Errorf("between one and four stop sequences are required"))
	}
	return opt.AddString(stopKey, values...)
}

// WithTopP sets the nucleus sampling parameter (0.0 to 1.0)
func WithTopP(value float64) opt.Opt {
	if value < 0 || value > 1 {
		return opt.Error(fmt.Errorf("top_p must be between 0.0 and 1.0"))
	}
	return opt.SetFloat64(topPKey, value)
}

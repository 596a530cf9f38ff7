package anthropic

import (
	"fmt"

	// Packages
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	userIdKey        = "anthropic.user"
	serviceTierKey   = "anthropic.service_tier"
	stopSequencesKey = "anthropic.stop"
	topKKey          = "anthropic.top_k"
	topPKey          = "anthropic.top_p"
)

////////////////////////////////////////////////////////////////////////////////
// MESSAGE OPTIONS

// WithUser sets the metadata.user_id for the request
func WithUser(value string) opt.Opt {
	return opt.SetString(userIdKey, value)
}

// WithServiceTier sets the service tier for the request ("auto" or "standard_only")
func WithServiceTier(value string) opt.Opt {
	if value != "auto" && value != "standard_only" {
		return opt.Error(fmt.Errorf("service_tier must be 'auto' or 'standard_only'"))
	}
	return opt.SetString(serviceTierKey, value)
}

// WithStopSequences sets custom stop sequences for the request
func WithStopSequences(values ...string) opt.Opt {
	if len(values) == 0 {
		return opt.Error(fmt.Errorf("at least one stop sequence is required"))
	}
	return opt.AddString(stopSequencesKey, values...)
}

// WithTopK sets the top K sampling parameter (minimum 1)
func WithTopK(value uint) opt.Opt {
	if value < 1 {
		return opt.Error(fmt.Errorf("top_k must be at least 1"))
	}
	return opt.SetUint(topKKey, value)
}

// WithTopP sets the nucleus sampling parameter (0.0 to 1.0)
func WithTopP(value float64) opt.Opt {
	if value < 0 || value > 1 {
		return opt.Error(fmt.Errorf("top_p must be between 0.0 and 1.0"))
	}
	return opt.SetFloat64(topPKey, value)
}

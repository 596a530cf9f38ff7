/*
openai implements a generator for OpenAI-compatible Chat Completions APIs.
https://platform.openai.com/docs/api-reference/chat
*/
package openai

import (
	"net/http"
	"strings"
	"time"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	modelcache "github.com/mutablelogic/go-tooluse/pkg/modelcache"
	goopenai "github.com/sashabaranov/go-openai"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*modelcache.ModelCache
	client *goopenai.Client
}

// Opt configures the client
type Opt func(*goopenai.ClientConfig) error

var _ tooluse.Provider = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Name         = "openai"
	defaultModel = "gpt-4o-mini"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new client with the given API key
func New(apiKey string, opts ...Opt) (*Client, error) {
	config := goopenai.DefaultConfig(apiKey)
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}
	return &Client{
		ModelCache: modelcache.NewModelCache(time.Hour, 100),
		client:     goopenai.NewClientWithConfig(config),
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// OptBaseURL sets the endpoint for an OpenAI-compatible API. The URL is
// given a /v1 suffix when it has none.
func OptBaseURL(url string) Opt {
	return func(config *goopenai.ClientConfig) error {
		if url == "" {
			return tooluse.ErrBadParameter.With("empty base url")
		}
		url = strings.TrimSuffix(url, "/")
		if !strings.HasSuffix(url, "/v1") {
			url += "/v1"
		}
		config.BaseURL = url
		return nil
	}
}

// OptHTTPClient sets the HTTP client used for requests
func OptHTTPClient(client *http.Client) Opt {
	return func(config *goopenai.ClientConfig) error {
		config.HTTPClient = client
		return nil
	}
}

// OptOrganization sets the organization header
func OptOrganization(org string) Opt {
	return func(config *goopenai.ClientConfig) error {
		config.OrgID = org
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (*Client) Name() string {
	return Name
}

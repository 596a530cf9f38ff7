/*
wikipedia implements a client for the MediaWiki Action API, and tools which
fetch articles and build reading lists from them
*/
package wikipedia

import (
	"context"
	"net/url"
	"strconv"

	// Packages
	client "github.com/mutablelogic/go-client"
	tooluse "github.com/mutablelogic/go-tooluse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
}

// SearchResult is a page title which matched a search
type SearchResult struct {
	PageID uint   `json:"pageid"`
	Title  string `json:"title"`
}

// Page is the plain text of an article and its canonical URL
type Page struct {
	PageID  uint   `json:"pageid"`
	Title   string `json:"title"`
	URL     string `json:"fullurl"`
	Extract string `json:"extract,omitempty"`
	Missing bool   `json:"missing,omitempty"`
}

type searchResponse struct {
	Query struct {
		Search []SearchResult `json:"search"`
	} `json:"query"`
	Error *apiError `json:"error,omitempty"`
}

type pageResponse struct {
	Query struct {
		Pages []Page `json:"pages"`
	} `json:"query"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint     = "https://en.wikipedia.org/w/api.php"
	userAgent    = "go-tooluse (https://github.com/mutablelogic/go-tooluse)"
	defaultLimit = 5
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for English Wikipedia. Pass client.OptEndpoint to
// use another wiki.
func New(opts ...client.ClientOpt) (*Client, error) {
	opts = append([]client.ClientOpt{client.OptEndpoint(endPoint), client.OptUserAgent(userAgent)}, opts...)
	client, err := client.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{client}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Search returns page titles matching the query, best match first
func (c *Client) Search(ctx context.Context, query string, limit uint) ([]SearchResult, error) {
	if query == "" {
		return nil, tooluse.ErrBadParameter.With("missing search query")
	}
	if limit == 0 {
		limit = defaultLimit
	}
	values := values("query")
	values.Set("list", "search")
	values.Set("srsearch", query)
	values.Set("srlimit", strconv.FormatUint(uint64(limit), 10))

	var response searchResponse
	if err := c.DoWithContext(ctx, nil, &response, client.OptQuery(values)); err != nil {
		return nil, err
	} else if response.Error != nil {
		return nil, tooluse.ErrBadParameter.Withf("%s: %s", response.Error.Code, response.Error.Info)
	}
	return response.Query.Search, nil
}

// Page returns the plain text and URL of the page with the given title
func (c *Client) Page(ctx context.Context, title string) (*Page, error) {
	if title == "" {
		return nil, tooluse.ErrBadParameter.With("missing title")
	}
	values := values("query")
	values.Set("prop", "extracts|info")
	values.Set("explaintext", "1")
	values.Set("inprop", "url")
	values.Set("redirects", "1")
	values.Set("titles", title)

	var response pageResponse
	if err := c.DoWithContext(ctx, nil, &response, client.OptQuery(values)); err != nil {
		return nil, err
	} else if response.Error != nil {
		return nil, tooluse.ErrBadParameter.Withf("%s: %s", response.Error.Code, response.Error.Info)
	}
	if len(response.Query.Pages) == 0 || response.Query.Pages[0].Missing {
		return nil, tooluse.ErrNotFound.Withf("page %q", title)
	}
	return &response.Query.Pages[0], nil
}

// Article searches for a term and returns the page of the best match
func (c *Client) Article(ctx context.Context, term string) (*Page, error) {
	results, err := c.Search(ctx, term, 1)
	if err != nil {
		return nil, err
	} else if len(results) == 0 {
		return nil, tooluse.ErrNotFound.Withf("no article matches %q", term)
	}
	return c.Page(ctx, results[0].Title)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func values(action string) url.Values {
	return url.Values{
		"action":        []string{action},
		"format":        []string{"json"},
		"formatversion": []string{"2"},
	}
}

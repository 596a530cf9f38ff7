package wikipedia

import (
	"context"
	"encoding/json"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	client "github.com/mutablelogic/go-client"
	tooluse "github.com/mutablelogic/go-tooluse"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ArticleRequest struct {
	SearchTerm string `json:"search_term" jsonschema:"The search term to find a wikipedia article by title"`
}

type HelperRequest struct {
	ResearchTopic string   `json:"research_topic" jsonschema:"The research topic to generate a Wikipedia reading list for"`
	ArticleTitles []string `json:"article_titles" jsonschema:"The list of article titles to generate a Wikipedia reading list for"`
	NumArticles   uint     `json:"num_articles" jsonschema:"The number of articles to generate"`
}

// HelperResponse is returned to the model after a reading list is written
type HelperResponse struct {
	File     string      `json:"file"`
	Articles []Reference `json:"articles"`
	Skipped  []string    `json:"skipped,omitempty"`
}

type article struct {
	client *Client
}

type helper struct {
	client *Client
	file   *ResearchFile
}

var _ tool.Tool = (*article)(nil)
var _ tool.Tool = (*helper)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTools returns the get_article and wikipedia_helper tools. Reading lists
// are appended to the file at researchPath.
func NewTools(researchPath string, opts ...client.ClientOpt) ([]tool.Tool, error) {
	if researchPath == "" {
		return nil, tooluse.ErrBadParameter.With("missing research file path")
	}
	client, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return []tool.Tool{
		&article{client: client},
		&helper{client: client, file: NewResearchFile(researchPath)},
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// ARTICLE

func (*article) Name() string {
	return "get_article"
}

func (*article) Description() string {
	return "A tool to retrieve an up to date Wikipedia article."
}

func (*article) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[ArticleRequest](nil)
}

func (a *article) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req ArticleRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, tooluse.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}
	page, err := a.client.Article(ctx, req.SearchTerm)
	if err != nil {
		return nil, err
	}
	return page.Extract, nil
}

///////////////////////////////////////////////////////////////////////////////
// HELPER

func (*helper) Name() string {
	return "wikipedia_helper"
}

func (*helper) Description() string {
	return "Generates a list of Wikipedia articles for a given research topic"
}

func (*helper) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[HelperRequest](nil)
}

// Run looks up each title and appends the articles found to the research
// file. Titles which cannot be found are skipped.
func (h *helper) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req HelperRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, tooluse.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}
	if req.ResearchTopic == "" {
		return nil, tooluse.ErrBadParameter.With("missing research topic")
	}

	titles := req.ArticleTitles
	if req.NumArticles > 0 && uint(len(titles)) > req.NumArticles {
		titles = titles[:req.NumArticles]
	}

	response := HelperResponse{File: h.file.Path(), Articles: []Reference{}}
	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := h.client.Article(ctx, title)
		if err != nil {
			response.Skipped = append(response.Skipped, title)
			continue
		}
		response.Articles = append(response.Articles, Reference{Title: page.Title, URL: page.URL})
	}
	if err := h.file.Append(req.ResearchTopic, response.Articles); err != nil {
		return nil, err
	}
	return response, nil
}

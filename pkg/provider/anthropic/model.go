package anthropic

import (
	"context"
	"net/url"

	// Packages
	client "github.com/mutablelogic/go-client"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListModels returns all available models from the Anthropic API
func (c *Client) ListModels(ctx context.Context, opts ...opt.Opt) ([]schema.Model, error) {
	return c.ModelCache.ListModels(ctx, opts, func(ctx context.Context, opts ...opt.Opt) ([]schema.Model, error) {
		request := url.Values{}
		result := make([]schema.Model, 0, 100)
		for {
			var response listModelsResponse
			if err := c.DoWithContext(ctx, nil, &response, client.OptPath("models"), client.OptQuery(request)); err != nil {
				return nil, classify(err)
			}
			for _, m := range response.Data {
				result = append(result, m.toSchema())
			}

			// Next page
			if !response.HasMore || response.LastId == "" {
				break
			}
			request.Set("after_id", response.LastId)
		}
		return result, nil
	})
}

// GetModel returns a specific model by name or ID
func (c *Client) GetModel(ctx context.Context, name string) (*schema.Model, error) {
	return c.ModelCache.GetModel(ctx, name, func(ctx context.Context, name string) (*schema.Model, error) {
		var response model
		if err := c.DoWithContext(ctx, nil, &response, client.OptPath("models", name)); err != nil {
			return nil, classify(err)
		}
		return types.Ptr(response.toSchema()), nil
	})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (m model) toSchema() schema.Model {
	return schema.Model{
		Name:        m.Id,
		Description: m.DisplayName,
		Created:     m.CreatedAt,
		OwnedBy:     Name,
	}
}

package openai

import (
	"context"
	"time"

	// Packages
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
)

// ListModels returns the models available to the API key
func (c *Client) ListModels(ctx context.Context, opts ...opt.Opt) ([]schema.Model, error) {
	return c.ModelCache.ListModels(ctx, opts, func(ctx context.Context, _ ...opt.Opt) ([]schema.Model, error) {
		response, err := c.client.ListModels(ctx)
		if err != nil {
			return nil, classify(err)
		}
		result := make([]schema.Model, 0, len(response.Models))
		for _, m := range response.Models {
			model := schema.Model{
				Name:    m.ID,
				OwnedBy: m.OwnedBy,
			}
			if m.CreatedAt > 0 {
				model.Created = time.Unix(m.CreatedAt, 0).UTC()
			}
			result = append(result, model)
		}
		return result, nil
	})
}

package modelcache_test

import (
	"context"
	"testing"
	"time"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	modelcache "github.com/mutablelogic/go-tooluse/pkg/modelcache"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func makeModels(names ...string) []schema.Model {
	models := make([]schema.Model, len(names))
	for i, name := range names {
		models[i] = schema.Model{Name: name}
	}
	return models
}

func TestGetModel_FetchesAndCaches(t *testing.T) {
	assert := assert.New(t)
	mc := modelcache.NewModelCache(time.Hour, 10)

	calls := 0
	fn := func(_ context.Context, name string) (*schema.Model, error) {
		calls++
		return &schema.Model{Name: name, Description: "desc"}, nil
	}

	m, err := mc.GetModel(context.Background(), "model-a", fn)
	assert.NoError(err)
	assert.Equal("desc", m.Description)
	m, err = mc.GetModel(context.Background(), "model-a", fn)
	assert.NoError(err)
	assert.Equal("model-a", m.Name)
	assert.Equal(1, calls)
}

func TestGetModel_NotFound(t *testing.T) {
	assert := assert.New(t)
	mc := modelcache.NewModelCache(time.Hour, 10)
	_, err := mc.GetModel(context.Background(), "missing", func(context.Context, string) (*schema.Model, error) {
		return nil, tooluse.ErrNotFound.With("missing")
	})
	assert.ErrorIs(err, tooluse.ErrNotFound)
}

func TestListModels_SortedAndCached(t *testing.T) {
	assert := assert.New(t)
	mc := modelcache.NewModelCache(time.Hour, 10)

	calls := 0
	fn := func(context.Context, ...opt.Opt) ([]schema.Model, error) {
		calls++
		return makeModels("c", "a", "b"), nil
	}

	models, err := mc.ListModels(context.Background(), nil, fn)
	assert.NoError(err)
	assert.Equal(makeModels("a", "b", "c"), models)
	models, err = mc.ListModels(context.Background(), nil, fn)
	assert.NoError(err)
	assert.Len(models, 3)
	assert.Equal(1, calls)
}

func TestListModels_NotPartial(t *testing.T) {
	assert := assert.New(t)
	mc := modelcache.NewModelCache(time.Hour, 10)

	// A single cached model does not satisfy a list request
	_, err := mc.GetModel(context.Background(), "a", func(_ context.Context, name string) (*schema.Model, error) {
		return &schema.Model{Name: name}, nil
	})
	assert.NoError(err)
	models, err := mc.ListModels(context.Background(), nil, func(context.Context, ...opt.Opt) ([]schema.Model, error) {
		return makeModels("a", "b"), nil
	})
	assert.NoError(err)
	assert.Len(models, 2)
}

func TestListModels_NoTTL(t *testing.T) {
	assert := assert.New(t)
	mc := modelcache.NewModelCache(0, 10)
	calls := 0
	fn := func(context.Context, ...opt.Opt) ([]schema.Model, error) {
		calls++
		return makeModels("a"), nil
	}
	_, err := mc.ListModels(context.Background(), nil, fn)
	assert.NoError(err)
	_, err = mc.ListModels(context.Background(), nil, fn)
	assert.NoError(err)
	assert.Equal(2, calls)
}

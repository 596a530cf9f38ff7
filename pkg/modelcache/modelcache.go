package modelcache

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type modelts struct {
	ts    time.Time
	model schema.Model
}

// ModelCache holds models returned by a provider for a period of time. It
// is safe for concurrent use.
type ModelCache struct {
	sync.Mutex
	ttl    time.Duration
	model  map[string]modelts
	listed time.Time
}

type GetModelFunc func(context.Context, string) (*schema.Model, error)
type ListModelsFunc func(context.Context, ...opt.Opt) ([]schema.Model, error)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewModelCache returns a cache where entries expire after ttl. A zero ttl
// disables caching.
func NewModelCache(ttl time.Duration, cap int) *ModelCache {
	self := new(ModelCache)
	if ttl > 0 {
		self.ttl = ttl
	}
	self.model = make(map[string]modelts, cap)
	return self
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetModel returns a cached model, or calls fn to fetch it
func (mc *ModelCache) GetModel(ctx context.Context, name string, fn GetModelFunc) (*schema.Model, error) {
	mc.Lock()
	defer mc.Unlock()

	// Cached model
	if entry, ok := mc.model[name]; ok {
		if time.Since(entry.ts) < mc.ttl {
			return types.Ptr(entry.model), nil
		}
		delete(mc.model, name)
	}

	// Fetch model
	model, err := fn(ctx, name)
	if errors.Is(err, tooluse.ErrNotFound) {
		delete(mc.model, name)
		return nil, err
	} else if err != nil {
		return nil, err
	}
	if mc.ttl > 0 {
		mc.model[model.Name] = modelts{ts: time.Now(), model: types.Value(model)}
	}
	return model, nil
}

// ListModels returns the cached models sorted by name, or calls fn to fetch
// them when the list has expired
func (mc *ModelCache) ListModels(ctx context.Context, opts []opt.Opt, fn ListModelsFunc) ([]schema.Model, error) {
	mc.Lock()
	defer mc.Unlock()

	// Return the cached list while it is fresh
	if mc.ttl > 0 && !mc.listed.IsZero() && time.Since(mc.listed) < mc.ttl {
		cached := make([]schema.Model, 0, len(mc.model))
		for _, entry := range mc.model {
			cached = append(cached, entry.model)
		}
		sortModels(cached)
		return cached, nil
	}

	// Fetch models
	models, err := fn(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Replace the cache
	if mc.ttl > 0 {
		now := time.Now()
		clear(mc.model)
		for _, model := range models {
			mc.model[model.Name] = modelts{ts: now, model: model}
		}
		mc.listed = now
	}

	sortModels(models)
	return models, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func sortModels(models []schema.Model) {
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
}

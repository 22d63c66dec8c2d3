package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// InferenceClient defines the interface for the generative inference
// service. GenerateProductInfo submits a schema-constrained request built
// from req and returns the raw JSON text of the reply; validation of that
// text is the caller's concern.
type InferenceClient interface {
	GenerateProductInfo(ctx context.Context, req *QueryRequest) (string, error)
}

package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/shelflens/backend/internal/domain"
	"github.com/shelflens/backend/internal/metrics"
)

// Package-level compiled regex patterns for cache-key normalization
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ProductService runs the retrieval pipeline: contract check, optional
// cache lookup, schema-constrained inference call, reply validation and
// derived-field computation. At most one retrieval runs at a time; a
// second lookup while one is outstanding is rejected.
type ProductService struct {
	cache        domain.CacheRepository
	inference    domain.InferenceClient
	cacheEnabled bool
	cacheTTL     time.Duration
	logger       *zap.Logger
	busy         atomic.Bool
}

// NewProductService creates a product service with dependencies
func NewProductService(
	cache domain.CacheRepository,
	inference domain.InferenceClient,
	config ProductServiceConfig,
	logger *zap.Logger,
) *ProductService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ProductService{
		cache:        cache,
		inference:    inference,
		cacheEnabled: config.CacheEnabled,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// LookupResult pairs the validated record with its derived display values
type LookupResult struct {
	Product *domain.ProductRecord `json:"product"`
	Derived *domain.DerivedView   `json:"derived"`
}

// Lookup resolves one QueryRequest end to end. currencyCode selects the
// display currency for the derived view.
func (s *ProductService) Lookup(ctx context.Context, req *domain.QueryRequest, currencyCode string) (*LookupResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !s.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrRetrievalInProgress
	}
	defer s.busy.Store(false)

	start := time.Now()
	record, err := s.retrieve(ctx, req)
	metrics.RetrievalDuration.WithLabelValues(string(req.Mode)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RetrievalsTotal.WithLabelValues(string(req.Mode), "failure").Inc()
		return nil, err
	}
	metrics.RetrievalsTotal.WithLabelValues(string(req.Mode), "success").Inc()

	return &LookupResult{
		Product: record,
		Derived: BuildDerivedView(record, currencyCode),
	}, nil
}

// retrieve produces a validated record, consulting the cache for by-name
// lookups. Image lookups are never cached; identical photos are unlikely
// enough that a key would not pay for itself.
func (s *ProductService) retrieve(ctx context.Context, req *domain.QueryRequest) (*domain.ProductRecord, error) {
	cacheKey := ""
	if s.cacheEnabled && req.Mode == domain.QueryByName {
		cacheKey = s.generateCacheKey(req)
		if record, err := s.getFromCache(ctx, cacheKey); err == nil && record != nil {
			s.logger.Debug("serving product record from cache", zap.String("key", cacheKey))
			return record, nil
		}
	}

	rawText, err := s.inference.GenerateProductInfo(ctx, req)
	if err != nil {
		return nil, err
	}

	record, err := ValidateRecord(rawText)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, record, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache product record", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return record, nil
}

// generateCacheKey creates a normalized cache key from the request.
// Format: "product:{normalized_product_name}:{language}"
func (s *ProductService) generateCacheKey(req *domain.QueryRequest) string {
	name := strings.ToLower(req.ProductName)
	name = nonAlphanumericRegex.ReplaceAllString(name, "")
	name = multipleSpacesRegex.ReplaceAllString(name, " ")
	return fmt.Sprintf("product:%s:%s", strings.TrimSpace(name), req.Language)
}

// getFromCache retrieves a product record from cache. The cache stores
// JSON-roundtripped values, so the stored shape is re-decoded here.
func (s *ProductService) getFromCache(ctx context.Context, key string) (*domain.ProductRecord, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}

	var record domain.ProductRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &record, nil
}

package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/cache"
	"github.com/fekuna/omnipos-pos-client/internal/catalog"
	"github.com/fekuna/omnipos-pos-client/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/search"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"go.uber.org/zap"
)

const (
	indexName     = "pos-products"
	listKeyPrefix = "catalog:products:"
	listTTL       = 5 * time.Minute
	searchLimit   = 50
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"category_name": { "type": "text" },
			"price": { "type": "double" },
			"is_active": { "type": "boolean" }
		}
	}
}`

// Backend is the part of the REST client the catalog reads from.
type Backend interface {
	ListProducts(ctx context.Context, query url.Values) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	Units(ctx context.Context) ([]model.Unit, error)
	UnitConversions(ctx context.Context) ([]model.UnitConversion, error)
}

type catalogUseCase struct {
	api    Backend
	repo   catalog.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger

	mu    sync.Mutex
	graph *unit.Graph
}

// NewCatalogUseCase builds the catalog. cache and es may be nil.
func NewCatalogUseCase(api Backend, repo catalog.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		api:    api,
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *catalogUseCase) Sync(ctx context.Context) error {
	if err := uc.SyncUnits(ctx); err != nil {
		return err
	}

	products, err := uc.api.ListProducts(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}
	if err := uc.repo.ReplaceProducts(ctx, products); err != nil {
		return fmt.Errorf("failed to store products: %w", err)
	}
	if err := uc.repo.MarkSynced(ctx, time.Now()); err != nil {
		return err
	}
	uc.logger.Info("catalog synced", zap.Int("products", len(products)))

	uc.invalidateListCache(ctx)
	if uc.es != nil {
		go uc.indexProducts(context.Background(), products...)
	}
	return nil
}

func (uc *catalogUseCase) SyncUnits(ctx context.Context) error {
	units, err := uc.api.Units(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch units: %w", err)
	}
	conversions, err := uc.api.UnitConversions(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch unit conversions: %w", err)
	}
	if err := uc.repo.ReplaceUnits(ctx, units, conversions); err != nil {
		return fmt.Errorf("failed to store units: %w", err)
	}

	uc.mu.Lock()
	uc.graph = nil
	uc.mu.Unlock()
	return nil
}

func (uc *catalogUseCase) RefreshProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.api.GetProduct(ctx, id)
	if err != nil {
		if backend.StatusCode(err) == http.StatusNotFound {
			if err := uc.RemoveProduct(ctx, id); err != nil {
				return nil, err
			}
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	if err := uc.repo.UpsertProduct(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateListCache(ctx)
	if uc.es != nil {
		go uc.indexProducts(context.Background(), *p)
	}
	return p, nil
}

func (uc *catalogUseCase) RemoveProduct(ctx context.Context, id int64) error {
	if err := uc.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	uc.invalidateListCache(ctx)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, strconv.FormatInt(id, 10)); err != nil {
				uc.logger.Error("failed to delete product from index", zap.Int64("product_id", id), zap.Error(err))
			}
		}()
	}
	return nil
}

// GetProduct reads the snapshot and falls back to the backend for products
// the snapshot has not seen yet.
func (uc *catalogUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	return uc.RefreshProduct(ctx, id)
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := ""
	if uc.cache != nil {
		key, err := uc.generateCacheKey(filters)
		if err == nil {
			cacheKey = key
			var cached cachedList
			hit, err := uc.cache.Get(ctx, cacheKey, &cached)
			if err != nil {
				uc.logger.Warn("product list cache read failed", zap.Error(err))
			}
			if hit {
				return cached.Products, cached.Count, nil
			}
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if err := uc.cache.Set(ctx, cacheKey, cachedList{Products: products, Count: count}, listTTL); err != nil {
			uc.logger.Warn("product list cache write failed", zap.Error(err))
		}
	}
	return products, count, nil
}

// Search matches name and sku. The elasticsearch index is tried first when
// configured; the snapshot answers otherwise or when the index fails.
func (uc *catalogUseCase) Search(ctx context.Context, query string) ([]model.Product, error) {
	if uc.es != nil {
		q := map[string]any{
			"query": map[string]any{
				"bool": map[string]any{
					"must": []map[string]any{
						{
							"query_string": map[string]any{
								"query":  fmt.Sprintf("*%s*", query),
								"fields": []string{"name^3", "sku", "category_name", "description"},
							},
						},
						{
							"term": map[string]any{"is_active": true},
						},
					},
				},
			},
			"size": searchLimit,
		}
		res, err := uc.es.Search(ctx, indexName, q)
		if err == nil {
			products := make([]model.Product, 0, len(res.Hits.Hits))
			for _, hit := range res.Hits.Hits {
				var p model.Product
				if err := json.Unmarshal(hit.Source, &p); err == nil {
					products = append(products, p)
				}
			}
			return products, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		uc.logger.Error("index search failed, falling back to snapshot", zap.Error(err))
	}

	active := true
	products, _, err := uc.repo.FindAll(ctx, &dto.ProductFilters{
		IsActive:    &active,
		SearchQuery: query,
		PageSize:    searchLimit,
	})
	return products, err
}

func (uc *catalogUseCase) Graph(ctx context.Context) (*unit.Graph, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.graph != nil {
		return uc.graph, nil
	}

	units, err := uc.repo.Units(ctx)
	if err != nil {
		return nil, err
	}
	conversions, err := uc.repo.Conversions(ctx)
	if err != nil {
		return nil, err
	}
	uc.graph = unit.NewGraph(units, conversions)
	return uc.graph, nil
}

func (uc *catalogUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%slist:%x", listKeyPrefix, md5.Sum(data)), nil
}

func (uc *catalogUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if _, err := uc.cache.DeletePattern(ctx, listKeyPrefix+"*"); err != nil && !errors.Is(err, context.Canceled) {
		uc.logger.Warn("failed to invalidate product list cache", zap.Error(err))
	}
}

func (uc *catalogUseCase) indexProducts(ctx context.Context, products ...model.Product) {
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Error("failed to create product index", zap.Error(err))
		return
	}
	for i := range products {
		p := &products[i]
		if err := uc.es.Index(ctx, indexName, strconv.FormatInt(p.ID, 10), p); err != nil {
			uc.logger.Error("failed to index product", zap.Int64("product_id", p.ID), zap.Error(err))
		}
	}
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/playroom/internal/catalog"
	"github.com/rocketscienceinc/playroom/internal/entity"
)

type productAPI interface {
	List(ctx context.Context, query entity.ProductQuery) (*entity.ProductPage, error)
	Get(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, form entity.ProductForm) (*entity.Product, error)
	Update(ctx context.Context, id string, form entity.ProductForm) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
}

type catalogMetrics interface {
	RecordProductRequest(operation, phase string, duration time.Duration)
}

type reducer func(state catalog.State) catalog.State

// CatalogManager is the single writer of the product directory state.
// Requests run outside the lock, so their results land in arrival order.
type CatalogManager struct {
	logger *slog.Logger
	mu     sync.Mutex

	api     productAPI
	metrics catalogMetrics

	state catalog.State
}

func NewCatalogManager(logger *slog.Logger, api productAPI, metrics catalogMetrics, pageSize int) *CatalogManager {
	return &CatalogManager{
		logger: logger.With("component", "catalog_manager"),

		api:     api,
		metrics: metrics,

		state: catalog.NewState(pageSize),
	}
}

func (that *CatalogManager) State() catalog.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Clone()
}

func (that *CatalogManager) SetFilters(patch entity.FilterPatch) catalog.State {
	return that.update(func(state catalog.State) catalog.State {
		return catalog.SetFilters(state, patch)
	})
}

func (that *CatalogManager) ClearFilters() catalog.State {
	return that.update(catalog.ClearFilters)
}

func (that *CatalogManager) SetPage(page int) catalog.State {
	return that.update(func(state catalog.State) catalog.State {
		return catalog.SetPage(state, page)
	})
}

func (that *CatalogManager) SetLimit(limit int) catalog.State {
	return that.update(func(state catalog.State) catalog.State {
		return catalog.SetLimit(state, limit)
	})
}

func (that *CatalogManager) ClearError() catalog.State {
	return that.update(catalog.ClearError)
}

// FetchProducts loads the page described by the current filters and pagination.
func (that *CatalogManager) FetchProducts(ctx context.Context) (catalog.State, error) {
	return that.run(catalog.OperationFetchList, func(query entity.ProductQuery) (reducer, error) {
		page, err := that.api.List(ctx, query)
		if err != nil {
			return nil, err
		}

		return func(state catalog.State) catalog.State {
			return catalog.ListFulfilled(state, *page)
		}, nil
	})
}

func (that *CatalogManager) FetchProduct(ctx context.Context, id string) (*entity.Product, error) {
	var product *entity.Product

	_, err := that.run(catalog.OperationFetchOne, func(entity.ProductQuery) (reducer, error) {
		var err error
		if product, err = that.api.Get(ctx, id); err != nil {
			return nil, err
		}

		return func(state catalog.State) catalog.State {
			return catalog.OneFulfilled(state, *product)
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// CreateProduct validates the form before anything reaches the store.
func (that *CatalogManager) CreateProduct(ctx context.Context, form entity.ProductForm) (*entity.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	var product *entity.Product

	_, err := that.run(catalog.OperationCreate, func(entity.ProductQuery) (reducer, error) {
		var err error
		if product, err = that.api.Create(ctx, form); err != nil {
			return nil, err
		}

		return func(state catalog.State) catalog.State {
			return catalog.Created(state, *product)
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (that *CatalogManager) UpdateProduct(ctx context.Context, id string, form entity.ProductForm) (*entity.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	var product *entity.Product

	_, err := that.run(catalog.OperationUpdate, func(entity.ProductQuery) (reducer, error) {
		var err error
		if product, err = that.api.Update(ctx, id, form); err != nil {
			return nil, err
		}

		return func(state catalog.State) catalog.State {
			return catalog.Updated(state, *product)
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (that *CatalogManager) DeleteProduct(ctx context.Context, id string) error {
	_, err := that.run(catalog.OperationDelete, func(entity.ProductQuery) (reducer, error) {
		if err := that.api.Delete(ctx, id); err != nil {
			return nil, err
		}

		return func(state catalog.State) catalog.State {
			return catalog.Deleted(state, id)
		}, nil
	})

	return err
}

func (that *CatalogManager) update(fn reducer) catalog.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.state = fn(that.state)

	return that.state.Clone()
}

// run marks op pending, performs call without holding the lock and then applies
// either the reducer call returned or the rejection.
func (that *CatalogManager) run(op catalog.Operation, call func(query entity.ProductQuery) (reducer, error)) (catalog.State, error) {
	log := that.logger.With("method", "run", "operation", op)

	that.mu.Lock()
	that.state = catalog.Pending(that.state, op)
	query := catalog.Query(that.state)
	that.mu.Unlock()

	started := time.Now()
	onSuccess, err := call(query)
	elapsed := time.Since(started)

	that.mu.Lock()
	defer that.mu.Unlock()

	// the store shows the operation's own message; the cause only goes to the log
	if err != nil {
		that.state = catalog.Rejected(that.state, op, nil)
		that.metrics.RecordProductRequest(string(op), string(catalog.PhaseRejected), elapsed)
		log.Warn("product request failed", "error", err)

		return that.state.Clone(), err
	}

	that.state = onSuccess(that.state)
	that.metrics.RecordProductRequest(string(op), string(catalog.PhaseFulfilled), elapsed)

	return that.state.Clone(), nil
}

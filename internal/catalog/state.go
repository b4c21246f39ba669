// Package catalog holds the cached product directory and the reducers that
// move it through filter, pagination and request lifecycle changes.
package catalog

import (
	"github.com/rocketscienceinc/playroom/internal/entity"
)

type Operation string

const (
	OperationFetchList Operation = "fetch_products"
	OperationFetchOne  Operation = "fetch_product"
	OperationCreate    Operation = "create_product"
	OperationUpdate    Operation = "update_product"
	OperationDelete    Operation = "delete_product"
)

var defaultErrorMessages = map[Operation]string{
	OperationFetchList: "Failed to fetch products",
	OperationFetchOne:  "Failed to fetch product",
	OperationCreate:    "Failed to create product",
	OperationUpdate:    "Failed to update product",
	OperationDelete:    "Failed to delete product",
}

type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

type State struct {
	Products   []entity.Product      `json:"products"`
	Loading    bool                  `json:"loading"`
	Error      string                `json:"error"`
	Filters    entity.ProductFilters `json:"filters"`
	Pagination entity.Pagination     `json:"pagination"`
	Categories []string              `json:"categories"`
	Requests   map[Operation]Phase   `json:"requests"`
}

func NewState(limit int) State {
	if limit <= 0 {
		limit = entity.DefaultLimit
	}

	categories := make([]string, len(entity.Categories))
	copy(categories, entity.Categories)

	return State{
		Products: []entity.Product{},
		Pagination: entity.Pagination{
			Page:  entity.DefaultPage,
			Limit: limit,
		},
		Categories: categories,
		Requests:   map[Operation]Phase{},
	}
}

// Clone copies the slices and maps a reducer may touch.
func (that State) Clone() State {
	next := that

	next.Products = make([]entity.Product, len(that.Products))
	copy(next.Products, that.Products)

	next.Requests = make(map[Operation]Phase, len(that.Requests))
	for op, phase := range that.Requests {
		next.Requests[op] = phase
	}

	return next
}

// Query is the list request described by the current filters and pagination.
func Query(state State) entity.ProductQuery {
	return entity.ProductQuery{
		Page:    state.Pagination.Page,
		Limit:   state.Pagination.Limit,
		Filters: state.Filters,
	}
}

func SetFilters(state State, patch entity.FilterPatch) State {
	next := state.Clone()
	next.Filters = state.Filters.Apply(patch)
	next.Pagination.Page = entity.DefaultPage

	return next
}

func ClearFilters(state State) State {
	next := state.Clone()
	next.Filters = entity.ProductFilters{}
	next.Pagination.Page = entity.DefaultPage

	return next
}

func SetPage(state State, page int) State {
	next := state.Clone()
	next.Pagination.Page = page

	return next
}

func SetLimit(state State, limit int) State {
	next := state.Clone()
	next.Pagination.Limit = limit
	next.Pagination.Page = entity.DefaultPage

	return next
}

func ClearError(state State) State {
	next := state.Clone()
	next.Error = ""

	return next
}

func Pending(state State, op Operation) State {
	next := state.Clone()
	next.Loading = true
	next.Error = ""
	next.Requests[op] = PhasePending

	return next
}

// Rejected records the failure message and leaves the cached products alone.
func Rejected(state State, op Operation, err error) State {
	next := state.Clone()
	next.Loading = false
	next.Requests[op] = PhaseRejected

	next.Error = defaultErrorMessages[op]
	if err != nil && err.Error() != "" {
		next.Error = err.Error()
	}

	return next
}

func fulfilled(state State, op Operation) State {
	next := state.Clone()
	next.Loading = false
	next.Requests[op] = PhaseFulfilled

	return next
}

func ListFulfilled(state State, page entity.ProductPage) State {
	next := fulfilled(state, OperationFetchList)

	next.Products = make([]entity.Product, len(page.Products))
	copy(next.Products, page.Products)

	next.Pagination.Total = page.Total
	next.Pagination.TotalPages = page.TotalPages
	next.Pagination.Page = page.Page

	return next
}

func OneFulfilled(state State, product entity.Product) State {
	next := fulfilled(state, OperationFetchOne)

	if index := indexByID(next.Products, product.ID); index != -1 {
		next.Products[index] = product
	} else {
		next.Products = append(next.Products, product)
	}

	return next
}

func Created(state State, product entity.Product) State {
	next := fulfilled(state, OperationCreate)
	next.Products = append([]entity.Product{product}, next.Products...)

	return next
}

func Updated(state State, product entity.Product) State {
	next := fulfilled(state, OperationUpdate)

	if index := indexByID(next.Products, product.ID); index != -1 {
		next.Products[index] = product
	}

	return next
}

func Deleted(state State, id string) State {
	next := fulfilled(state, OperationDelete)

	kept := next.Products[:0]
	for _, product := range next.Products {
		if product.ID != id {
			kept = append(kept, product)
		}
	}
	next.Products = kept

	return next
}

func indexByID(products []entity.Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}

	return -1
}

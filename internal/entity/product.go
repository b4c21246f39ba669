package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxNameLength        = 255
	minDescriptionLength = 10
	maxDescriptionLength = 1000
	minPrice             = 0.01
	maxPrice             = 999999
	maxImageURLLength    = 500
	maxTags              = 10
)

const (
	DefaultPage  = 1
	DefaultLimit = 8
)

// Categories is the fixed category list offered by the catalog.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Home & Garden",
	"Sports",
	"Toys",
	"Beauty",
	"Automotive",
	"Health",
	"Food",
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"imageUrl"`
	Tags        []string  `json:"tags"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductForm is the body sent to the products API on create and update.
type ProductForm struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
	ImageURL    string   `json:"imageUrl"`
	Tags        []string `json:"tags"`
	IsActive    bool     `json:"isActive"`
}

// ValidationError maps a form field to its first failed rule.
type ValidationError map[string]string

func (that ValidationError) Error() string {
	fields := make([]string, 0, len(that))
	for field := range that {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, that[field]))
	}

	return "invalid product: " + strings.Join(parts, "; ")
}

// Validate checks the form field by field and returns a ValidationError, or nil.
func (that ProductForm) Validate() error {
	errs := ValidationError{}

	switch nameLength := utf8.RuneCountInString(that.Name); {
	case nameLength < 1:
		errs["name"] = "Product name is required"
	case nameLength > maxNameLength:
		errs["name"] = "Product name is too long"
	}

	switch descriptionLength := utf8.RuneCountInString(that.Description); {
	case descriptionLength < minDescriptionLength:
		errs["description"] = "Description must be at least 10 characters"
	case descriptionLength > maxDescriptionLength:
		errs["description"] = "Description is too long"
	}

	switch {
	case that.Price < minPrice:
		errs["price"] = "Price must be greater than 0"
	case that.Price > maxPrice:
		errs["price"] = "Price is too high"
	}

	if that.Category == "" {
		errs["category"] = "Category is required"
	}

	if that.Stock < 0 {
		errs["stock"] = "Stock cannot be negative"
	}

	if !isValidURL(that.ImageURL) {
		errs["imageUrl"] = "Please enter a valid URL"
	} else if utf8.RuneCountInString(that.ImageURL) > maxImageURLLength {
		errs["imageUrl"] = "URL is too long"
	}

	if len(that.Tags) > maxTags {
		errs["tags"] = "Maximum 10 tags allowed"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func isValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return parsed.Scheme != "" && parsed.Host != ""
}

// ProductFilters are the list criteria; nil pointers mean "not filtered".
type ProductFilters struct {
	Search   string   `json:"search"`
	Category string   `json:"category"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	IsActive *bool    `json:"isActive,omitempty"`
}

// FilterPatch is a partial update of ProductFilters. Absent keys are left
// untouched; a key sent as null clears that filter.
type FilterPatch struct {
	Search   *string  `json:"search,omitempty"`
	Category *string  `json:"category,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	IsActive *bool    `json:"isActive,omitempty"`

	UnsetMinPrice bool `json:"-"`
	UnsetMaxPrice bool `json:"-"`
	UnsetIsActive bool `json:"-"`
}

func (that *FilterPatch) UnmarshalJSON(data []byte) error {
	type plain FilterPatch

	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	isNull := func(key string) bool {
		raw, ok := keys[key]
		return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	}

	*that = FilterPatch(decoded)

	empty := ""
	if isNull("search") {
		that.Search = &empty
	}
	if isNull("category") {
		that.Category = &empty
	}
	that.UnsetMinPrice = isNull("minPrice")
	that.UnsetMaxPrice = isNull("maxPrice")
	that.UnsetIsActive = isNull("isActive")

	return nil
}

func (that ProductFilters) Apply(patch FilterPatch) ProductFilters {
	if patch.Search != nil {
		that.Search = *patch.Search
	}
	if patch.Category != nil {
		that.Category = *patch.Category
	}
	if patch.MinPrice != nil {
		that.MinPrice = patch.MinPrice
	}
	if patch.MaxPrice != nil {
		that.MaxPrice = patch.MaxPrice
	}
	if patch.IsActive != nil {
		that.IsActive = patch.IsActive
	}

	if patch.UnsetMinPrice {
		that.MinPrice = nil
	}
	if patch.UnsetMaxPrice {
		that.MaxPrice = nil
	}
	if patch.UnsetIsActive {
		that.IsActive = nil
	}

	return that
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ProductQuery is one list request against the products API.
type ProductQuery struct {
	Page    int
	Limit   int
	Filters ProductFilters
}

// ProductPage is the products API list response.
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
}

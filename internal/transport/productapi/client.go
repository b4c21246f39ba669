// Package productapi is the client of the products REST API.
package productapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/playroom/internal/apperror"
	"github.com/rocketscienceinc/playroom/internal/entity"
)

const productsPath = "/api/products"

var (
	ErrFetchProducts = errors.New("failed to fetch products")
	ErrFetchProduct  = errors.New("failed to fetch product")
	ErrCreateProduct = errors.New("failed to create product")
	ErrUpdateProduct = errors.New("failed to update product")
	ErrDeleteProduct = errors.New("failed to delete product")
)

type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

func New(httpClient *http.Client, logger *slog.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger.With("component", "productapi"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// List fetches one page of products. Only the set criteria are encoded.
func (that *Client) List(ctx context.Context, query entity.ProductQuery) (*entity.ProductPage, error) {
	endpoint := that.baseURL + productsPath
	if params := EncodeQuery(query); len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var page entity.ProductPage
	if err := that.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, wrapFailure(ErrFetchProducts, err)
	}

	return &page, nil
}

func (that *Client) Get(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	if err := that.do(ctx, http.MethodGet, that.productURL(id), nil, &product); err != nil {
		return nil, wrapFailure(ErrFetchProduct, err)
	}

	return &product, nil
}

func (that *Client) Create(ctx context.Context, form entity.ProductForm) (*entity.Product, error) {
	var product entity.Product
	if err := that.do(ctx, http.MethodPost, that.baseURL+productsPath, form, &product); err != nil {
		return nil, wrapFailure(ErrCreateProduct, err)
	}

	return &product, nil
}

func (that *Client) Update(ctx context.Context, id string, form entity.ProductForm) (*entity.Product, error) {
	var product entity.Product
	if err := that.do(ctx, http.MethodPut, that.productURL(id), form, &product); err != nil {
		return nil, wrapFailure(ErrUpdateProduct, err)
	}

	return &product, nil
}

func (that *Client) Delete(ctx context.Context, id string) error {
	if err := that.do(ctx, http.MethodDelete, that.productURL(id), nil, nil); err != nil {
		return wrapFailure(ErrDeleteProduct, err)
	}

	return nil
}

// EncodeQuery maps a list query onto the API's query parameters.
func EncodeQuery(query entity.ProductQuery) url.Values {
	params := url.Values{}

	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	filters := query.Filters
	if filters.Search != "" {
		params.Set("search", filters.Search)
	}
	if filters.Category != "" {
		params.Set("category", filters.Category)
	}
	if filters.MinPrice != nil && *filters.MinPrice != 0 {
		params.Set("minPrice", strconv.FormatFloat(*filters.MinPrice, 'f', -1, 64))
	}
	if filters.MaxPrice != nil && *filters.MaxPrice != 0 {
		params.Set("maxPrice", strconv.FormatFloat(*filters.MaxPrice, 'f', -1, 64))
	}
	if filters.IsActive != nil {
		params.Set("isActive", strconv.FormatBool(*filters.IsActive))
	}

	return params
}

func (that *Client) productURL(id string) string {
	return that.baseURL + productsPath + "/" + url.PathEscape(id)
}

func (that *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	log := that.logger.With("method", method, "url", endpoint)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := that.httpClient.Do(req)
	if err != nil {
		log.Error("products API request failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperror.ErrNotFound
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Warn("products API returned an error status", "status", resp.StatusCode)
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}

	return nil
}

func wrapFailure(failure, cause error) error {
	return fmt.Errorf("%w: %w", failure, cause)
}

// Package cellar is the client's data-access layer: a fixed catalogue of
// named operations over the backend, each read wrapped with cache-aware
// offline fallback and each mutation followed by a fixed invalidation set.
package cellar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"cavea/internal/client/api"
	"cavea/internal/client/cachestore"
	"cavea/internal/client/connectivity"
)

// Cache keys. Mutations clear exactly the collection-level set; colour-filter
// slots intentionally stay stale until their next successful read.
const (
	KeyTotalStock    = "cache_total_stock"
	KeyStockByColour = "cache_stock_by_colour"
	KeyLastAdded     = "cache_last_added"
	KeyAllItems      = "cache_all_items"
	KeyColours       = "cache_colours"
	KeyRegions       = "cache_regions"
	KeyGrapes        = "cache_grape_varieties"
)

func keyItemsByColour(colourID uint) string {
	return fmt.Sprintf("cache_items_by_colour_%d", colourID)
}

// collectionKeys is the invalidation set applied after every successful
// mutation.
var collectionKeys = []string{KeyTotalStock, KeyStockByColour, KeyLastAdded, KeyAllItems}

// ErrNoOfflineData is the terminal failure of a read: the network path failed
// or was unavailable and the cache held nothing. Unlike an HTTP failure it
// carries no status code.
var ErrNoOfflineData = errors.New("no connection and no cached data")

type Client struct {
	exec   *api.Executor
	store  *cachestore.Store
	oracle connectivity.Oracle
}

func New(exec *api.Executor, store *cachestore.Store, oracle connectivity.Oracle) *Client {
	return &Client{exec: exec, store: store, oracle: oracle}
}

// withCache wraps a fresh fetch with offline fallback. Online: fetch, persist
// on success, return. On fetch failure or offline: serve the last good cached
// value however stale. Only when both paths come up empty does the read fail,
// with ErrNoOfflineData.
//
// A fetch failure while online is deliberately masked when the cache can
// answer: availability beats surfacing the error. The original error is only
// logged.
func (c *Client) withCache(ctx context.Context, key string, dest interface{}, fetch func(context.Context) error) error {
	if c.oracle.Online(ctx) {
		err := fetch(ctx)
		if err == nil {
			c.store.Set(ctx, key, dest)
			return nil
		}
		log.Printf("Fetch for %s failed, falling back to cache: %v", key, err)
	}

	if c.store.Get(ctx, key, dest) {
		return nil
	}
	return ErrNoOfflineData
}

// invalidate clears the collection-level read slots after a mutation so the
// next read refetches.
func (c *Client) invalidate(ctx context.Context) {
	for _, key := range collectionKeys {
		c.store.Clear(ctx, key)
	}
}

// --- Reads ---

func (c *Client) TotalStock(ctx context.Context) (int, error) {
	var resp struct {
		TotalStock int `json:"total_stock"`
	}
	err := c.withCache(ctx, KeyTotalStock, &resp, func(ctx context.Context) error {
		return c.exec.Do(ctx, http.MethodGet, "/cellar-items/total-stock", nil, &resp)
	})
	return resp.TotalStock, err
}

func (c *Client) StockByColour(ctx context.Context) ([]ColourStock, error) {
	var stocks []ColourStock
	err := c.withCache(ctx, KeyStockByColour, &stocks, func(ctx context.Context) error {
		return c.exec.Do(ctx, http.MethodGet, "/cellar-items/stock-by-colour", nil, &stocks)
	})
	return stocks, err
}

func (c *Client) LastAdded(ctx context.Context) ([]Item, error) {
	var items []Item
	err := c.withCache(ctx, KeyLastAdded, &items, func(ctx context.Context) error {
		return c.exec.Do(ctx, http.MethodGet, "/cellar-items/last", nil, &items)
	})
	return items, err
}

func (c *Client) AllItems(ctx context.Context) ([]Item, error) {
	var items []Item
	err := c.withCache(ctx, KeyAllItems, &items, func(ctx context.Context) error {
		return c.exec.Do(ctx, http.MethodGet, "/cellar-items", nil, &items)
	})
	return items, err
}

func (c *Client) ItemsByColour(ctx context.Context, colourID uint) ([]Item, error) {
	var items []Item
	path := fmt.Sprintf("/cellar-items/colour/%d", colourID)
	err := c.withCache(ctx, keyItemsByColour(colourID), &items, func(ctx context.Context) error {
		return c.exec.Do(ctx, http.MethodGet, path, nil, &items)
	})
	return items, err
}

// Item fetches one item's full detail. Detail views have no cache slot; the
// read goes straight to the network.
func (c *Client) Item(ctx context.Context, id uint) (*Item, error) {
	var item Item
	if err := c.exec.Do(ctx, http.MethodGet, fmt.Sprintf("/cellar-items/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) Colours(ctx context.Context) ([]Colour, error) {
	var colours []Colour
	err := c.withCache(ctx, KeyColours, &colours, func(ctx context.Context) error {
		return c.exec.Do(ctx, http.MethodGet, "/colours", nil, &colours)
	})
	return colours, err
}

func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	var regions []Region
	err := c.withCache(ctx, KeyRegions, &regions, func(ctx context.Context) error {
		return c.exec.Do(ctx, http.MethodGet, "/regions", nil, &regions)
	})
	return regions, err
}

func (c *Client) GrapeVarieties(ctx context.Context) ([]GrapeVariety, error) {
	var varieties []GrapeVariety
	err := c.withCache(ctx, KeyGrapes, &varieties, func(ctx context.Context) error {
		return c.exec.Do(ctx, http.MethodGet, "/grape-varieties", nil, &varieties)
	})
	return varieties, err
}

// --- Mutations (never served from cache) ---

func (c *Client) CreateItem(ctx context.Context, input CreateItemInput) (*Item, error) {
	var item Item
	if err := c.exec.Do(ctx, http.MethodPost, "/cellar-items", input, &item); err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return &item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id uint, input UpdateItemInput) (*Item, error) {
	var item Item
	if err := c.exec.Do(ctx, http.MethodPut, fmt.Sprintf("/cellar-items/%d", id), input, &item); err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return &item, nil
}

func (c *Client) IncrementStock(ctx context.Context, id uint) (*Item, error) {
	var item Item
	if err := c.exec.Do(ctx, http.MethodPost, fmt.Sprintf("/cellar-items/%d/increment", id), nil, &item); err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return &item, nil
}

func (c *Client) DecrementStock(ctx context.Context, id uint) (*Item, error) {
	var item Item
	if err := c.exec.Do(ctx, http.MethodPost, fmt.Sprintf("/cellar-items/%d/decrement", id), nil, &item); err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id uint) error {
	if err := c.exec.Do(ctx, http.MethodDelete, fmt.Sprintf("/cellar-items/%d", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *Client) AddComment(ctx context.Context, itemID uint, input CommentInput) (*Comment, error) {
	var comment Comment
	if err := c.exec.Do(ctx, http.MethodPost, fmt.Sprintf("/cellar-items/%d/comments", itemID), input, &comment); err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return &comment, nil
}

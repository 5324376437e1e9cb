package offers

import (
	"context"
	"log"
	"sync"
	"time"

	"bestprice_client/api"
	"bestprice_client/models"
)

// SearchLog records submitted searches locally. Implemented by
// storage.SQLiteStore; may be nil when local history is disabled.
type SearchLog interface {
	RecordSearch(searchID int64, query string) error
	RecentSearches(limit int) ([]models.RecentSearch, error)
}

// Controller binds the active search to a page of offers. It owns the
// committed filter state, issues offer queries and keeps the last good page
// when a fetch fails.
//
// In-flight requests are never cancelled; instead every fetch carries a
// sequence number and a completion older than the newest applied one is
// discarded, so the last committed user intent always wins.
type Controller struct {
	client    *api.Client
	searchLog SearchLog
	debounce  *Debouncer

	mu      sync.Mutex
	search  *models.Search
	page    *models.OfferPage
	filters FilterState
	loading bool
	nextSeq uint64
	applied uint64
}

func NewController(client *api.Client, searchLog SearchLog, pageSize int, debounce time.Duration) *Controller {
	c := &Controller{
		client:    client,
		searchLog: searchLog,
		filters:   DefaultFilters(pageSize),
	}
	c.debounce = NewDebouncer(debounce, c.commitText)
	return c
}

// SubmitSearch sends the query to the server, replaces the active search
// and immediately fetches page 1 with default filters. Concurrent
// submissions are not coalesced; the latest applied response wins.
func (c *Controller) SubmitSearch(ctx context.Context, query string) error {
	search, err := c.client.CreateSearch(ctx, query)
	if err != nil {
		return err
	}

	log.Printf("Offers: search %d created for %q", search.ID, query)

	if c.searchLog != nil {
		if err := c.searchLog.RecordSearch(search.ID, query); err != nil {
			log.Printf("Offers: failed to record search locally: %v", err)
		}
	}

	c.mu.Lock()
	c.search = search
	pageSize := c.filters.PageSize
	c.filters = DefaultFilters(pageSize)
	c.mu.Unlock()
	c.debounce.SetCommitted(TextFilters{})

	return c.fetch(ctx)
}

// FetchPage re-queries the offers endpoint with the committed filter state.
func (c *Controller) FetchPage(ctx context.Context) error {
	return c.fetch(ctx)
}

// ChangePage replaces only the page number and re-fetches. A page change
// without an active search is a no-op.
func (c *Controller) ChangePage(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.search == nil {
		c.mu.Unlock()
		return nil
	}
	if page < 1 {
		page = 1
	}
	c.filters.Page = page
	c.mu.Unlock()

	return c.fetch(ctx)
}

// EditTextFilters buffers an edit to the free-text filters; the fetch fires
// only after the debounce quiet period.
func (c *Controller) EditTextFilters(t TextFilters) {
	c.debounce.Edit(t)
}

// SetTextFilters commits the free-text filters immediately, bypassing the
// debounce. Used by non-interactive callers where there is nothing to
// coalesce.
func (c *Controller) SetTextFilters(ctx context.Context, t TextFilters) error {
	c.mu.Lock()
	if c.search == nil {
		c.mu.Unlock()
		return nil
	}
	c.filters.ApplyText(t)
	c.mu.Unlock()
	c.debounce.SetCommitted(t)

	return c.fetch(ctx)
}

// SetSort selects a sort column, flipping direction on re-selection. Commits
// immediately, bypassing the debounce.
func (c *Controller) SetSort(ctx context.Context, column string) error {
	c.mu.Lock()
	if c.search == nil {
		c.mu.Unlock()
		return nil
	}
	c.filters.ToggleSort(column)
	c.mu.Unlock()

	return c.fetch(ctx)
}

// ClearFilters resets everything to defaults and re-fetches immediately.
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	if c.search == nil {
		c.mu.Unlock()
		return nil
	}
	pageSize := c.filters.PageSize
	c.filters = DefaultFilters(pageSize)
	c.mu.Unlock()
	c.debounce.SetCommitted(TextFilters{})

	return c.fetch(ctx)
}

// commitText is the debouncer's commit hook: apply the buffered text
// filters (resetting to page 1) and fetch.
func (c *Controller) commitText(t TextFilters) {
	c.mu.Lock()
	if c.search == nil {
		c.mu.Unlock()
		return
	}
	c.filters.ApplyText(t)
	c.mu.Unlock()

	if err := c.fetch(context.Background()); err != nil {
		log.Printf("Offers: debounced fetch failed: %v", err)
	}
}

func (c *Controller) fetch(ctx context.Context) error {
	c.mu.Lock()
	if c.search == nil {
		c.mu.Unlock()
		return nil
	}
	c.nextSeq++
	seq := c.nextSeq
	searchID := c.search.ID
	filters := c.filters
	filters.Normalize()
	c.loading = true
	c.mu.Unlock()

	page, err := c.client.Offers(ctx, filters.params(searchID))

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.nextSeq {
		// Only the newest request gets to clear the loading flag.
		c.loading = false
	}

	if err != nil {
		// Previous page stays; the caller surfaces the message.
		return err
	}

	if seq <= c.applied {
		log.Printf("Offers: discarding stale response (seq %d, newest %d)", seq, c.applied)
		return nil
	}

	c.applied = seq
	c.page = page
	// Echo the filters that produced this page so UI state stays coherent
	// even if the server normalized them.
	c.filters = filters
	return nil
}

// Search returns the active search, or nil before the first submission.
func (c *Controller) Search() *models.Search {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Page returns the last successfully applied offer page.
func (c *Controller) Page() *models.OfferPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Filters returns the committed filter state.
func (c *Controller) Filters() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// RecentSearches returns the locally recorded search history.
func (c *Controller) RecentSearches(limit int) ([]models.RecentSearch, error) {
	if c.searchLog == nil {
		return nil, nil
	}
	return c.searchLog.RecentSearches(limit)
}

// Stop cancels any pending debounced commit.
func (c *Controller) Stop() {
	c.debounce.Stop()
}

package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"prolist/pkg/list"
	"prolist/pkg/logger"
)

// Remote is a read-only catalog fetched from a delimited-text resource such
// as a published spreadsheet. The first line is a header and is discarded;
// every following non-blank line is one item name, assigned a sequential
// synthetic ID. Fetch failures degrade to an empty catalog.
//
// The last successful result is cached for a TTL. Concurrent refreshes may
// race; a fetch that loses to a newer one is discarded by generation.
type Remote struct {
	url    string
	client *http.Client
	ttl    time.Duration
	log    *logger.Logger

	mu        sync.Mutex
	items     []list.Item
	fetchedAt time.Time
	started   int
	applied   int
}

// NewRemote builds a remote catalog source. client may be nil for
// http.DefaultClient; ttl <= 0 disables caching.
func NewRemote(url string, client *http.Client, ttl time.Duration, log *logger.Logger) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{url: url, client: client, ttl: ttl, log: log}
}

// Mutable reports that this catalog cannot be edited.
func (r *Remote) Mutable() bool { return false }

// Items returns the cached catalog when fresh, refetching otherwise.
func (r *Remote) Items(ctx context.Context) []list.Item {
	r.mu.Lock()
	if !r.fetchedAt.IsZero() && time.Since(r.fetchedAt) < r.ttl {
		items := append([]list.Item(nil), r.items...)
		r.mu.Unlock()
		return items
	}
	r.started++
	gen := r.started
	r.mu.Unlock()

	items, err := r.fetch(ctx)
	if err != nil {
		r.log.Warn(ctx, "fetching catalog", "url", r.url, "error", err)
		items = nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen < r.applied {
		// a newer refresh already landed; this response is stale
		return append([]list.Item(nil), r.items...)
	}
	r.applied = gen
	r.items = items
	r.fetchedAt = time.Now()
	return append([]list.Item(nil), items...)
}

func (r *Remote) fetch(ctx context.Context) ([]list.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return ParseItems(resp.Body)
}

// ParseItems reads the delimited-text catalog format: header line dropped,
// one item name per non-blank line, sequential synthetic IDs.
func ParseItems(r io.Reader) ([]list.Item, error) {
	sc := bufio.NewScanner(r)

	var items []list.Item
	header := true
	n := 0
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		n++
		items = append(items, list.Item{ID: fmt.Sprintf("item-%d", n), Name: name})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Package cache memoizes the analytics client and the report tables built
// with it, so that repeated render passes do not hit the remote API.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL          = 300 * time.Second
	DefaultFetchTimeout = 60 * time.Second

	// noDate stands in for the missing date range of realtime reports.
	noDate = "-"
)

// Reporter is the client handle the cache hands out and fetches through.
// Run returns an error for a failed fetch so that failures are never stored;
// a nil error with an empty table is a report with no rows.
type Reporter interface {
	ID() string
	Run(ctx context.Context, kind analytics.ReportKind, period *domain.DateRange) (domain.Table, error)
}

type ClientFactory func(ctx context.Context) (Reporter, error)

type Options struct {
	TTL          time.Duration
	FetchTimeout time.Duration
	Now          func() time.Time
	NewClient    ClientFactory
}

type Key struct {
	ClientID string
	Start    string
	End      string
	Kind     analytics.ReportKind
}

func NewKey(clientID string, period *domain.DateRange, kind analytics.ReportKind) Key {
	key := Key{ClientID: clientID, Start: noDate, End: noDate, Kind: kind}
	if period != nil {
		key.Start = period.StartString()
		key.End = period.EndString()
	}
	return key
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", k.ClientID, k.Start, k.End, k.Kind)
}

type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

type result struct {
	table domain.Table
	err   error
}

type entry struct {
	table   domain.Table
	expires time.Time
}

type Cache struct {
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	newClient    ClientFactory

	clientMu      sync.Mutex
	client        Reporter
	clientExpires time.Time

	mu         sync.Mutex
	entries    map[Key]entry
	generation uint64
	group      singleflight.Group

	lookups atomic.Uint64
	misses  atomic.Uint64
}

func New(opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		ttl:          opts.TTL,
		fetchTimeout: opts.FetchTimeout,
		now:          opts.Now,
		newClient:    opts.NewClient,
		entries:      make(map[Key]entry),
	}
}

// Client returns the memoized client, building a new one once the previous
// one is older than the TTL. Construction errors are not memoized.
func (c *Cache) Client(ctx context.Context) (Reporter, error) {
	c.clientMu.Lock()
	defer c.clientMu.Unlock()

	now := c.now()
	if c.client != nil && now.Before(c.clientExpires) {
		return c.client, nil
	}

	if c.newClient == nil {
		return nil, fmt.Errorf("no client factory configured")
	}
	client, err := c.newClient(ctx)
	if err != nil {
		return nil, err
	}

	c.client = client
	c.clientExpires = now.Add(c.ttl)
	zerolog.Ctx(ctx).Info().
		Str("client_id", client.ID()).
		Time("expires", c.clientExpires).
		Msg("analytics client created")
	return client, nil
}

// Report returns the table for (client, period, kind), fetching it at most
// once per TTL. Concurrent callers for the same key share a single fetch,
// which is not cancelled when the caller that started it goes away. Failed
// fetches are not stored, and every caller that receives one posts its own
// error notice.
func (c *Cache) Report(
	ctx context.Context,
	client Reporter,
	period *domain.DateRange,
	kind analytics.ReportKind,
) domain.Table {
	c.lookups.Add(1)
	key := NewKey(client.ID(), period, kind)

	if table, ok := c.lookup(key); ok {
		return table
	}

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	v, _, shared := c.group.Do(fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		if table, ok := c.lookup(key); ok {
			return result{table: table}, nil
		}

		c.misses.Add(1)
		zerolog.Ctx(ctx).Debug().Str("key", key.String()).Msg("report cache miss")

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		table, err := client.Run(fetchCtx, kind, period)
		if err == nil {
			c.store(key, table, gen)
		}
		return result{table: table, err: err}, nil
	})

	res := v.(result)
	if res.err != nil {
		if shared {
			zerolog.Ctx(ctx).Debug().Str("key", key.String()).Msg("shared report fetch failed")
		}
		analytics.PostFailure(ctx, res.err)
		return domain.Table{}
	}
	return res.table
}

// Clear drops every cached table, whatever client or tab it belongs to.
// Fetches already in flight do not repopulate the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]entry)
	c.generation++
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	live := 0
	for _, e := range c.entries {
		if now.Before(e.expires) {
			live++
		}
	}

	misses := c.misses.Load()
	return Stats{
		Hits:    c.lookups.Load() - misses,
		Misses:  misses,
		Entries: live,
	}
}

func (c *Cache) lookup(key Key) (domain.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Table{}, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return domain.Table{}, false
	}
	return e.table, true
}

func (c *Cache) store(key Key, table domain.Table, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry{table: table, expires: now.Add(c.ttl)}
}

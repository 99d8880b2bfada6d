package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReporter struct {
	id    string
	calls atomic.Int32
	empty bool
	err   error
	// release, when set, blocks Run until closed.
	release chan struct{}
}

func (f *fakeReporter) ID() string { return f.id }

func (f *fakeReporter) Run(
	ctx context.Context,
	kind analytics.ReportKind,
	_ *domain.DateRange,
) (domain.Table, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}
	if f.err != nil {
		return domain.Table{}, f.err
	}
	if f.empty {
		return domain.Table{}, nil
	}
	return domain.Table{
		Columns: []domain.Column{{Name: "kind", Kind: domain.ColumnDimension}},
		Records: []domain.Record{{domain.StringValue(string(kind))}},
	}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(clock *fakeClock) *Cache {
	return New(Options{TTL: 5 * time.Minute, Now: clock.Now})
}

func period() *domain.DateRange {
	p := domain.NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	return &p
}

func TestNewKey(t *testing.T) {
	assert.Equal(t,
		Key{ClientID: "c1", Start: "2024-01-01", End: "2024-01-31", Kind: analytics.KindPages},
		NewKey("c1", period(), analytics.KindPages))
	assert.Equal(t,
		Key{ClientID: "c1", Start: noDate, End: noDate, Kind: analytics.KindRealtime},
		NewKey("c1", nil, analytics.KindRealtime))
}

func TestCache_Report_SecondCallIsServedFromCache(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	r := &fakeReporter{id: "c1"}
	ctx := context.Background()

	first := c.Report(ctx, r, period(), analytics.KindPages)
	second := c.Report(ctx, r, period(), analytics.KindPages)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, r.calls.Load())
	assert.Equal(t, Stats{Hits: 1, Misses: 1, Entries: 1}, c.Stats())
}

func TestCache_Report_DistinctKeys(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	ctx := context.Background()
	r1 := &fakeReporter{id: "c1"}
	r2 := &fakeReporter{id: "c2"}

	other := domain.NewDateRange(period().Start, period().End.AddDate(0, 0, 1))

	c.Report(ctx, r1, period(), analytics.KindPages)
	c.Report(ctx, r1, period(), analytics.KindDevices)
	c.Report(ctx, r1, &other, analytics.KindPages)
	c.Report(ctx, r1, nil, analytics.KindRealtime)
	c.Report(ctx, r2, period(), analytics.KindPages)

	assert.EqualValues(t, 4, r1.calls.Load())
	assert.EqualValues(t, 1, r2.calls.Load())
	assert.Equal(t, 5, c.Stats().Entries)
}

func TestCache_Report_ExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	r := &fakeReporter{id: "c1"}
	ctx := context.Background()

	c.Report(ctx, r, period(), analytics.KindBasic)
	clock.Advance(4 * time.Minute)
	c.Report(ctx, r, period(), analytics.KindBasic)
	assert.EqualValues(t, 1, r.calls.Load())

	clock.Advance(time.Minute)
	c.Report(ctx, r, period(), analytics.KindBasic)
	assert.EqualValues(t, 2, r.calls.Load())
}

func TestCache_Clear_DropsEveryEntry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	r := &fakeReporter{id: "c1"}
	ctx := context.Background()

	c.Report(ctx, r, period(), analytics.KindPages)
	c.Report(ctx, r, period(), analytics.KindDevices)
	require.EqualValues(t, 2, r.calls.Load())

	c.Clear()
	assert.Equal(t, 0, c.Stats().Entries)

	c.Report(ctx, r, period(), analytics.KindDevices)
	c.Report(ctx, r, period(), analytics.KindPages)
	assert.EqualValues(t, 4, r.calls.Load())
}

func TestCache_Report_EmptyReportIsStored(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	r := &fakeReporter{id: "c1", empty: true}
	board := notice.NewBoard()
	ctx := notice.WithBoard(context.Background(), board)

	first := c.Report(ctx, r, nil, analytics.KindRealtime)
	second := c.Report(ctx, r, nil, analytics.KindRealtime)

	assert.True(t, first.Empty())
	assert.True(t, second.Empty())
	assert.EqualValues(t, 1, r.calls.Load())
	assert.Equal(t, Stats{Hits: 1, Misses: 1, Entries: 1}, c.Stats())
	assert.Empty(t, board.Notices())
}

func TestCache_Report_FailuresAreNotStored(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	r := &fakeReporter{id: "c1", err: &analytics.FetchError{
		Mode: domain.ModeStandard,
		Err:  errors.New("permission denied"),
	}}
	board := notice.NewBoard()
	ctx := notice.WithBoard(context.Background(), board)

	first := c.Report(ctx, r, period(), analytics.KindPages)
	second := c.Report(ctx, r, period(), analytics.KindPages)

	assert.True(t, first.Empty())
	assert.True(t, second.Empty())
	assert.EqualValues(t, 2, r.calls.Load())
	assert.Equal(t, 0, c.Stats().Entries)
	require.Equal(t, 2, board.Count(notice.LevelError))
	assert.Contains(t, board.Notices()[0].Message, "permission denied")
}

func TestCache_Report_ConcurrentCallersShareOneFetch(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	r := &fakeReporter{id: "c1", release: make(chan struct{})}
	ctx := context.Background()

	const callers = 8
	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
		results = make([]domain.Table, callers)
	)
	started.Add(callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			results[i] = c.Report(ctx, r, period(), analytics.KindGeographic)
		}(i)
	}
	started.Wait()

	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)
	// give the remaining callers time to join the flight
	time.Sleep(20 * time.Millisecond)
	close(r.release)
	wg.Wait()

	assert.EqualValues(t, 1, r.calls.Load())
	for _, table := range results {
		assert.Equal(t, 1, table.Len())
	}
}

func TestCache_Clear_DiscardsInflightResult(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	r := &fakeReporter{id: "c1", release: make(chan struct{})}
	ctx := context.Background()

	done := make(chan domain.Table)
	go func() {
		done <- c.Report(ctx, r, period(), analytics.KindPages)
	}()

	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)
	c.Clear()
	close(r.release)

	table := <-done
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCache_Report_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	r := &fakeReporter{id: "c1", release: make(chan struct{})}

	firstBoard := notice.NewBoard()
	firstCtx, cancel := context.WithCancel(notice.WithBoard(context.Background(), firstBoard))
	defer cancel()
	waiterBoard := notice.NewBoard()
	waiterCtx := notice.WithBoard(context.Background(), waiterBoard)

	first := make(chan domain.Table)
	go func() {
		first <- c.Report(firstCtx, r, period(), analytics.KindSources)
	}()
	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)

	waiter := make(chan domain.Table)
	go func() {
		waiter <- c.Report(waiterCtx, r, period(), analytics.KindSources)
	}()
	// give the waiter time to join the flight
	time.Sleep(20 * time.Millisecond)

	cancel()
	close(r.release)

	assert.Equal(t, 1, (<-first).Len())
	assert.Equal(t, 1, (<-waiter).Len())
	assert.EqualValues(t, 1, r.calls.Load())
	assert.Empty(t, firstBoard.Notices())
	assert.Empty(t, waiterBoard.Notices())
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestCache_Report_SharedFailureNotifiesEveryCaller(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock)
	r := &fakeReporter{
		id:      "c1",
		err:     &analytics.FetchError{Mode: domain.ModeRealtime, Err: errors.New("quota exceeded")},
		release: make(chan struct{}),
	}

	boards := []*notice.Board{notice.NewBoard(), notice.NewBoard()}
	var wg sync.WaitGroup
	for i, board := range boards {
		wg.Add(1)
		go func(ctx context.Context) {
			defer wg.Done()
			table := c.Report(ctx, r, nil, analytics.KindRealtime)
			assert.True(t, table.Empty())
		}(notice.WithBoard(context.Background(), board))
		if i == 0 {
			assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)
		}
	}
	time.Sleep(20 * time.Millisecond)
	close(r.release)
	wg.Wait()

	assert.EqualValues(t, 1, r.calls.Load())
	for _, board := range boards {
		require.Equal(t, 1, board.Count(notice.LevelError))
		assert.Contains(t, board.Notices()[0].Message, "Failed to fetch realtime data")
	}
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCache_Client_MemoizedForTTL(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	var built atomic.Int32
	c := New(Options{
		TTL: time.Minute,
		Now: clock.Now,
		NewClient: func(context.Context) (Reporter, error) {
			n := built.Add(1)
			return &fakeReporter{id: string(rune('a' + n - 1))}, nil
		},
	})
	ctx := context.Background()

	first, err := c.Client(ctx)
	require.NoError(t, err)
	again, err := c.Client(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)

	clock.Advance(time.Minute)
	renewed, err := c.Client(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), renewed.ID())
	assert.EqualValues(t, 2, built.Load())
}

func TestCache_Client_ErrorsAreNotMemoized(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	fail := true
	c := New(Options{
		Now: clock.Now,
		NewClient: func(context.Context) (Reporter, error) {
			if fail {
				return nil, errors.New("no credentials")
			}
			return &fakeReporter{id: "ok"}, nil
		},
	})
	ctx := context.Background()

	_, err := c.Client(ctx)
	require.EqualError(t, err, "no credentials")

	fail = false
	client, err := c.Client(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", client.ID())
}

func TestNew_Defaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, DefaultTTL, c.ttl)
	assert.Equal(t, DefaultFetchTimeout, c.fetchTimeout)
	assert.NotNil(t, c.now)

	_, err := c.Client(context.Background())
	assert.Error(t, err)
}

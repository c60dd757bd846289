package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/cron"
	"golang.org/x/sync/singleflight"
)

// DefaultGCTime is how long an unused entry stays in the cache.
const DefaultGCTime = 5 * time.Minute

// Client coordinates reads through the cache and writes that invalidate it.
type Client struct {
	cache     *Cache
	group     singleflight.Group
	retry     RetryPolicy
	gcTime    time.Duration
	notifier  Notifier
	logger    *slog.Logger
	scheduler *cron.Scheduler
	ownsSched bool
	now       func() time.Time

	// background refreshes run under ctx and are tracked by wg
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

type Option func(*Client)

func WithRetry(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

func WithGCTime(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.gcTime = d
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithScheduler runs the GC job on a shared scheduler. The caller keeps
// ownership and must stop it.
func WithScheduler(s *cron.Scheduler) Option {
	return func(c *Client) {
		if s != nil {
			c.scheduler = s
		}
	}
}

func NewClient(cache *Cache, opts ...Option) *Client {
	if cache == nil {
		cache = NewCache()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		cache:    cache,
		retry:    DefaultRetry,
		gcTime:   DefaultGCTime,
		notifier: LogNotifier{},
		logger:   slog.Default(),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scheduler == nil {
		c.scheduler = cron.NewScheduler(cron.WithLogger(c.logger))
		c.ownsSched = true
	}
	return c
}

func (c *Client) Cache() *Cache {
	return c.cache
}

// Start schedules garbage collection of idle entries.
func (c *Client) Start() error {
	interval := c.gcTime / 2
	if interval < time.Second {
		interval = time.Second
	}
	err := c.scheduler.AddJob("query-cache-gc", interval, func(ctx context.Context) error {
		if n := c.cache.Sweep(c.gcTime); n > 0 {
			c.logger.Debug("query cache swept", slog.Int("evicted", n))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("schedule cache gc: %w", err)
	}
	if c.ownsSched {
		c.scheduler.Start()
	}
	return nil
}

// Close cancels background refreshes, waits for them and stops GC.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	if c.ownsSched {
		c.scheduler.Stop()
	}
}

// Invalidate marks every entry under prefix as unusable. Loads already
// running for those keys are detached so that later reads start afresh.
func (c *Client) Invalidate(prefix ...string) int {
	n, inflight := c.cache.invalidate(prefix)
	for _, k := range inflight {
		c.group.Forget(k)
	}
	return n
}

// Query describes a cached read.
type Query[T any] struct {
	Key       Key
	StaleTime time.Duration
	Fn        func(ctx context.Context) (T, error)
}

// Fetch returns the cached value for q.Key when present and valid. A stale
// value is returned immediately and refreshed in the background. Missing or
// invalidated entries are fetched in the foreground, coalescing concurrent
// callers of the same key. The shared load does not end when one caller
// gives up; each caller only stops waiting for it.
func Fetch[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	var zero T
	if e, ok := c.cache.Get(q.Key); ok && !e.Invalidated {
		if v, typed := e.Value.(T); typed {
			if e.Age(c.now()) >= q.StaleTime {
				c.refreshInBackground(q.Key.String(), func(ctx context.Context) (any, error) {
					return load(ctx, c, q)
				})
			}
			return v, nil
		}
	}

	ch := c.group.DoChan(q.Key.String(), func() (any, error) {
		shared, cancel := c.detach(ctx)
		defer cancel()
		return load(shared, c, q)
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

// detach derives the context of a shared load: it keeps the values of ctx,
// ignores its cancellation and ends when the client is closed.
func (c *Client) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	shared, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(c.ctx, cancel)
	return shared, func() {
		stop()
		cancel()
	}
}

// load runs q.Fn under the retry policy. The result is cached unless the
// key was invalidated while the load was running.
func load[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	gen := c.cache.begin(q.Key)
	for attempt := 0; ; attempt++ {
		v, err := q.Fn(ctx)
		if err == nil {
			if !c.cache.finish(q.Key, gen, v, true) {
				c.logger.Debug("discarding result of invalidated query", slog.String("key", q.Key.String()))
			}
			return v, nil
		}
		if !c.retry.allow(attempt, err) {
			c.cache.finish(q.Key, gen, nil, false)
			return v, err
		}
		c.logger.Debug("retrying query",
			slog.String("key", q.Key.String()),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err),
		)
		if sleepErr := sleepContext(ctx, c.retry.delay(attempt)); sleepErr != nil {
			c.cache.finish(q.Key, gen, nil, false)
			return v, err
		}
	}
}

func (c *Client) refreshInBackground(key string, fn func(ctx context.Context) (any, error)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		_, err, _ := c.group.Do(key, func() (any, error) {
			return fn(c.ctx)
		})
		if err != nil {
			c.logger.Warn("background refresh failed", slog.String("key", key), slog.Any("error", err))
		}
	}()
}

// Mutation describes a write and the cache prefixes it makes obsolete.
type Mutation[In, Out any] struct {
	Fn             func(ctx context.Context, in In) (Out, error)
	Invalidates    [][]string
	SuccessMessage string
	// FallbackMessage is shown when the error carries no message of its own.
	FallbackMessage string
	// ErrorMessage overrides the failure text when set.
	ErrorMessage func(err error) string
}

func (m Mutation[In, Out]) failureMessage(err error) string {
	if m.ErrorMessage != nil {
		if msg := m.ErrorMessage(err); msg != "" {
			return msg
		}
	}
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return m.FallbackMessage
}

// Mutate runs m once. It is never retried. On success the declared prefixes
// are invalidated and a success notification is sent; on failure only the
// error is notified.
func Mutate[In, Out any](ctx context.Context, c *Client, m Mutation[In, Out], in In) (Out, error) {
	out, err := m.Fn(ctx, in)
	if err != nil {
		c.notifier.Error(m.failureMessage(err))
		return out, err
	}

	for _, prefix := range m.Invalidates {
		c.Invalidate(prefix...)
	}
	if m.SuccessMessage != "" {
		c.notifier.Success(m.SuccessMessage)
	}
	return out, nil
}

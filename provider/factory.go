package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/utils/clock"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/darkowlzz/cloudsecret-operator/convert"
	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/model"
)

const (
	// DefaultAuthTTL is the default lifetime of a cached client.
	DefaultAuthTTL = time.Hour
	// DefaultTimeout is the default deadline of a provider call.
	DefaultTimeout = 30 * time.Second
)

type cachedClient struct {
	client  Client
	key     string
	expires time.Time
}

// Factory resolves CloudSecretProvider resources into authenticated clients
// and caches them.
type Factory struct {
	reader   client.Reader
	adapter  convert.Adapter
	builders map[model.ProviderKind]Builder
	authTTL  time.Duration
	timeout  time.Duration
	clock    clock.PassiveClock
	log      logr.Logger

	mu      sync.Mutex
	clients map[string]*cachedClient
}

var _ Getter = &Factory{}

// FactoryOption is used to configure the Factory.
type FactoryOption func(*Factory)

// WithBuilder registers the Builder of a provider kind.
func WithBuilder(kind model.ProviderKind, b Builder) FactoryOption {
	return func(f *Factory) {
		f.builders[kind] = b
	}
}

// WithAuthTTL sets the lifetime of a cached client.
func WithAuthTTL(d time.Duration) FactoryOption {
	return func(f *Factory) {
		f.authTTL = d
	}
}

// WithTimeout sets the deadline of every provider call.
func WithTimeout(d time.Duration) FactoryOption {
	return func(f *Factory) {
		f.timeout = d
	}
}

// WithClock sets the clock used for cache expiry.
func WithClock(c clock.PassiveClock) FactoryOption {
	return func(f *Factory) {
		f.clock = c
	}
}

// WithLogger sets the logger of the Factory.
func WithLogger(l logr.Logger) FactoryOption {
	return func(f *Factory) {
		f.log = l
	}
}

// NewFactory creates a Factory that reads provider resources with the given
// reader, in the API version of the adapter.
func NewFactory(reader client.Reader, adapter convert.Adapter, opts ...FactoryOption) *Factory {
	f := &Factory{
		reader:   reader,
		adapter:  adapter,
		builders: map[model.ProviderKind]Builder{},
		authTTL:  DefaultAuthTTL,
		timeout:  DefaultTimeout,
		clock:    clock.RealClock{},
		log:      ctrl.Log.WithName("provider-factory"),
		clients:  map[string]*cachedClient{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Resolve reads and validates the named provider resource. The read is
// bounded by the provider call deadline.
func (f *Factory) Resolve(ctx context.Context, name string) (*model.ProviderResource, error) {
	obj := f.adapter.NewProvider()
	gctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	if err := f.reader.Get(gctx, client.ObjectKey{Name: name}, obj); err != nil {
		return nil, &cserrors.ProviderError{
			Provider:  name,
			Op:        "Resolve",
			Temporary: !apierrors.IsNotFound(err),
			Err:       err,
		}
	}
	p, err := f.adapter.ProviderToModel(obj)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateProvider(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a client for the named provider.
func (f *Factory) Get(ctx context.Context, name string) (Client, error) {
	p, err := f.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return f.ClientFor(ctx, p)
}

// ClientFor returns the cached client of the provider, building a new one
// when the cache is empty, expired or holds an older provider generation.
func (f *Factory) ClientFor(ctx context.Context, p *model.ProviderResource) (Client, error) {
	key := p.CacheKey()

	f.mu.Lock()
	if c, ok := f.clients[p.Name]; ok && c.key == key && f.clock.Now().Before(c.expires) {
		f.mu.Unlock()
		return c.client, nil
	}
	f.mu.Unlock()

	b, ok := f.builders[p.Kind]
	if !ok {
		return nil, cserrors.NewConfigError("provider", "unsupported provider kind %q", p.Kind)
	}

	// Authentication is bounded by the same deadline as provider calls.
	bctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	c, err := run(bctx, func(ctx context.Context) (Client, error) { return b(ctx, p) })
	if err != nil {
		return nil, classify(bctx, p.Name, "Authenticate", err)
	}

	wrapped := &instrumented{
		name:    p.Name,
		next:    c,
		timeout: f.timeout,
		onAuthFailure: func() {
			f.Invalidate(p.Name)
		},
	}

	f.mu.Lock()
	f.clients[p.Name] = &cachedClient{client: wrapped, key: key, expires: f.clock.Now().Add(f.authTTL)}
	f.mu.Unlock()
	f.log.V(1).Info("built provider client", "provider", p.Name, "generation", p.Generation)

	return wrapped, nil
}

// Invalidate drops the cached client of the named provider.
func (f *Factory) Invalidate(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[name]; ok {
		delete(f.clients, name)
		f.log.V(1).Info("invalidated provider client", "provider", name)
	}
}

// classify turns an arbitrary provider failure into a ProviderError.
// NotFound and already classified errors are returned unchanged.
func classify(ctx context.Context, name, op string, err error) error {
	if cserrors.IsNotFound(err) || cserrors.IsConfig(err) {
		return err
	}
	if pe, ok := err.(*cserrors.ProviderError); ok {
		return pe
	}
	if ctx.Err() != nil {
		return &cserrors.ProviderError{
			Provider:  name,
			Op:        op,
			Temporary: true,
			Err:       fmt.Errorf("deadline exceeded: %w", err),
		}
	}
	return &cserrors.ProviderError{Provider: name, Op: op, Err: err}
}

// run calls fn and returns early when ctx is done, so that a call ignoring
// its context still honours the deadline.
func run[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v: v, err: err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

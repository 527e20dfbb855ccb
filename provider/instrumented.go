package provider

import (
	"context"
	"time"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/metrics"
)

// instrumented bounds every call of the next Client with a deadline,
// classifies its errors and records metrics.
type instrumented struct {
	name          string
	next          Client
	timeout       time.Duration
	onAuthFailure func()
}

type listResult struct {
	keys    []string
	version string
}

func (c *instrumented) ListKeys(ctx context.Context, name string) ([]string, string, error) {
	r, err := call(ctx, c, "ListKeys", func(ctx context.Context) (listResult, error) {
		keys, version, err := c.next.ListKeys(ctx, name)
		return listResult{keys: keys, version: version}, err
	})
	return r.keys, r.version, err
}

func (c *instrumented) FetchKey(ctx context.Context, name, key string) (Value, error) {
	return call(ctx, c, "FetchKey", func(ctx context.Context) (Value, error) {
		return c.next.FetchKey(ctx, name, key)
	})
}

func (c *instrumented) PutKeys(ctx context.Context, name string, values map[string][]byte) (string, error) {
	return call(ctx, c, "PutKeys", func(ctx context.Context) (string, error) {
		return c.next.PutKeys(ctx, name, values)
	})
}

func (c *instrumented) Check(ctx context.Context) error {
	_, err := call(ctx, c, "Check", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.next.Check(ctx)
	})
	return err
}

func call[T any](ctx context.Context, c *instrumented, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	v, err := run(ctx, fn)
	metrics.ObserveProviderRequest(c.name, op, start, err)
	if err == nil {
		return v, nil
	}

	err = classify(ctx, c.name, op, err)
	if cserrors.IsAuth(err) && c.onAuthFailure != nil {
		c.onAuthFailure()
	}
	return v, err
}

// Package fake provides an in-memory provider.Client for tests.
package fake

import (
	"context"
	"fmt"
	"sort"
	"sync"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/model"
	"github.com/darkowlzz/cloudsecret-operator/provider"
)

type secret struct {
	data    map[string][]byte
	version int
}

func (s *secret) versionID() string {
	return fmt.Sprintf("v%d", s.version)
}

// Provider is an in-memory secret store. Every write produces a new version
// ID of the form "v<n>".
type Provider struct {
	mu      sync.Mutex
	secrets map[string]*secret
	err     error
	stall   bool
	puts    int
	fetches int
	checks  int
}

var _ provider.Client = &Provider{}

// New returns an empty Provider.
func New() *Provider {
	return &Provider{secrets: map[string]*secret{}}
}

// Builder returns a provider.Builder that always returns p.
func (p *Provider) Builder() provider.Builder {
	return func(context.Context, *model.ProviderResource) (provider.Client, error) {
		return p, nil
	}
}

// SetSecret replaces the source secret with the given data.
func (p *Provider) SetSecret(name string, data map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.secrets[name]
	if !ok {
		s = &secret{}
		p.secrets[name] = s
	}
	s.data = map[string][]byte{}
	for k, v := range data {
		s.data[k] = []byte(v)
	}
	s.version++
}

// Secret returns a copy of the source secret data.
func (p *Provider) Secret(name string) map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.secrets[name]
	if !ok {
		return nil
	}
	out := map[string]string{}
	for k, v := range s.data {
		out[k] = string(v)
	}
	return out
}

// FailWith makes every call return err. A nil err clears it.
func (p *Provider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Stall makes every call block until its context is done.
func (p *Provider) Stall(stall bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stall = stall
}

// Puts returns the number of successful PutKeys calls.
func (p *Provider) Puts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.puts
}

// Fetches returns the number of FetchKey calls.
func (p *Provider) Fetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

func (p *Provider) enter(ctx context.Context) error {
	p.mu.Lock()
	stall, err := p.stall, p.err
	p.mu.Unlock()
	if stall {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (p *Provider) ListKeys(ctx context.Context, name string) ([]string, string, error) {
	if err := p.enter(ctx); err != nil {
		return nil, "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.secrets[name]
	if !ok {
		return nil, "", nil
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, s.versionID(), nil
}

func (p *Provider) FetchKey(ctx context.Context, name, key string) (provider.Value, error) {
	if err := p.enter(ctx); err != nil {
		return provider.Value{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	s, ok := p.secrets[name]
	if !ok {
		return provider.Value{}, &cserrors.NotFoundError{Name: name}
	}
	v, ok := s.data[key]
	if !ok {
		return provider.Value{}, &cserrors.NotFoundError{Name: name, Key: key}
	}
	return provider.Value{Data: append([]byte(nil), v...), VersionID: s.versionID()}, nil
}

func (p *Provider) PutKeys(ctx context.Context, name string, values map[string][]byte) (string, error) {
	if err := p.enter(ctx); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.secrets[name]
	if !ok {
		s = &secret{data: map[string][]byte{}}
		p.secrets[name] = s
	}
	for k, v := range values {
		s.data[k] = append([]byte(nil), v...)
	}
	s.version++
	p.puts++
	return s.versionID(), nil
}

func (p *Provider) Check(ctx context.Context) error {
	if err := p.enter(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checks++
	return nil
}

// Checks returns the number of successful Check calls.
func (p *Provider) Checks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checks
}

package provider

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks github.com/darkowlzz/cloudsecret-operator/provider Client

import (
	"context"

	"github.com/darkowlzz/cloudsecret-operator/model"
)

// Value is a key value read from a provider.
type Value struct {
	Data []byte
	// VersionID identifies the source secret version the value was read
	// from.
	VersionID string
}

// Client is the capability surface over an external secret store. The
// secret name identifies a source secret holding multiple keys.
type Client interface {
	// ListKeys returns the keys of the source secret and its version ID. A
	// missing source secret has no keys.
	ListKeys(ctx context.Context, name string) ([]string, string, error)

	// FetchKey returns the value of a key. A missing key is a NotFound
	// error.
	FetchKey(ctx context.Context, name, key string) (Value, error)

	// PutKeys merges the values into the source secret, creating it when
	// absent, and returns the new version ID.
	PutKeys(ctx context.Context, name string, values map[string][]byte) (string, error)

	// Check verifies that the client is able to authenticate.
	Check(ctx context.Context) error
}

// Builder builds an authenticated Client for a provider resource.
type Builder func(ctx context.Context, p *model.ProviderResource) (Client, error)

// Getter resolves a provider name into a Client.
type Getter interface {
	Get(ctx context.Context, name string) (Client, error)
	Invalidate(name string)
}

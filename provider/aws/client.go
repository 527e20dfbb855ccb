// Package aws implements the provider.Client over AWS Secrets Manager. A
// source secret is a JSON object and its keys are the object fields.
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/google/uuid"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/provider"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used by the
// provider.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// Client is a provider.Client for AWS Secrets Manager. ListKeys keeps the
// document it read so that the FetchKey calls following it are served from
// the same version without another GetSecretValue.
type Client struct {
	provider string
	api      SecretsManagerAPI
	// newToken returns the idempotency token of a write.
	newToken func() string

	mu        sync.Mutex
	snapshots map[string]*document
}

var _ provider.Client = &Client{}

// NewClient returns a Client for the named provider.
func NewClient(providerName string, api SecretsManagerAPI) *Client {
	return &Client{
		provider:  providerName,
		api:       api,
		newToken:  func() string { return uuid.New().String() },
		snapshots: map[string]*document{},
	}
}

type document struct {
	fields  map[string]json.RawMessage
	version string
	exists  bool
}

func (c *Client) read(ctx context.Context, name string) (*document, error) {
	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
	if err != nil {
		if isNotFoundError(err) {
			return &document{fields: map[string]json.RawMessage{}}, nil
		}
		return nil, c.handleError(err, "GetSecretValue")
	}

	raw := out.SecretBinary
	if out.SecretString != nil {
		raw = []byte(*out.SecretString)
	}
	doc := &document{fields: map[string]json.RawMessage{}, exists: true}
	if out.VersionId != nil {
		doc.version = *out.VersionId
	}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc.fields); err != nil {
		return nil, &cserrors.ProviderError{
			Provider: c.provider,
			Op:       "GetSecretValue",
			Err:      fmt.Errorf("secret %q is not a JSON object: %w", name, err),
		}
	}
	return doc, nil
}

// snapshot returns the document of the last ListKeys, reading it when there
// is none.
func (c *Client) snapshot(ctx context.Context, name string) (*document, error) {
	c.mu.Lock()
	doc, ok := c.snapshots[name]
	c.mu.Unlock()
	if ok {
		return doc, nil
	}
	doc, err := c.read(ctx, name)
	if err != nil {
		return nil, err
	}
	c.keep(name, doc)
	return doc, nil
}

func (c *Client) keep(name string, doc *document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if doc == nil {
		delete(c.snapshots, name)
		return
	}
	c.snapshots[name] = doc
}

func (c *Client) ListKeys(ctx context.Context, name string) ([]string, string, error) {
	doc, err := c.read(ctx, name)
	if err != nil {
		c.keep(name, nil)
		return nil, "", err
	}
	c.keep(name, doc)
	keys := make([]string, 0, len(doc.fields))
	for k := range doc.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, doc.version, nil
}

func (c *Client) FetchKey(ctx context.Context, name, key string) (provider.Value, error) {
	doc, err := c.snapshot(ctx, name)
	if err != nil {
		return provider.Value{}, err
	}
	if !doc.exists {
		return provider.Value{}, &cserrors.NotFoundError{Name: name}
	}
	raw, ok := doc.fields[key]
	if !ok {
		return provider.Value{}, &cserrors.NotFoundError{Name: name, Key: key}
	}
	return provider.Value{Data: fieldValue(raw), VersionID: doc.version}, nil
}

// fieldValue returns the value of a JSON field. Strings are unquoted, other
// JSON values are returned as written.
func fieldValue(raw json.RawMessage) []byte {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []byte(s)
	}
	return append([]byte(nil), raw...)
}

// PutKeys always merges into the latest version. The kept document is
// dropped since the write makes it stale.
func (c *Client) PutKeys(ctx context.Context, name string, values map[string][]byte) (string, error) {
	doc, err := c.read(ctx, name)
	if err != nil {
		return "", err
	}
	defer c.keep(name, nil)
	for k, v := range values {
		b, err := json.Marshal(string(v))
		if err != nil {
			return "", err
		}
		doc.fields[k] = b
	}
	body, err := json.Marshal(doc.fields)
	if err != nil {
		return "", err
	}

	token := c.newToken()
	if !doc.exists {
		out, err := c.api.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
			Name:               aws.String(name),
			SecretString:       aws.String(string(body)),
			ClientRequestToken: aws.String(token),
		})
		if err != nil {
			return "", c.handleError(err, "CreateSecret")
		}
		return aws.ToString(out.VersionId), nil
	}

	out, err := c.api.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:           aws.String(name),
		SecretString:       aws.String(string(body)),
		ClientRequestToken: aws.String(token),
	})
	if err != nil {
		return "", c.handleError(err, "PutSecretValue")
	}
	return aws.ToString(out.VersionId), nil
}

func (c *Client) Check(ctx context.Context) error {
	_, err := c.api.ListSecrets(ctx, &secretsmanager.ListSecretsInput{MaxResults: aws.Int32(1)})
	if err != nil {
		return c.handleError(err, "ListSecrets")
	}
	return nil
}

package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
)

// mockSecretsManager is an in-memory SecretsManagerAPI.
type mockSecretsManager struct {
	secrets map[string]string
	version string
	err     error
	gets    int

	putInput    *secretsmanager.PutSecretValueInput
	createInput *secretsmanager.CreateSecretInput
}

func (m *mockSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.gets++
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.secrets[aws.ToString(params.SecretId)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v), VersionId: aws.String(m.version)}, nil
}

func (m *mockSecretsManager) PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	m.putInput = params
	return &secretsmanager.PutSecretValueOutput{VersionId: aws.String("v2")}, nil
}

func (m *mockSecretsManager) CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	m.createInput = params
	return &secretsmanager.CreateSecretOutput{VersionId: aws.String("v1")}, nil
}

func (m *mockSecretsManager) ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &secretsmanager.ListSecretsOutput{}, nil
}

func newTestClient(m *mockSecretsManager) *Client {
	c := NewClient("default", m)
	c.newToken = func() string { return "token-1" }
	return c
}

func TestListKeys(t *testing.T) {
	m := &mockSecretsManager{
		secrets: map[string]string{"prod/db": `{"username":"app","password":"abc123"}`},
		version: "v1",
	}
	c := newTestClient(m)

	keys, version, err := c.ListKeys(context.TODO(), "prod/db")
	require.NoError(t, err)
	assert.Equal(t, []string{"password", "username"}, keys)
	assert.Equal(t, "v1", version)

	keys, version, err = c.ListKeys(context.TODO(), "prod/missing")
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Empty(t, version)
}

func TestListKeysNotJSON(t *testing.T) {
	m := &mockSecretsManager{secrets: map[string]string{"plain": "hunter2"}}
	_, _, err := newTestClient(m).ListKeys(context.TODO(), "plain")
	require.Error(t, err)
	var pe *cserrors.ProviderError
	assert.True(t, errors.As(err, &pe))
	assert.False(t, pe.Temporary)
}

func TestFetchKey(t *testing.T) {
	m := &mockSecretsManager{
		secrets: map[string]string{"prod/db": `{"password":"abc123","port":5432}`},
		version: "v1",
	}
	c := newTestClient(m)

	v, err := c.FetchKey(context.TODO(), "prod/db", "password")
	require.NoError(t, err)
	assert.Equal(t, "abc123", string(v.Data))
	assert.Equal(t, "v1", v.VersionID)

	v, err = c.FetchKey(context.TODO(), "prod/db", "port")
	require.NoError(t, err)
	assert.Equal(t, "5432", string(v.Data))

	_, err = c.FetchKey(context.TODO(), "prod/db", "username")
	assert.True(t, cserrors.IsNotFound(err))

	_, err = c.FetchKey(context.TODO(), "prod/missing", "password")
	assert.True(t, cserrors.IsNotFound(err))
}

func TestFetchKeyFromListing(t *testing.T) {
	m := &mockSecretsManager{
		secrets: map[string]string{"prod/db": `{"username":"app","password":"abc123","host":"db"}`},
		version: "v1",
	}
	c := newTestClient(m)

	keys, version, err := c.ListKeys(context.TODO(), "prod/db")
	require.NoError(t, err)

	// The source moves on after the listing.
	m.secrets["prod/db"] = `{"username":"other","password":"changed","host":"db"}`
	m.version = "v2"

	for _, k := range keys {
		v, err := c.FetchKey(context.TODO(), "prod/db", k)
		require.NoError(t, err)
		assert.Equal(t, version, v.VersionID)
	}
	v, err := c.FetchKey(context.TODO(), "prod/db", "password")
	require.NoError(t, err)
	assert.Equal(t, "abc123", string(v.Data))
	assert.Equal(t, 1, m.gets, "one read for the listing and every key")

	// A new listing sees the new version.
	_, version, err = c.ListKeys(context.TODO(), "prod/db")
	require.NoError(t, err)
	assert.Equal(t, "v2", version)
	v, err = c.FetchKey(context.TODO(), "prod/db", "password")
	require.NoError(t, err)
	assert.Equal(t, "changed", string(v.Data))
	assert.Equal(t, 2, m.gets)

	// A write drops the kept document.
	_, err = c.PutKeys(context.TODO(), "prod/db", map[string][]byte{"password": []byte("x")})
	require.NoError(t, err)
	_, err = c.FetchKey(context.TODO(), "prod/db", "password")
	require.NoError(t, err)
	assert.Equal(t, 4, m.gets)
}

func TestPutKeys(t *testing.T) {
	m := &mockSecretsManager{
		secrets: map[string]string{"prod/db": `{"username":"app"}`},
		version: "v1",
	}
	c := newTestClient(m)

	version, err := c.PutKeys(context.TODO(), "prod/db", map[string][]byte{"password": []byte("abc123")})
	require.NoError(t, err)
	assert.Equal(t, "v2", version)
	require.NotNil(t, m.putInput)
	assert.Equal(t, "token-1", aws.ToString(m.putInput.ClientRequestToken))

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(m.putInput.SecretString)), &body))
	assert.Equal(t, map[string]string{"username": "app", "password": "abc123"}, body)

	version, err = c.PutKeys(context.TODO(), "prod/new", map[string][]byte{"password": []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "v1", version)
	require.NotNil(t, m.createInput)
	assert.Equal(t, "prod/new", aws.ToString(m.createInput.Name))
	assert.JSONEq(t, `{"password":"x"}`, aws.ToString(m.createInput.SecretString))
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name          string
		err           error
		wantTransient bool
		wantAuth      bool
	}{
		{
			name:     "access denied",
			err:      &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "denied"},
			wantAuth: true,
		},
		{
			name:          "throttled",
			err:           &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"},
			wantTransient: true,
		},
		{
			name:          "server fault",
			err:           &smithy.GenericAPIError{Code: "Unknown", Fault: smithy.FaultServer},
			wantTransient: true,
		},
		{
			name: "client fault",
			err:  &smithy.GenericAPIError{Code: "InvalidParameterException", Fault: smithy.FaultClient},
		},
		{
			name:          "deadline",
			err:           context.DeadlineExceeded,
			wantTransient: true,
		},
		{
			name: "other",
			err:  errors.New("boom"),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			m := &mockSecretsManager{err: tc.err}
			err := newTestClient(m).Check(context.TODO())
			require.Error(t, err)
			assert.Equal(t, tc.wantTransient, cserrors.IsTransient(err))
			assert.Equal(t, tc.wantAuth, cserrors.IsAuth(err))
		})
	}
}

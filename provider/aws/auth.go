package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	authenticationv1 "k8s.io/api/authentication/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"sigs.k8s.io/controller-runtime/pkg/client"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/model"
	"github.com/darkowlzz/cloudsecret-operator/provider"
)

// Keys of the credentials Secret.
const (
	AccessKeyIDKey     = "aws_access_key_id"
	SecretAccessKeyKey = "aws_secret_access_key"
	SessionTokenKey    = "aws_session_token"
)

// webIdentityAudience is the audience of projected service account tokens
// exchanged with STS.
const webIdentityAudience = "sts.amazonaws.com"

// tokenExpiration is the requested lifetime of a service account token.
const tokenExpiration = time.Hour

// Builder builds authenticated Clients for AWS Secrets Manager providers.
type Builder struct {
	// Kube reads the credentials Secret.
	Kube client.Reader
	// Clientset requests service account tokens for IRSA. IRSA is
	// unavailable when nil.
	Clientset kubernetes.Interface
	// CredentialsNamespace holds the credentials Secrets and the IRSA
	// service accounts.
	CredentialsNamespace string

	// LoadConfig and NewAPI are replaced in tests.
	LoadConfig func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error)
	NewAPI     func(cfg aws.Config) SecretsManagerAPI
}

// Build implements provider.Builder.
func (b *Builder) Build(ctx context.Context, p *model.ProviderResource) (provider.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(p.Region)}

	auth := p.Auth
	switch {
	case auth != nil && auth.SecretName != "":
		creds, err := b.staticCredentials(ctx, p.Name, auth.SecretName)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithCredentialsProvider(creds))
	case auth != nil && auth.RoleARN != "":
		if b.Clientset == nil {
			return nil, cserrors.NewConfigError("provider.awsSecretsManager.auth.irsa", "service account tokens are unavailable")
		}
	}

	loadConfig := b.LoadConfig
	if loadConfig == nil {
		loadConfig = config.LoadDefaultConfig
	}
	cfg, err := loadConfig(ctx, opts...)
	if err != nil {
		return nil, &cserrors.ProviderError{Provider: p.Name, Op: "LoadConfig", Err: err}
	}

	if auth != nil && auth.SecretName == "" && auth.RoleARN != "" {
		retriever := &serviceAccountToken{
			clientset: b.Clientset,
			namespace: b.CredentialsNamespace,
			name:      auth.ServiceAccountName,
		}
		cfg.Credentials = aws.NewCredentialsCache(
			stscreds.NewWebIdentityRoleProvider(sts.NewFromConfig(cfg), auth.RoleARN, retriever),
		)
	}

	newAPI := b.NewAPI
	if newAPI == nil {
		newAPI = func(cfg aws.Config) SecretsManagerAPI { return secretsmanager.NewFromConfig(cfg) }
	}
	return NewClient(p.Name, newAPI(cfg)), nil
}

func (b *Builder) staticCredentials(ctx context.Context, providerName, secretName string) (aws.CredentialsProvider, error) {
	secret := &corev1.Secret{}
	key := client.ObjectKey{Namespace: b.CredentialsNamespace, Name: secretName}
	if err := b.Kube.Get(ctx, key, secret); err != nil {
		return nil, &cserrors.ProviderError{
			Provider:     providerName,
			Op:           "LoadCredentials",
			Unauthorized: true,
			Err:          fmt.Errorf("failed to read credentials secret %s: %w", key, err),
		}
	}
	id, secretKey := string(secret.Data[AccessKeyIDKey]), string(secret.Data[SecretAccessKeyKey])
	if id == "" || secretKey == "" {
		return nil, &cserrors.ProviderError{
			Provider:     providerName,
			Op:           "LoadCredentials",
			Unauthorized: true,
			Err:          fmt.Errorf("credentials secret %s must set %s and %s", key, AccessKeyIDKey, SecretAccessKeyKey),
		}
	}
	return credentials.NewStaticCredentialsProvider(id, secretKey, string(secret.Data[SessionTokenKey])), nil
}

// serviceAccountToken implements stscreds.IdentityTokenRetriever with the
// TokenRequest API.
type serviceAccountToken struct {
	clientset kubernetes.Interface
	namespace string
	name      string
}

func (s *serviceAccountToken) GetIdentityToken() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expiration := int64(tokenExpiration.Seconds())
	tr, err := s.clientset.CoreV1().ServiceAccounts(s.namespace).CreateToken(ctx, s.name, &authenticationv1.TokenRequest{
		Spec: authenticationv1.TokenRequestSpec{
			Audiences:         []string{webIdentityAudience},
			ExpirationSeconds: &expiration,
		},
	}, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to request token for service account %s/%s: %w", s.namespace, s.name, err)
	}
	return []byte(tr.Status.Token), nil
}

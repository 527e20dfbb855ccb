// Package config holds the options of the operator and their command line
// flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"

	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha1"
	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
	"github.com/darkowlzz/cloudsecret-operator/telemetry/export"
)

// NamespaceEnv is the environment variable holding the namespace the
// operator runs in.
const NamespaceEnv = "POD_NAMESPACE"

// Defaults.
const (
	DefaultMetricsBindAddress      = ":8080"
	DefaultHealthProbeBindAddress  = ":6000"
	DefaultWebhookPort             = 9443
	DefaultMaxConcurrentReconciles = 4
	DefaultProviderTimeout         = 30 * time.Second
	DefaultProviderAuthTTL         = time.Hour
	DefaultAPITimeout              = 30 * time.Second
	DefaultConflictRetries         = 3
	DefaultBackoffBase             = 5 * time.Second
	DefaultNamespace               = "default"
	DefaultProvider                = "default"
	LeaderElectionID               = "cloudsecret-operator.64f.dev"
)

// Options configures the operator.
type Options struct {
	MetricsBindAddress     string
	HealthProbeBindAddress string
	LeaderElection         bool

	MaxConcurrentReconciles int

	// ProviderTimeout bounds every provider call.
	ProviderTimeout time.Duration
	// ProviderAuthTTL is the lifetime of a cached provider client.
	ProviderAuthTTL time.Duration
	// CredentialsNamespace holds the provider credential Secrets and the IRSA
	// service accounts.
	CredentialsNamespace string
	// DefaultProvider is used by CloudSecrets that don't name a provider.
	DefaultProvider string
	// APITimeout bounds every call to the Kubernetes API made while
	// reconciling.
	APITimeout time.Duration

	// APIVersion is the version of the resources the operator watches.
	APIVersion string

	ConflictRetries int
	BackoffBase     time.Duration

	EnableWebhooks bool
	WebhookPort    int

	// Tracing is the name of the trace exporter.
	Tracing string
}

// Default returns the default Options.
func Default() Options {
	ns := os.Getenv(NamespaceEnv)
	if ns == "" {
		ns = DefaultNamespace
	}
	return Options{
		MetricsBindAddress:      DefaultMetricsBindAddress,
		HealthProbeBindAddress:  DefaultHealthProbeBindAddress,
		MaxConcurrentReconciles: DefaultMaxConcurrentReconciles,
		ProviderTimeout:         DefaultProviderTimeout,
		ProviderAuthTTL:         DefaultProviderAuthTTL,
		CredentialsNamespace:    ns,
		DefaultProvider:         DefaultProvider,
		APITimeout:              DefaultAPITimeout,
		APIVersion:              v1alpha2.GroupVersion.Version,
		ConflictRetries:         DefaultConflictRetries,
		BackoffBase:             DefaultBackoffBase,
		WebhookPort:             DefaultWebhookPort,
		Tracing:                 export.None,
	}
}

// BindFlags binds the options to flags of fs. The current values of o are
// the flag defaults.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.MetricsBindAddress, "metrics-bind-address", o.MetricsBindAddress,
		"The address the metric endpoint binds to.")
	fs.StringVar(&o.HealthProbeBindAddress, "health-probe-bind-address", o.HealthProbeBindAddress,
		"The address the probe endpoint binds to.")
	fs.BoolVar(&o.LeaderElection, "leader-elect", o.LeaderElection,
		"Enable leader election for controller manager. "+
			"Enabling this will ensure there is only one active controller manager.")
	fs.IntVar(&o.MaxConcurrentReconciles, "max-concurrent-reconciles", o.MaxConcurrentReconciles,
		"The number of CloudSecrets reconciled in parallel.")
	fs.DurationVar(&o.ProviderTimeout, "provider-timeout", o.ProviderTimeout,
		"The deadline of a single call to a secrets provider.")
	fs.DurationVar(&o.ProviderAuthTTL, "provider-auth-ttl", o.ProviderAuthTTL,
		"How long an authenticated provider client is reused.")
	fs.StringVar(&o.CredentialsNamespace, "credentials-namespace", o.CredentialsNamespace,
		"The namespace of the provider credential Secrets and service accounts.")
	fs.StringVar(&o.DefaultProvider, "default-provider", o.DefaultProvider,
		"The CloudSecretProvider used by CloudSecrets that don't name one.")
	fs.DurationVar(&o.APITimeout, "api-timeout", o.APITimeout,
		"The deadline of a single Kubernetes API call made while reconciling.")
	fs.StringVar(&o.APIVersion, "api-version", o.APIVersion,
		fmt.Sprintf("The API version of the watched resources, one of %s or %s.",
			v1alpha2.GroupVersion.Version, v1alpha1.GroupVersion.Version))
	fs.IntVar(&o.ConflictRetries, "conflict-retries", o.ConflictRetries,
		"How many times a reconciliation is restarted after a write conflict.")
	fs.DurationVar(&o.BackoffBase, "backoff-base", o.BackoffBase,
		"The first retry delay after a transient failure. It doubles on every consecutive failure.")
	fs.BoolVar(&o.EnableWebhooks, "enable-webhooks", o.EnableWebhooks,
		"Serve the defaulting and validating admission webhooks.")
	fs.IntVar(&o.WebhookPort, "webhook-port", o.WebhookPort,
		"The port the webhook server listens on.")
	fs.StringVar(&o.Tracing, "tracing", o.Tracing,
		fmt.Sprintf("The trace exporter, one of %s, %s or %s.", export.None, export.Jaeger, export.OTLP))
}

// Validate checks the options.
func (o Options) Validate() error {
	var result error
	if o.APIVersion != v1alpha2.GroupVersion.Version && o.APIVersion != v1alpha1.GroupVersion.Version {
		result = multierror.Append(result, fmt.Errorf("unsupported api version %q", o.APIVersion))
	}
	if o.MaxConcurrentReconciles < 1 {
		result = multierror.Append(result, fmt.Errorf("max concurrent reconciles must be at least 1, got %d", o.MaxConcurrentReconciles))
	}
	if o.ProviderTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("provider timeout must be positive, got %s", o.ProviderTimeout))
	}
	if o.APITimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("api timeout must be positive, got %s", o.APITimeout))
	}
	if o.ProviderAuthTTL <= 0 {
		result = multierror.Append(result, fmt.Errorf("provider auth ttl must be positive, got %s", o.ProviderAuthTTL))
	}
	if o.BackoffBase <= 0 {
		result = multierror.Append(result, fmt.Errorf("backoff base must be positive, got %s", o.BackoffBase))
	}
	if o.ConflictRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("conflict retries can't be negative, got %d", o.ConflictRetries))
	}
	if o.CredentialsNamespace == "" {
		result = multierror.Append(result, fmt.Errorf("credentials namespace is required"))
	}
	if o.DefaultProvider == "" {
		result = multierror.Append(result, fmt.Errorf("default provider is required"))
	}
	switch o.Tracing {
	case export.None, export.Jaeger, export.OTLP:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown tracing exporter %q", o.Tracing))
	}
	return result
}

package model

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// Phase is an action phase.
type Phase string

const (
	PhaseCreate   Phase = "create"
	PhaseRotate   Phase = "rotate"
	PhaseValidate Phase = "validate"
)

// DefaultRefreshInterval is used when a resource doesn't set one.
const DefaultRefreshInterval Interval = "3m"

// ActionSpec is a single action policy. The policies are alternatives; an
// empty ActionSpec has no effect.
type ActionSpec struct {
	// Pattern is matched against the whole value.
	Pattern *string
	// Validator is an external validator container.
	Validator *corev1.Container
	// Minimum and Maximum are byte length bounds.
	Minimum *int64
	Maximum *int64
}

// IsEmpty returns true when no policy is set.
func (a *ActionSpec) IsEmpty() bool {
	return a == nil || (a.Pattern == nil && a.Validator == nil && a.Minimum == nil && a.Maximum == nil)
}

// ActionsSpec holds the action of each phase.
type ActionsSpec struct {
	Create   *ActionSpec
	Rotate   *ActionSpec
	Validate *ActionSpec
}

// For returns the action of the given phase, nil when unset or empty.
func (a *ActionsSpec) For(p Phase) *ActionSpec {
	if a == nil {
		return nil
	}
	var s *ActionSpec
	switch p {
	case PhaseCreate:
		s = a.Create
	case PhaseRotate:
		s = a.Rotate
	case PhaseValidate:
		s = a.Validate
	}
	if s.IsEmpty() {
		return nil
	}
	return s
}

// KeySpec selects a source key.
type KeySpec struct {
	Source         string
	Target         string
	Description    string
	RotateInterval Interval
	Actions        *ActionsSpec
}

// TargetName returns the key name in the derived secret.
func (k KeySpec) TargetName() string {
	if k.Target != "" {
		return k.Target
	}
	return k.Source
}

// SecretResource is the canonical CloudSecret.
type SecretResource struct {
	Name       string
	Namespace  string
	UID        types.UID
	Generation int64

	Description string
	// Provider is the CloudSecretProvider name.
	Provider string
	// SourceName identifies the secret in the provider.
	SourceName string
	// TargetSecret is the derived secret name. Empty means Name.
	TargetSecret    string
	Strict          bool
	RefreshInterval Interval
	// Keys is the selected key set. Empty selects every provider key.
	Keys    []KeySpec
	Actions *ActionsSpec

	Status Status
}

// NamespacedName returns the resource identity.
func (r *SecretResource) NamespacedName() types.NamespacedName {
	return types.NamespacedName{Namespace: r.Namespace, Name: r.Name}
}

// DerivedSecretName returns the name of the derived secret.
func (r *SecretResource) DerivedSecretName() string {
	if r.TargetSecret != "" {
		return r.TargetSecret
	}
	return r.Name
}

// Status is the observed state of a SecretResource.
type Status struct {
	TargetSecretName string
	Conditions       []metav1.Condition
	LastSyncTime     *metav1.Time
	VersionID        string
}

// ProviderKind names a provider implementation.
type ProviderKind string

// ProviderKindAWSSecretsManager is AWS Secrets Manager.
const ProviderKindAWSSecretsManager ProviderKind = "awsSecretsManager"

// AuthConfig selects the provider credentials. Both fields empty means the
// ambient credential chain.
type AuthConfig struct {
	// SecretName names a Secret in the operator's credentials namespace.
	SecretName string
	// ServiceAccountName and RoleARN configure workload identity.
	ServiceAccountName string
	RoleARN            string
}

// ProviderResource is the canonical CloudSecretProvider.
type ProviderResource struct {
	Name       string
	Generation int64

	Kind   ProviderKind
	Region string
	Auth   *AuthConfig

	Conditions []metav1.Condition
}

// CacheKey identifies the provider configuration for auth caching.
func (p *ProviderResource) CacheKey() string {
	return p.Name + "@" + itoa(p.Generation)
}

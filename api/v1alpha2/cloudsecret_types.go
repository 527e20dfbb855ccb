package v1alpha2

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Condition types of a CloudSecret.
const (
	SyncedCondition      string = "Synced"
	ReconcilingCondition string = "Reconciling"
	ApplyingCondition    string = "Applying"
	RotatingCondition    string = "Rotating"
	ValidatingCondition  string = "Validating"
)

// Condition reasons of a CloudSecret.
const (
	ValidationSucceededReason  string = "ValidationSucceeded"
	ValidationFailedReason     string = "ValidationFailed"
	SecretAppliedReason        string = "SecretApplied"
	SecretRotatedReason        string = "SecretRotated"
	SourceUnavailableReason    string = "SourceUnavailable"
	ProviderErrorReason        string = "ProviderError"
	ProgressingReason          string = "Progressing"
	UnchangedReason            string = "Unchanged"
	MissingKeyReason           string = "MissingKey"
	InvalidConfigurationReason string = "InvalidConfiguration"
)

// DefaultRefreshInterval is the refresh interval used when none is set.
const DefaultRefreshInterval = "3m"

// CloudSecretSpec defines the desired state of CloudSecret.
type CloudSecretSpec struct {
	// Optional name for the Kubernetes Secret; if not provided, the
	// CloudSecret name is used.
	// +optional
	SecretName string `json:"secretName,omitempty"`

	// Description of the secret.
	// +optional
	Description string `json:"description,omitempty"`

	// Configuration of the source for the secret data.
	Source SourceSpec `json:"source"`

	// Whether the source secret must only contain the keys specified.
	// +optional
	Strict *bool `json:"strict,omitempty"`

	// Optional list of keys and actions that can be applied to them. If an
	// action is set for a key, it overrides the action specified at the
	// secret level.
	// +optional
	Keys []KeySpec `json:"keys,omitempty"`

	// Refresh interval for syncing the secret data, e.g. '3m' or '1h'.
	// +kubebuilder:default="3m"
	// +kubebuilder:validation:Pattern=`^\d+[mhd]$`
	// +optional
	RefreshInterval string `json:"refreshInterval,omitempty"`

	// Actions to perform on the secret keys. These actions apply to all the
	// keys.
	// +optional
	Actions *ActionsSpec `json:"actions,omitempty"`
}

// SourceSpec identifies the secret in the source provider.
type SourceSpec struct {
	// Identifier used in the source provider.
	Name string `json:"name"`

	// Name of the CloudSecretProvider to read from. The operator's default
	// provider is used when empty.
	// +optional
	Provider string `json:"provider,omitempty"`
}

// KeySpec selects a key of the source secret.
type KeySpec struct {
	// Name of the key in the source provider.
	Name string `json:"name"`

	// Optional new name to use in the Kubernetes Secret. If not provided, the
	// source name is used.
	// +optional
	TargetName string `json:"targetName,omitempty"`

	// Description of the key.
	// +optional
	Description string `json:"description,omitempty"`

	// Rotation interval for this key, e.g. '90d'.
	// +kubebuilder:validation:Pattern=`^\d+[mhd]$`
	// +optional
	RotateInterval string `json:"rotateInterval,omitempty"`

	// Actions to perform on the key.
	// +optional
	Actions *ActionsSpec `json:"actions,omitempty"`
}

// ActionsSpec holds the actions of each phase.
type ActionsSpec struct {
	// If the key isn't present, create it according to the specified pattern
	// or logic.
	// +optional
	Create *ActionSpec `json:"create,omitempty"`

	// Rotate the key according to the specified pattern or logic.
	// +optional
	Rotate *ActionSpec `json:"rotate,omitempty"`

	// Validate the key according to the specified pattern or logic.
	// +optional
	Validate *ActionSpec `json:"validate,omitempty"`
}

// ActionSpec is a single action policy.
type ActionSpec struct {
	// Regex pattern for the key's value.
	// +optional
	Pattern *string `json:"pattern,omitempty"`

	// Container specification for external validation logic on the key.
	// +optional
	Container *corev1.Container `json:"container,omitempty"`

	// Minimum length for the key's value.
	// +kubebuilder:validation:Minimum=0
	// +optional
	Minimum *int64 `json:"minimum,omitempty"`

	// Maximum length for the key's value.
	// +kubebuilder:validation:Minimum=1
	// +optional
	Maximum *int64 `json:"maximum,omitempty"`
}

// CloudSecretStatus defines the observed state of CloudSecret.
type CloudSecretStatus struct {
	// Name of the managed Kubernetes Secret.
	// +optional
	TargetSecretName string `json:"targetSecretName,omitempty"`

	// List of conditions describing the current state of the CloudSecret.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// Last time the secret was successfully synced.
	// +optional
	LastSyncTime *metav1.Time `json:"lastSyncTime,omitempty"`

	// Version ID of the source secret.
	// +optional
	VersionID string `json:"versionId,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:storageversion
//+kubebuilder:resource:shortName=cs
//+kubebuilder:printcolumn:name="Last Sync Time",type=string,JSONPath=`.status.lastSyncTime`
//+kubebuilder:printcolumn:name="Status",type=string,JSONPath=`.status.conditions[?(@.type == 'Synced')].reason`

// CloudSecret is the Schema for the cloudsecrets API.
type CloudSecret struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CloudSecretSpec   `json:"spec,omitempty"`
	Status CloudSecretStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// CloudSecretList contains a list of CloudSecret.
type CloudSecretList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CloudSecret `json:"items"`
}

func init() {
	SchemeBuilder.Register(&CloudSecret{}, &CloudSecretList{})
}

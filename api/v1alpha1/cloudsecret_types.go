package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CloudSecretSpec defines the desired state of CloudSecret.
type CloudSecretSpec struct {
	// +optional
	SecretName string `json:"secret_name,omitempty"`

	Source SourceSpec `json:"source"`

	// +optional
	Strict *bool `json:"strict,omitempty"`

	// +optional
	Keys []KeySpec `json:"keys,omitempty"`

	// Refresh interval, e.g. "1h" or "30m".
	// +kubebuilder:validation:Pattern=`^\d+[mhd]$`
	// +optional
	RefreshInterval string `json:"refresh_interval,omitempty"`

	// Actions applied to every key.
	// +optional
	Config []KeyConfig `json:"config,omitempty"`
}

// SourceSpec identifies the secret in the source provider.
type SourceSpec struct {
	Key string `json:"key"`
}

// KeySpec selects a key of the source secret.
type KeySpec struct {
	Name string `json:"name"`

	// Rotation interval, e.g. "90d".
	// +kubebuilder:validation:Pattern=`^\d+[mhd]$`
	// +optional
	RotateInterval string `json:"rotate_interval,omitempty"`

	// +optional
	Config []KeyConfig `json:"config,omitempty"`
}

// KeyConfig holds the validation rules of each phase.
type KeyConfig struct {
	// +optional
	Create *ValidationSpec `json:"create,omitempty"`
	// +optional
	Rotate *ValidationSpec `json:"rotate,omitempty"`
	// +optional
	Validate *ValidationSpec `json:"validate,omitempty"`
}

// ValidationSpec is either a regex or an external validation container.
type ValidationSpec struct {
	// +optional
	Regex *string `json:"regex,omitempty"`
	// +optional
	Container *corev1.Container `json:"container,omitempty"`
}

// CloudSecretStatus defines the observed state of CloudSecret.
type CloudSecretStatus struct {
	// +optional
	Conditions []CloudSecretStatusCondition `json:"conditions,omitempty"`
}

// CloudSecretStatusCondition is a single sync status row.
type CloudSecretStatusCondition struct {
	Synced bool `json:"synced"`

	// +optional
	VersionID string `json:"version_id,omitempty"`

	// +optional
	LastSyncTime string `json:"last_sync_time,omitempty"`

	LastUpdateTime string `json:"last_update_time"`
	Message        string `json:"message"`
	Reason         string `json:"reason"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:resource:shortName=cs

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

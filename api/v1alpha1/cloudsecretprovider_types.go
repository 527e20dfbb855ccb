package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CloudSecretProviderSpec defines the desired state of CloudSecretProvider.
type CloudSecretProviderSpec struct {
	Provider AWSProvider `json:"provider"`
}

// AWSProvider configures AWS Secrets Manager.
type AWSProvider struct {
	Region string  `json:"region"`
	Auth   AWSAuth `json:"auth"`
}

// AWSAuth names the Kubernetes Secret holding AWS credentials.
type AWSAuth struct {
	SecretName string `json:"secret_name"`
}

// CloudSecretProviderStatus defines the observed state of
// CloudSecretProvider.
type CloudSecretProviderStatus struct {
	// +optional
	Conditions []CloudSecretProviderStatusCondition `json:"conditions,omitempty"`
}

// CloudSecretProviderStatusCondition is a single readiness row.
type CloudSecretProviderStatusCondition struct {
	Ready          bool   `json:"ready"`
	LastUpdateTime string `json:"last_update_time"`
	Message        string `json:"message"`
	Reason         string `json:"reason"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:resource:scope=Cluster,shortName=csp

// CloudSecretProvider is the Schema for the cloudsecretproviders API.
type CloudSecretProvider struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CloudSecretProviderSpec   `json:"spec,omitempty"`
	Status CloudSecretProviderStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// CloudSecretProviderList contains a list of CloudSecretProvider.
type CloudSecretProviderList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CloudSecretProvider `json:"items"`
}

func init() {
	SchemeBuilder.Register(&CloudSecretProvider{}, &CloudSecretProviderList{})
}

package v1alpha2

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ReadyCondition is the condition type of a CloudSecretProvider.
const ReadyCondition string = "Ready"

// Condition reasons of a CloudSecretProvider.
const (
	AuthenticationSucceededReason string = "AuthenticationSucceeded"
	AuthenticationFailedReason    string = "AuthenticationFailed"
)

// CloudSecretProviderSpec defines the desired state of CloudSecretProvider.
type CloudSecretProviderSpec struct {
	// Description of the provider.
	// +optional
	Description string `json:"description,omitempty"`

	// Configuration for the secrets provider.
	Provider ProviderSpec `json:"provider"`
}

// ProviderSpec is a one-of over the supported provider kinds.
type ProviderSpec struct {
	// Configuration for AWS Secrets Manager.
	// +optional
	AWSSecretsManager *AWSSecretsManagerProvider `json:"awsSecretsManager,omitempty"`
}

// AWSSecretsManagerProvider configures AWS Secrets Manager.
type AWSSecretsManagerProvider struct {
	// AWS region.
	Region string `json:"region"`

	// Optional authentication configuration for AWS.
	// +optional
	Auth *AWSAuthConfig `json:"auth,omitempty"`
}

// AWSAuthConfig configures AWS credentials. When empty, the default
// credential chain of the operator is used.
type AWSAuthConfig struct {
	// Optional name of the Kubernetes Secret containing the AWS credentials.
	// +optional
	SecretName string `json:"secretName,omitempty"`

	// Optional IRSA configuration.
	// +optional
	IRSA *IRSAConfig `json:"irsa,omitempty"`
}

// IRSAConfig configures IAM roles for service accounts.
type IRSAConfig struct {
	// Name of the Kubernetes ServiceAccount to use for IRSA.
	// +optional
	ServiceAccountName string `json:"secretName,omitempty"`

	// ARN of the IAM role to assume.
	// +optional
	RoleARN string `json:"roleArn,omitempty"`
}

// CloudSecretProviderStatus defines the observed state of
// CloudSecretProvider.
type CloudSecretProviderStatus struct {
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:storageversion
//+kubebuilder:resource:scope=Cluster,shortName=csp
//+kubebuilder:printcolumn:name="Provider Type",type=string,JSONPath=`.spec.provider`
//+kubebuilder:printcolumn:name="Ready",type=string,JSONPath=`.status.conditions[?(@.type == 'Ready')].status`

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

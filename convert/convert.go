// Package convert converts the served API versions into the canonical model
// and writes model status back into the versioned objects.
package convert

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/darkowlzz/cloudsecret-operator/model"
)

// Adapter converts the objects of one API version.
type Adapter interface {
	// Version returns the API version served by the adapter.
	Version() string

	NewSecret() client.Object
	NewSecretList() client.ObjectList
	NewProvider() client.Object
	NewProviderList() client.ObjectList

	// SecretToModel converts a CloudSecret. defaultProvider is used when the
	// object doesn't name a provider.
	SecretToModel(obj client.Object, defaultProvider string) (*model.SecretResource, error)
	// SecretsFromList returns the items of a CloudSecret list.
	SecretsFromList(list client.ObjectList) []client.Object
	// WriteSecretStatus writes the model status into the object.
	WriteSecretStatus(obj client.Object, status model.Status) error

	// ProviderToModel converts a CloudSecretProvider.
	ProviderToModel(obj client.Object) (*model.ProviderResource, error)
	// WriteProviderStatus writes the provider conditions into the object.
	WriteProviderStatus(obj client.Object, conditions []metav1.Condition) error
}

// ForVersion returns the adapter of the given API version.
func ForVersion(version string) (Adapter, error) {
	switch version {
	case "v1alpha2", "":
		return V1alpha2{}, nil
	case "v1alpha1":
		return V1alpha1{}, nil
	}
	return nil, fmt.Errorf("unsupported api version %q", version)
}

func unexpectedType(want string, obj interface{}) error {
	return fmt.Errorf("expected %s, got %T", want, obj)
}

package crd

import (
	"fmt"
	"strings"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha1"
	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
)

// Kinds served by the operator.
const (
	KindCloudSecret         = "CloudSecret"
	KindCloudSecretProvider = "CloudSecretProvider"
)

// DefaultStorageVersion is the stored API version.
var DefaultStorageVersion = v1alpha2.GroupVersion.Version

type versionSchemas struct {
	v1alpha1 func() apiextensionsv1.JSONSchemaProps
	v1alpha2 func() apiextensionsv1.JSONSchemaProps
}

type definition struct {
	names   apiextensionsv1.CustomResourceDefinitionNames
	scope   apiextensionsv1.ResourceScope
	schemas versionSchemas
	columns map[string][]apiextensionsv1.CustomResourceColumnDefinition
}

var definitions = map[string]definition{
	KindCloudSecret: {
		names: apiextensionsv1.CustomResourceDefinitionNames{
			Kind:       KindCloudSecret,
			ListKind:   "CloudSecretList",
			Plural:     "cloudsecrets",
			Singular:   "cloudsecret",
			ShortNames: []string{"cs"},
		},
		scope:   apiextensionsv1.NamespaceScoped,
		schemas: versionSchemas{v1alpha1: legacySecretSchema, v1alpha2: secretSchema},
		columns: map[string][]apiextensionsv1.CustomResourceColumnDefinition{
			"v1alpha1": {
				{Name: "Synced", Type: "boolean", JSONPath: ".status.conditions[-1:].synced"},
				{Name: "Last Sync Time", Type: "string", JSONPath: ".status.conditions[-1:].last_sync_time"},
			},
			"v1alpha2": {
				{Name: "Last Sync Time", Type: "string", JSONPath: ".status.lastSyncTime"},
				{Name: "Status", Type: "string", JSONPath: ".status.conditions[?(@.type == 'Synced')].reason"},
			},
		},
	},
	KindCloudSecretProvider: {
		names: apiextensionsv1.CustomResourceDefinitionNames{
			Kind:       KindCloudSecretProvider,
			ListKind:   "CloudSecretProviderList",
			Plural:     "cloudsecretproviders",
			Singular:   "cloudsecretprovider",
			ShortNames: []string{"csp"},
		},
		scope:   apiextensionsv1.ClusterScoped,
		schemas: versionSchemas{v1alpha1: legacyProviderSchema, v1alpha2: providerSchema},
		columns: map[string][]apiextensionsv1.CustomResourceColumnDefinition{
			"v1alpha1": {
				{Name: "Ready", Type: "boolean", JSONPath: ".status.conditions[-1:].ready"},
			},
			"v1alpha2": {
				{Name: "Provider Type", Type: "string", JSONPath: ".spec.provider"},
				{Name: "Ready", Type: "string", JSONPath: ".status.conditions[?(@.type == 'Ready')].status"},
			},
		},
	},
}

// Kinds returns the names of the kinds a CRD can be built for.
func Kinds() []string {
	return []string{KindCloudSecret, KindCloudSecretProvider}
}

// For returns the CRD of the kind, matched case-insensitively, storing the
// given version.
func For(kind, storageVersion string) (*apiextensionsv1.CustomResourceDefinition, error) {
	var def definition
	found := false
	for name, d := range definitions {
		if strings.EqualFold(name, kind) {
			def, found = d, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("unknown kind %q, must be one of %s", kind, strings.Join(Kinds(), ", "))
	}
	if storageVersion == "" {
		storageVersion = DefaultStorageVersion
	}
	if storageVersion != v1alpha1.GroupVersion.Version && storageVersion != v1alpha2.GroupVersion.Version {
		return nil, fmt.Errorf("unknown storage version %q", storageVersion)
	}

	versions := []apiextensionsv1.CustomResourceDefinitionVersion{
		version(v1alpha1.GroupVersion.Version, def.schemas.v1alpha1(), def.columns, storageVersion),
		version(v1alpha2.GroupVersion.Version, def.schemas.v1alpha2(), def.columns, storageVersion),
	}

	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: apiextensionsv1.SchemeGroupVersion.String(),
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: def.names.Plural + "." + v1alpha2.GroupVersion.Group,
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group:    v1alpha2.GroupVersion.Group,
			Names:    def.names,
			Scope:    def.scope,
			Versions: versions,
		},
	}, nil
}

// YAML returns the CRD of the kind as a YAML document.
func YAML(kind, storageVersion string) ([]byte, error) {
	crd, err := For(kind, storageVersion)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(crd)
}

func version(name string, schema apiextensionsv1.JSONSchemaProps, columns map[string][]apiextensionsv1.CustomResourceColumnDefinition, storage string) apiextensionsv1.CustomResourceDefinitionVersion {
	return apiextensionsv1.CustomResourceDefinitionVersion{
		Name:    name,
		Served:  true,
		Storage: name == storage,
		Schema: &apiextensionsv1.CustomResourceValidation{
			OpenAPIV3Schema: &schema,
		},
		Subresources: &apiextensionsv1.CustomResourceSubresources{
			Status: &apiextensionsv1.CustomResourceSubresourceStatus{},
		},
		AdditionalPrinterColumns: columns[name],
	}
}

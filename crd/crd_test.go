package crd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"sigs.k8s.io/yaml"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name           string
		kind           string
		storageVersion string
		wantName       string
		wantScope      apiextensionsv1.ResourceScope
		wantShortName  string
		wantStored     string
		wantErr        bool
	}{
		{
			name:          "cloud secret",
			kind:          "CloudSecret",
			wantName:      "cloudsecrets.64f.dev",
			wantScope:     apiextensionsv1.NamespaceScoped,
			wantShortName: "cs",
			wantStored:    "v1alpha2",
		},
		{
			name:           "provider stored as v1alpha1",
			kind:           "cloudsecretprovider",
			storageVersion: "v1alpha1",
			wantName:       "cloudsecretproviders.64f.dev",
			wantScope:      apiextensionsv1.ClusterScoped,
			wantShortName:  "csp",
			wantStored:     "v1alpha1",
		},
		{
			name:    "unknown kind",
			kind:    "Secret",
			wantErr: true,
		},
		{
			name:           "unknown storage version",
			kind:           "CloudSecret",
			storageVersion: "v1",
			wantErr:        true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			crd, err := For(tc.kind, tc.storageVersion)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tc.wantName, crd.Name)
			assert.Equal(t, tc.wantScope, crd.Spec.Scope)
			assert.Equal(t, []string{tc.wantShortName}, crd.Spec.Names.ShortNames)
			require.Len(t, crd.Spec.Versions, 2)

			stored := 0
			for _, v := range crd.Spec.Versions {
				assert.True(t, v.Served, v.Name)
				require.NotNil(t, v.Subresources, v.Name)
				assert.NotNil(t, v.Subresources.Status, v.Name)
				require.NotNil(t, v.Schema, v.Name)
				assert.Contains(t, v.Schema.OpenAPIV3Schema.Properties, "spec", v.Name)
				if v.Storage {
					stored++
					assert.Equal(t, tc.wantStored, v.Name)
				}
			}
			assert.Equal(t, 1, stored)
		})
	}
}

func TestCloudSecretSchema(t *testing.T) {
	crd, err := For(KindCloudSecret, "")
	require.NoError(t, err)

	v := crd.Spec.Versions[1]
	require.Equal(t, "v1alpha2", v.Name)
	spec := v.Schema.OpenAPIV3Schema.Properties["spec"]

	assert.Equal(t, []string{"source"}, spec.Required)
	refresh := spec.Properties["refreshInterval"]
	assert.Equal(t, intervalPattern, refresh.Pattern)
	require.NotNil(t, refresh.Default)
	assert.JSONEq(t, `"3m"`, string(refresh.Default.Raw))

	key := spec.Properties["keys"].Items.Schema
	assert.Equal(t, intervalPattern, key.Properties["rotateInterval"].Pattern)

	validate := spec.Properties["actions"].Properties["validate"]
	require.NotNil(t, validate.Properties["minimum"].Minimum)
	assert.Equal(t, float64(0), *validate.Properties["minimum"].Minimum)
	assert.Equal(t, float64(1), *validate.Properties["maximum"].Minimum)
	require.NotNil(t, validate.Properties["container"].XPreserveUnknownFields)
	assert.True(t, *validate.Properties["container"].XPreserveUnknownFields)

	var columns []string
	for _, c := range v.AdditionalPrinterColumns {
		columns = append(columns, c.Name)
	}
	assert.Equal(t, []string{"Last Sync Time", "Status"}, columns)
	assert.Equal(t, ".status.conditions[?(@.type == 'Synced')].reason", v.AdditionalPrinterColumns[1].JSONPath)
}

func TestLegacySchema(t *testing.T) {
	crd, err := For(KindCloudSecret, "")
	require.NoError(t, err)

	v := crd.Spec.Versions[0]
	require.Equal(t, "v1alpha1", v.Name)
	spec := v.Schema.OpenAPIV3Schema.Properties["spec"]
	assert.Contains(t, spec.Properties, "secret_name")
	assert.Contains(t, spec.Properties, "refresh_interval")
	assert.Equal(t, []string{"key"}, spec.Properties["source"].Required)
}

func TestYAML(t *testing.T) {
	out, err := YAML(KindCloudSecretProvider, "")
	require.NoError(t, err)

	var crd apiextensionsv1.CustomResourceDefinition
	require.NoError(t, yaml.Unmarshal(out, &crd))
	assert.Equal(t, "CustomResourceDefinition", crd.Kind)
	assert.Equal(t, "apiextensions.k8s.io/v1", crd.APIVersion)
	assert.Equal(t, "CloudSecretProvider", crd.Spec.Names.Kind)
	assert.Equal(t, "64f.dev", crd.Spec.Group)

	_, err = YAML("Unknown", "")
	assert.Error(t, err)
}

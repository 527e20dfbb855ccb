package cloudsecret

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/pointer"

	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
)

func cloudSecret(mutate func(*v1alpha2.CloudSecret)) *v1alpha2.CloudSecret {
	cs := &v1alpha2.CloudSecret{
		ObjectMeta: metav1.ObjectMeta{Name: "db-creds", Namespace: "app"},
		Spec: v1alpha2.CloudSecretSpec{
			Source: v1alpha2.SourceSpec{Name: "prod/db"},
			Keys:   []v1alpha2.KeySpec{{Name: "password"}},
		},
	}
	if mutate != nil {
		mutate(cs)
	}
	return cs
}

func TestSecretDefaults(t *testing.T) {
	cases := []struct {
		name         string
		cs           *v1alpha2.CloudSecret
		wantSecret   string
		wantInterval string
	}{
		{
			name:         "unset",
			cs:           cloudSecret(nil),
			wantSecret:   "db-creds",
			wantInterval: "3m",
		},
		{
			name: "kept",
			cs: cloudSecret(func(cs *v1alpha2.CloudSecret) {
				cs.Spec.SecretName = "db"
				cs.Spec.RefreshInterval = "1h"
			}),
			wantSecret:   "db",
			wantInterval: "1h",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := SecretWebhook{}
			require.True(t, w.RequireDefaulting(tc.cs))
			for _, f := range w.Default() {
				f(context.TODO(), tc.cs)
			}
			assert.Equal(t, tc.wantSecret, tc.cs.Spec.SecretName)
			assert.Equal(t, tc.wantInterval, tc.cs.Spec.RefreshInterval)
		})
	}
}

func TestSecretValidation(t *testing.T) {
	cases := []struct {
		name    string
		cs      *v1alpha2.CloudSecret
		wantErr []string
	}{
		{
			name: "valid",
			cs:   cloudSecret(nil),
		},
		{
			name: "bounds",
			cs: cloudSecret(func(cs *v1alpha2.CloudSecret) {
				cs.Spec.Keys[0].Actions = &v1alpha2.ActionsSpec{
					Create: &v1alpha2.ActionSpec{Minimum: pointer.Int64(10), Maximum: pointer.Int64(5)},
				}
			}),
			wantErr: []string{"keys[0].actions.create", "minimum 10 is greater than maximum 5"},
		},
		{
			name: "pattern",
			cs: cloudSecret(func(cs *v1alpha2.CloudSecret) {
				cs.Spec.Actions = &v1alpha2.ActionsSpec{
					Validate: &v1alpha2.ActionSpec{Pattern: pointer.String("[a-z")},
				}
			}),
			wantErr: []string{"actions.validate.pattern"},
		},
		{
			name: "intervals and source",
			cs: cloudSecret(func(cs *v1alpha2.CloudSecret) {
				cs.Spec.Source.Name = ""
				cs.Spec.RefreshInterval = "10s"
				cs.Spec.Keys[0].RotateInterval = "soon"
			}),
			wantErr: []string{"source.name", "refreshInterval", "keys[0].rotateInterval"},
		},
	}

	w := SecretWebhook{}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			createErr := w.ValidateCreate()[0](context.TODO(), tc.cs)
			updateErr := w.ValidateUpdate()[0](context.TODO(), tc.cs, cloudSecret(nil))
			if len(tc.wantErr) == 0 {
				assert.NoError(t, createErr)
				assert.NoError(t, updateErr)
				return
			}
			require.Error(t, createErr)
			require.Error(t, updateErr)
			assert.Contains(t, createErr.Error(), "invalid CloudSecret app/db-creds")
			for _, want := range tc.wantErr {
				assert.Contains(t, createErr.Error(), want)
				assert.Contains(t, updateErr.Error(), want)
			}
		})
	}
}

func TestSkipsDeletedObjects(t *testing.T) {
	cs := cloudSecret(nil)
	now := metav1.Now()
	cs.DeletionTimestamp = &now

	assert.False(t, SecretWebhook{}.RequireValidating(cs))
	assert.False(t, SecretWebhook{}.RequireDefaulting(cs))
}

func TestProviderValidation(t *testing.T) {
	cases := []struct {
		name    string
		spec    v1alpha2.ProviderSpec
		wantErr string
	}{
		{
			name: "valid",
			spec: v1alpha2.ProviderSpec{AWSSecretsManager: &v1alpha2.AWSSecretsManagerProvider{Region: "eu-west-1"}},
		},
		{
			name:    "no provider",
			wantErr: "no supported provider configured",
		},
		{
			name:    "no region",
			spec:    v1alpha2.ProviderSpec{AWSSecretsManager: &v1alpha2.AWSSecretsManagerProvider{}},
			wantErr: "region: must be set",
		},
		{
			name: "partial irsa",
			spec: v1alpha2.ProviderSpec{AWSSecretsManager: &v1alpha2.AWSSecretsManagerProvider{
				Region: "eu-west-1",
				Auth:   &v1alpha2.AWSAuthConfig{IRSA: &v1alpha2.IRSAConfig{RoleARN: "arn:aws:iam::123456789012:role/cloudsecret"}},
			}},
			wantErr: "service account and role ARN must be set together",
		},
	}

	w := ProviderWebhook{}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := &v1alpha2.CloudSecretProvider{
				ObjectMeta: metav1.ObjectMeta{Name: "default"},
				Spec:       v1alpha2.CloudSecretProviderSpec{Provider: tc.spec},
			}
			err := w.ValidateCreate()[0](context.TODO(), p)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.False(t, w.RequireDefaulting(p))
		})
	}
}

package cloudsecret

import (
	"context"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/webhook"

	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
	"github.com/darkowlzz/cloudsecret-operator/convert"
	"github.com/darkowlzz/cloudsecret-operator/model"
	csadmission "github.com/darkowlzz/cloudsecret-operator/webhook/admission"
	"github.com/darkowlzz/cloudsecret-operator/webhook/builder"
)

// Webhook paths.
const (
	MutateSecretPath     = "/mutate-64f-dev-v1alpha2-cloudsecret"
	ValidateSecretPath   = "/validate-64f-dev-v1alpha2-cloudsecret"
	ValidateProviderPath = "/validate-64f-dev-v1alpha2-cloudsecretprovider"
)

// SecretWebhook defaults and validates CloudSecrets.
type SecretWebhook struct{}

var _ csadmission.Controller = SecretWebhook{}

func (SecretWebhook) Name() string { return "cloudsecret" }

func (SecretWebhook) GetNewObject() client.Object { return &v1alpha2.CloudSecret{} }

func (SecretWebhook) RequireDefaulting(obj client.Object) bool {
	return obj.GetDeletionTimestamp() == nil
}

func (SecretWebhook) Default() []csadmission.DefaultFunc {
	return []csadmission.DefaultFunc{defaultSecretName, defaultRefreshInterval}
}

func (SecretWebhook) RequireValidating(obj client.Object) bool {
	return obj.GetDeletionTimestamp() == nil
}

func (SecretWebhook) ValidateCreate() []csadmission.ValidateCreateFunc {
	return []csadmission.ValidateCreateFunc{validateSecret}
}

func (SecretWebhook) ValidateUpdate() []csadmission.ValidateUpdateFunc {
	return []csadmission.ValidateUpdateFunc{
		func(ctx context.Context, obj, _ client.Object) error {
			return validateSecret(ctx, obj)
		},
	}
}

// defaultSecretName names the derived secret after the CloudSecret.
func defaultSecretName(_ context.Context, obj client.Object) {
	cs, ok := obj.(*v1alpha2.CloudSecret)
	if !ok || cs.Spec.SecretName != "" || cs.Name == "" {
		return
	}
	cs.Spec.SecretName = cs.Name
}

func defaultRefreshInterval(_ context.Context, obj client.Object) {
	cs, ok := obj.(*v1alpha2.CloudSecret)
	if !ok || cs.Spec.RefreshInterval != "" {
		return
	}
	cs.Spec.RefreshInterval = string(model.DefaultRefreshInterval)
}

func validateSecret(_ context.Context, obj client.Object) error {
	// The provider name doesn't take part in validation.
	r, err := convert.V1alpha2{}.SecretToModel(obj, "")
	if err != nil {
		return err
	}
	if err := model.Validate(r); err != nil {
		return fmt.Errorf("invalid CloudSecret %s: %w", client.ObjectKeyFromObject(obj), err)
	}
	return nil
}

// ProviderWebhook validates CloudSecretProviders.
type ProviderWebhook struct{}

var _ csadmission.Controller = ProviderWebhook{}

func (ProviderWebhook) Name() string { return "cloudsecretprovider" }

func (ProviderWebhook) GetNewObject() client.Object { return &v1alpha2.CloudSecretProvider{} }

func (ProviderWebhook) RequireDefaulting(client.Object) bool { return false }

func (ProviderWebhook) Default() []csadmission.DefaultFunc { return nil }

func (ProviderWebhook) RequireValidating(obj client.Object) bool {
	return obj.GetDeletionTimestamp() == nil
}

func (ProviderWebhook) ValidateCreate() []csadmission.ValidateCreateFunc {
	return []csadmission.ValidateCreateFunc{validateProvider}
}

func (ProviderWebhook) ValidateUpdate() []csadmission.ValidateUpdateFunc {
	return []csadmission.ValidateUpdateFunc{
		func(ctx context.Context, obj, _ client.Object) error {
			return validateProvider(ctx, obj)
		},
	}
}

func validateProvider(_ context.Context, obj client.Object) error {
	p, err := convert.V1alpha2{}.ProviderToModel(obj)
	if err != nil {
		return err
	}
	if err := model.ValidateProvider(p); err != nil {
		return fmt.Errorf("invalid CloudSecretProvider %s: %w", obj.GetName(), err)
	}
	return nil
}

// Register registers the webhooks of both resources with the server.
func Register(server *webhook.Server) error {
	if err := builder.WebhookManagedBy(server).
		MutatePath(MutateSecretPath).
		ValidatePath(ValidateSecretPath).
		Complete(SecretWebhook{}); err != nil {
		return err
	}
	return builder.WebhookManagedBy(server).
		ValidatePath(ValidateProviderPath).
		Complete(ProviderWebhook{})
}

package convert

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
	"github.com/darkowlzz/cloudsecret-operator/model"
)

// V1alpha2 is the Adapter of the v1alpha2 API.
type V1alpha2 struct{}

var _ Adapter = V1alpha2{}

func (V1alpha2) Version() string { return v1alpha2.GroupVersion.Version }

func (V1alpha2) NewSecret() client.Object           { return &v1alpha2.CloudSecret{} }
func (V1alpha2) NewSecretList() client.ObjectList   { return &v1alpha2.CloudSecretList{} }
func (V1alpha2) NewProvider() client.Object         { return &v1alpha2.CloudSecretProvider{} }
func (V1alpha2) NewProviderList() client.ObjectList { return &v1alpha2.CloudSecretProviderList{} }

func (V1alpha2) SecretToModel(obj client.Object, defaultProvider string) (*model.SecretResource, error) {
	cs, ok := obj.(*v1alpha2.CloudSecret)
	if !ok {
		return nil, unexpectedType("*v1alpha2.CloudSecret", obj)
	}
	return SecretFromV1alpha2(cs, defaultProvider), nil
}

// SecretFromV1alpha2 converts a v1alpha2 CloudSecret into the model.
func SecretFromV1alpha2(cs *v1alpha2.CloudSecret, defaultProvider string) *model.SecretResource {
	r := &model.SecretResource{
		Name:            cs.Name,
		Namespace:       cs.Namespace,
		UID:             cs.UID,
		Generation:      cs.Generation,
		Description:     cs.Spec.Description,
		Provider:        cs.Spec.Source.Provider,
		SourceName:      cs.Spec.Source.Name,
		TargetSecret:    cs.Spec.SecretName,
		Strict:          cs.Spec.Strict != nil && *cs.Spec.Strict,
		RefreshInterval: model.Interval(cs.Spec.RefreshInterval).OrDefault(model.DefaultRefreshInterval),
		Actions:         actionsFromV1alpha2(cs.Spec.Actions),
		Status: model.Status{
			TargetSecretName: cs.Status.TargetSecretName,
			Conditions:       append([]metav1.Condition(nil), cs.Status.Conditions...),
			LastSyncTime:     cs.Status.LastSyncTime.DeepCopy(),
			VersionID:        cs.Status.VersionID,
		},
	}
	if r.Provider == "" {
		r.Provider = defaultProvider
	}
	for _, k := range cs.Spec.Keys {
		r.Keys = append(r.Keys, model.KeySpec{
			Source:         k.Name,
			Target:         k.TargetName,
			Description:    k.Description,
			RotateInterval: model.Interval(k.RotateInterval),
			Actions:        actionsFromV1alpha2(k.Actions),
		})
	}
	return r
}

func actionsFromV1alpha2(a *v1alpha2.ActionsSpec) *model.ActionsSpec {
	if a == nil {
		return nil
	}
	return &model.ActionsSpec{
		Create:   actionFromV1alpha2(a.Create),
		Rotate:   actionFromV1alpha2(a.Rotate),
		Validate: actionFromV1alpha2(a.Validate),
	}
}

func actionFromV1alpha2(a *v1alpha2.ActionSpec) *model.ActionSpec {
	if a == nil {
		return nil
	}
	c := a.DeepCopy()
	return &model.ActionSpec{
		Pattern:   c.Pattern,
		Validator: c.Container,
		Minimum:   c.Minimum,
		Maximum:   c.Maximum,
	}
}

func (V1alpha2) SecretsFromList(list client.ObjectList) []client.Object {
	l, ok := list.(*v1alpha2.CloudSecretList)
	if !ok {
		return nil
	}
	objs := make([]client.Object, 0, len(l.Items))
	for i := range l.Items {
		objs = append(objs, &l.Items[i])
	}
	return objs
}

func (V1alpha2) WriteSecretStatus(obj client.Object, status model.Status) error {
	cs, ok := obj.(*v1alpha2.CloudSecret)
	if !ok {
		return unexpectedType("*v1alpha2.CloudSecret", obj)
	}
	cs.Status = v1alpha2.CloudSecretStatus{
		TargetSecretName: status.TargetSecretName,
		Conditions:       append([]metav1.Condition(nil), status.Conditions...),
		LastSyncTime:     status.LastSyncTime.DeepCopy(),
		VersionID:        status.VersionID,
	}
	return nil
}

func (V1alpha2) ProviderToModel(obj client.Object) (*model.ProviderResource, error) {
	p, ok := obj.(*v1alpha2.CloudSecretProvider)
	if !ok {
		return nil, unexpectedType("*v1alpha2.CloudSecretProvider", obj)
	}
	r := &model.ProviderResource{
		Name:       p.Name,
		Generation: p.Generation,
		Conditions: append([]metav1.Condition(nil), p.Status.Conditions...),
	}
	if aws := p.Spec.Provider.AWSSecretsManager; aws != nil {
		r.Kind = model.ProviderKindAWSSecretsManager
		r.Region = aws.Region
		if aws.Auth != nil {
			r.Auth = &model.AuthConfig{SecretName: aws.Auth.SecretName}
			if aws.Auth.IRSA != nil {
				r.Auth.ServiceAccountName = aws.Auth.IRSA.ServiceAccountName
				r.Auth.RoleARN = aws.Auth.IRSA.RoleARN
			}
		}
	}
	return r, nil
}

func (V1alpha2) WriteProviderStatus(obj client.Object, conditions []metav1.Condition) error {
	p, ok := obj.(*v1alpha2.CloudSecretProvider)
	if !ok {
		return unexpectedType("*v1alpha2.CloudSecretProvider", obj)
	}
	p.Status.Conditions = append([]metav1.Condition(nil), conditions...)
	return nil
}

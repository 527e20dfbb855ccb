package convert

import (
	"time"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha1"
	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
	"github.com/darkowlzz/cloudsecret-operator/model"
)

// V1alpha1 is the Adapter of the legacy v1alpha1 API. Its status keeps a
// single row, so only the Synced condition survives a round trip.
type V1alpha1 struct{}

var _ Adapter = V1alpha1{}

func (V1alpha1) Version() string { return v1alpha1.GroupVersion.Version }

func (V1alpha1) NewSecret() client.Object           { return &v1alpha1.CloudSecret{} }
func (V1alpha1) NewSecretList() client.ObjectList   { return &v1alpha1.CloudSecretList{} }
func (V1alpha1) NewProvider() client.Object         { return &v1alpha1.CloudSecretProvider{} }
func (V1alpha1) NewProviderList() client.ObjectList { return &v1alpha1.CloudSecretProviderList{} }

func (V1alpha1) SecretToModel(obj client.Object, defaultProvider string) (*model.SecretResource, error) {
	cs, ok := obj.(*v1alpha1.CloudSecret)
	if !ok {
		return nil, unexpectedType("*v1alpha1.CloudSecret", obj)
	}
	r := &model.SecretResource{
		Name:            cs.Name,
		Namespace:       cs.Namespace,
		UID:             cs.UID,
		Generation:      cs.Generation,
		Provider:        defaultProvider,
		SourceName:      cs.Spec.Source.Key,
		TargetSecret:    cs.Spec.SecretName,
		Strict:          cs.Spec.Strict != nil && *cs.Spec.Strict,
		RefreshInterval: model.Interval(cs.Spec.RefreshInterval).OrDefault(model.DefaultRefreshInterval),
		Actions:         foldConfig(cs.Spec.Config),
		Status:          legacyStatusToModel(cs.Status, cs.Generation, cs.Spec.SecretName),
	}
	for _, k := range cs.Spec.Keys {
		r.Keys = append(r.Keys, model.KeySpec{
			Source:         k.Name,
			RotateInterval: model.Interval(k.RotateInterval),
			Actions:        foldConfig(k.Config),
		})
	}
	return r, nil
}

// foldConfig merges a legacy config list into one ActionsSpec. A later entry
// replaces the phase set by an earlier one.
func foldConfig(config []v1alpha1.KeyConfig) *model.ActionsSpec {
	if len(config) == 0 {
		return nil
	}
	a := &model.ActionsSpec{}
	for _, c := range config {
		if c.Create != nil {
			a.Create = actionFromValidationSpec(c.Create)
		}
		if c.Rotate != nil {
			a.Rotate = actionFromValidationSpec(c.Rotate)
		}
		if c.Validate != nil {
			a.Validate = actionFromValidationSpec(c.Validate)
		}
	}
	return a
}

func actionFromValidationSpec(v *v1alpha1.ValidationSpec) *model.ActionSpec {
	c := v.DeepCopy()
	return &model.ActionSpec{Pattern: c.Regex, Validator: c.Container}
}

func legacyStatusToModel(s v1alpha1.CloudSecretStatus, generation int64, secretName string) model.Status {
	st := model.Status{TargetSecretName: secretName}
	if len(s.Conditions) == 0 {
		return st
	}
	row := s.Conditions[len(s.Conditions)-1]
	st.VersionID = row.VersionID
	if t, err := time.Parse(time.RFC3339, row.LastSyncTime); err == nil {
		mt := metav1.NewTime(t)
		st.LastSyncTime = &mt
	}
	cond := metav1.Condition{
		Type:               v1alpha2.SyncedCondition,
		Status:             metav1.ConditionFalse,
		ObservedGeneration: generation,
		Reason:             row.Reason,
		Message:            row.Message,
	}
	if row.Synced {
		cond.Status = metav1.ConditionTrue
	}
	if t, err := time.Parse(time.RFC3339, row.LastUpdateTime); err == nil {
		cond.LastTransitionTime = metav1.NewTime(t)
	}
	st.Conditions = []metav1.Condition{cond}
	return st
}

func (V1alpha1) SecretsFromList(list client.ObjectList) []client.Object {
	l, ok := list.(*v1alpha1.CloudSecretList)
	if !ok {
		return nil
	}
	objs := make([]client.Object, 0, len(l.Items))
	for i := range l.Items {
		objs = append(objs, &l.Items[i])
	}
	return objs
}

func (V1alpha1) WriteSecretStatus(obj client.Object, status model.Status) error {
	cs, ok := obj.(*v1alpha1.CloudSecret)
	if !ok {
		return unexpectedType("*v1alpha1.CloudSecret", obj)
	}
	cond := meta.FindStatusCondition(status.Conditions, v1alpha2.SyncedCondition)
	if cond == nil {
		cond = meta.FindStatusCondition(status.Conditions, v1alpha2.ReconcilingCondition)
	}
	if cond == nil {
		cs.Status.Conditions = nil
		return nil
	}
	row := v1alpha1.CloudSecretStatusCondition{
		Synced:         cond.Type == v1alpha2.SyncedCondition && cond.Status == metav1.ConditionTrue,
		VersionID:      status.VersionID,
		LastUpdateTime: cond.LastTransitionTime.UTC().Format(time.RFC3339),
		Message:        cond.Message,
		Reason:         cond.Reason,
	}
	if status.LastSyncTime != nil {
		row.LastSyncTime = status.LastSyncTime.UTC().Format(time.RFC3339)
	}
	cs.Status.Conditions = []v1alpha1.CloudSecretStatusCondition{row}
	return nil
}

func (V1alpha1) ProviderToModel(obj client.Object) (*model.ProviderResource, error) {
	p, ok := obj.(*v1alpha1.CloudSecretProvider)
	if !ok {
		return nil, unexpectedType("*v1alpha1.CloudSecretProvider", obj)
	}
	r := &model.ProviderResource{
		Name:       p.Name,
		Generation: p.Generation,
		Kind:       model.ProviderKindAWSSecretsManager,
		Region:     p.Spec.Provider.Region,
	}
	if p.Spec.Provider.Auth.SecretName != "" {
		r.Auth = &model.AuthConfig{SecretName: p.Spec.Provider.Auth.SecretName}
	}
	if n := len(p.Status.Conditions); n > 0 {
		row := p.Status.Conditions[n-1]
		cond := metav1.Condition{
			Type:               v1alpha2.ReadyCondition,
			Status:             metav1.ConditionFalse,
			ObservedGeneration: p.Generation,
			Reason:             row.Reason,
			Message:            row.Message,
		}
		if row.Ready {
			cond.Status = metav1.ConditionTrue
		}
		if t, err := time.Parse(time.RFC3339, row.LastUpdateTime); err == nil {
			cond.LastTransitionTime = metav1.NewTime(t)
		}
		r.Conditions = []metav1.Condition{cond}
	}
	return r, nil
}

func (V1alpha1) WriteProviderStatus(obj client.Object, conditions []metav1.Condition) error {
	p, ok := obj.(*v1alpha1.CloudSecretProvider)
	if !ok {
		return unexpectedType("*v1alpha1.CloudSecretProvider", obj)
	}
	cond := meta.FindStatusCondition(conditions, v1alpha2.ReadyCondition)
	if cond == nil {
		p.Status.Conditions = nil
		return nil
	}
	p.Status.Conditions = []v1alpha1.CloudSecretProviderStatusCondition{{
		Ready:          cond.Status == metav1.ConditionTrue,
		LastUpdateTime: cond.LastTransitionTime.UTC().Format(time.RFC3339),
		Message:        cond.Message,
		Reason:         cond.Reason,
	}}
	return nil
}

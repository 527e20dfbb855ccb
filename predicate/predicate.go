package predicate

import (
	"reflect"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
)

var log = ctrl.Log.WithName("predicate").WithName("eventFilters")

// SecretDataChangedPredicate implements an update predicate for derived
// secrets. It skips update events that change neither the data nor the
// annotations of the secret, so that edits made by someone else are reverted
// while metadata-only churn is ignored.
//
// Controller.Watch(
//		&source.Kind{Type: &corev1.Secret{}},
//		&handler.EnqueueRequestForOwner{OwnerType: &v1alpha2.CloudSecret{}, IsController: true},
//		predicate.SecretDataChangedPredicate{})
type SecretDataChangedPredicate struct {
	predicate.Funcs
}

func (SecretDataChangedPredicate) Update(e event.UpdateEvent) bool {
	if e.ObjectOld == nil {
		log.Error(nil, "Update event has no old object to update", "event", e)
		return false
	}
	if e.ObjectNew == nil {
		log.Error(nil, "Update event has no new object to update", "event", e)
		return false
	}

	oldSecret, ok := e.ObjectOld.(*corev1.Secret)
	if !ok {
		return true
	}
	newSecret, ok := e.ObjectNew.(*corev1.Secret)
	if !ok {
		return true
	}
	return !reflect.DeepEqual(oldSecret.Data, newSecret.Data) ||
		!reflect.DeepEqual(oldSecret.Annotations, newSecret.Annotations)
}

// DeletionHook calls OnDelete with the identity of every deleted object and
// lets the event through.
type DeletionHook struct {
	predicate.Funcs
	OnDelete func(types.NamespacedName)
}

func (h DeletionHook) Delete(e event.DeleteEvent) bool {
	if e.Object == nil {
		log.Error(nil, "Delete event has no object", "event", e)
		return false
	}
	if h.OnDelete != nil {
		h.OnDelete(client.ObjectKeyFromObject(e.Object))
	}
	return true
}

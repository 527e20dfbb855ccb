// Package object provides helpers over API objects that don't depend on
// their version.
package object

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/pointer"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
)

// ControllerReference returns a controller owner reference to obj. The kind
// is looked up in the scheme since typed objects read through a client have
// an empty TypeMeta.
func ControllerReference(scheme *runtime.Scheme, obj client.Object) (metav1.OwnerReference, error) {
	gvk, err := apiutil.GVKForObject(obj, scheme)
	if err != nil {
		return metav1.OwnerReference{}, fmt.Errorf("failed to get kind of %s: %w", obj.GetName(), err)
	}
	return metav1.OwnerReference{
		APIVersion:         gvk.GroupVersion().String(),
		Kind:               gvk.Kind,
		Name:               obj.GetName(),
		UID:                obj.GetUID(),
		Controller:         pointer.Bool(true),
		BlockOwnerDeletion: pointer.Bool(true),
	}, nil
}

// IsControlledBy returns true if obj has a controller reference to owner.
func IsControlledBy(obj, owner client.Object) bool {
	ref := metav1.GetControllerOf(obj)
	return ref != nil && ref.UID == owner.GetUID()
}

// Status returns the status of an object as a map. A missing status is an
// empty map.
func Status(obj runtime.Object) (map[string]interface{}, error) {
	u, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %T to unstructured: %w", obj, err)
	}
	status, found, err := unstructured.NestedMap(u, "status")
	if err != nil {
		return nil, fmt.Errorf("error reading object status: %w", err)
	}
	if !found {
		return map[string]interface{}{}, nil
	}
	return status, nil
}

// StatusChanged returns true if the status of the given objects differ.
func StatusChanged(oldo, newo runtime.Object) (bool, error) {
	oldStatus, err := Status(oldo)
	if err != nil {
		return false, err
	}
	newStatus, err := Status(newo)
	if err != nil {
		return false, err
	}
	return !equality.Semantic.DeepEqual(oldStatus, newStatus), nil
}

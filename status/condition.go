package status

import (
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SetCondition adds c to conditions or replaces the condition of the same
// type. The transition time of a replaced condition is set to now only when
// the status or the reason changes. It returns true if conditions changed.
func SetCondition(conditions *[]metav1.Condition, c metav1.Condition, now metav1.Time) bool {
	existing := meta.FindStatusCondition(*conditions, c.Type)
	if existing == nil {
		if c.LastTransitionTime.IsZero() {
			c.LastTransitionTime = now
		}
		*conditions = append(*conditions, c)
		return true
	}

	changed := false
	if existing.Status != c.Status || existing.Reason != c.Reason {
		existing.Status = c.Status
		existing.Reason = c.Reason
		existing.LastTransitionTime = now
		changed = true
	}
	if existing.Message != c.Message {
		existing.Message = c.Message
		changed = true
	}
	if existing.ObservedGeneration != c.ObservedGeneration {
		existing.ObservedGeneration = c.ObservedGeneration
		changed = true
	}
	return changed
}

// IsCurrent returns true if the condition of the given type exists and was
// observed for generation.
func IsCurrent(conditions []metav1.Condition, condType string, generation int64) bool {
	c := meta.FindStatusCondition(conditions, condType)
	return c != nil && c.ObservedGeneration == generation
}

package v1

import (
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
)

const (
	K8sEventTypeNormal  = "Normal"
	K8sEventTypeWarning = "Warning"
)

// ReconcilerEvent represents the action of the controller having actually done
// anything. Any meaningful change should have an associated event.
type ReconcilerEvent interface {

	// Record this into an event recorder as a Kubernetes API event
	Record(recorder record.EventRecorder)
}

// SecretApplied is recorded when the derived secret was written.
type SecretApplied struct {
	Object runtime.Object
	Secret string
	Reason string
	Keys   int
}

func (e SecretApplied) Record(recorder record.EventRecorder) {
	recorder.Eventf(e.Object, K8sEventTypeNormal, e.Reason, "Applied %d key(s) to secret %s", e.Keys, e.Secret)
}

// KeysRotated is recorded when key values were regenerated.
type KeysRotated struct {
	Object runtime.Object
	Keys   []string
}

func (e KeysRotated) Record(recorder record.EventRecorder) {
	recorder.Eventf(e.Object, K8sEventTypeNormal, "SecretRotated", "Rotated keys %v", e.Keys)
}

// SyncFailed is recorded when a phase failed.
type SyncFailed struct {
	Object  runtime.Object
	Reason  string
	Message string
}

func (e SyncFailed) Record(recorder record.EventRecorder) {
	recorder.Event(e.Object, K8sEventTypeWarning, e.Reason, e.Message)
}

// ProviderReady is recorded when the Ready condition of a provider changed.
type ProviderReady struct {
	Object  runtime.Object
	Ready   bool
	Reason  string
	Message string
}

func (e ProviderReady) Record(recorder record.EventRecorder) {
	eventType := K8sEventTypeNormal
	if !e.Ready {
		eventType = K8sEventTypeWarning
	}
	recorder.Event(e.Object, eventType, e.Reason, e.Message)
}

// Package controller holds helpers shared by the CloudSecret and
// CloudSecretProvider reconcilers.
package controller

import (
	"time"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
)

// LogReconcileFinish logs the outcome of a reconciliation that started at
// start. Failed reconciliations are logged at a lower verbosity than
// successful ones.
func LogReconcileFinish(log logr.Logger, msg string, start time.Time, result *ctrl.Result, e *error) {
	kvs := []interface{}{"execution-time", time.Since(start).String()}
	if result != nil && result.RequeueAfter > 0 {
		kvs = append(kvs, "requeue-after", result.RequeueAfter.String())
	}
	if e != nil && *e != nil {
		log.V(1).Info(msg, append(kvs, "error", (*e).Error())...)
		return
	}
	log.V(4).Info(msg, kvs...)
}

// Package builder registers the webhooks of an admission Controller with the
// webhook server of a manager.
package builder

import ctrl "sigs.k8s.io/controller-runtime"

var log = ctrl.Log.WithName("webhook").WithName("builder")

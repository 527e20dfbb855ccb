package admission

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

// DefaultFunc sets defaults on obj in place.
type DefaultFunc func(ctx context.Context, obj client.Object)

// Defaulter contributes the defaulting pipeline of a kind.
type Defaulter interface {
	ObjectGetter
	Default() []DefaultFunc
	// RequireDefaulting returns false for objects the pipeline must skip.
	RequireDefaulting(obj client.Object) bool
}

// DefaultingWebhookFor returns a webhook answering with the JSON patch
// produced by the pipeline of d.
func DefaultingWebhookFor(d Defaulter) *admission.Webhook {
	return &admission.Webhook{Handler: &defaultingHandler{defaulter: d}}
}

type defaultingHandler struct {
	decoding
	defaulter Defaulter
}

func (h *defaultingHandler) Handle(ctx context.Context, req admission.Request) admission.Response {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "admission.Default")
	defer span.End()
	addRequestInfoIntoSpan(span, req.AdmissionRequest)

	// The namespace of the request isn't set on the object, the patch would
	// carry it.
	obj, resp := h.decode(span, h.defaulter, "", req.Object)
	if resp != nil {
		return *resp
	}
	if !h.defaulter.RequireDefaulting(obj) {
		return admission.Allowed("")
	}

	pipeline := h.defaulter.Default()
	span.SetAttributes(attribute.Int("pipeline-length", len(pipeline)))
	for _, f := range pipeline {
		f(ctx, obj)
	}

	defaulted, err := json.Marshal(obj)
	if err != nil {
		span.RecordError(err)
		return admission.Errored(http.StatusInternalServerError, err)
	}
	return admission.PatchResponseFromRaw(req.Object.Raw, defaulted)
}

package admission

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	admissionv1 "k8s.io/api/admission/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

// ValidateCreateFunc rejects a new object by returning an error.
type ValidateCreateFunc func(ctx context.Context, obj client.Object) error

// ValidateUpdateFunc rejects a change from oldObj to obj by returning an
// error.
type ValidateUpdateFunc func(ctx context.Context, obj client.Object, oldObj client.Object) error

// Validator contributes the validation pipelines of a kind. Deletes are
// always allowed.
type Validator interface {
	ObjectGetter
	ValidateCreate() []ValidateCreateFunc
	ValidateUpdate() []ValidateUpdateFunc
	// RequireValidating returns false for objects the pipelines must skip.
	RequireValidating(obj client.Object) bool
}

// ValidatingWebhookFor returns a webhook that denies requests failing the
// pipelines of v.
func ValidatingWebhookFor(v Validator) *admission.Webhook {
	return &admission.Webhook{Handler: &validatingHandler{validator: v}}
}

type validatingHandler struct {
	decoding
	validator Validator
}

func (h *validatingHandler) Handle(ctx context.Context, req admission.Request) admission.Response {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "admission.Validate")
	defer span.End()
	addRequestInfoIntoSpan(span, req.AdmissionRequest)

	var err error
	switch req.Operation {
	case admissionv1.Create:
		obj, resp := h.decode(span, h.validator, req.Namespace, req.Object)
		if resp != nil {
			return *resp
		}
		if h.validator.RequireValidating(obj) {
			err = h.create(ctx, span, obj)
		}
	case admissionv1.Update:
		obj, resp := h.decode(span, h.validator, req.Namespace, req.Object)
		if resp != nil {
			return *resp
		}
		oldObj, resp := h.decode(span, h.validator, req.Namespace, req.OldObject)
		if resp != nil {
			return *resp
		}
		if h.validator.RequireValidating(obj) {
			err = h.update(ctx, span, obj, oldObj)
		}
	}

	span.SetAttributes(attribute.Bool("allowed", err == nil))
	if err != nil {
		span.RecordError(err)
		return denied(err)
	}
	return admission.Allowed("")
}

func (h *validatingHandler) create(ctx context.Context, span trace.Span, obj client.Object) error {
	pipeline := h.validator.ValidateCreate()
	span.SetAttributes(attribute.Int("pipeline-length", len(pipeline)))
	for _, f := range pipeline {
		if err := f(ctx, obj); err != nil {
			return err
		}
	}
	return nil
}

func (h *validatingHandler) update(ctx context.Context, span trace.Span, obj, oldObj client.Object) error {
	pipeline := h.validator.ValidateUpdate()
	span.SetAttributes(attribute.Int("pipeline-length", len(pipeline)))
	for _, f := range pipeline {
		if err := f(ctx, obj, oldObj); err != nil {
			return err
		}
	}
	return nil
}

// denied keeps the status of API status errors.
func denied(err error) admission.Response {
	var apiStatus apierrors.APIStatus
	if errors.As(err, &apiStatus) {
		status := apiStatus.Status()
		return admission.Response{
			AdmissionResponse: admissionv1.AdmissionResponse{
				Allowed: false,
				Result:  &status,
			},
		}
	}
	return admission.Denied(err.Error())
}

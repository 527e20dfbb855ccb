package admission

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	admissionv1 "k8s.io/api/admission/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

const tracerName = "github.com/darkowlzz/cloudsecret-operator/webhook/admission"

// Controller is served by a defaulting and a validating webhook.
type Controller interface {
	Name() string
	Defaulter
	Validator
}

// ObjectGetter returns an empty object of the admitted kind.
type ObjectGetter interface {
	GetNewObject() client.Object
}

// decoding holds the decoder injected by the webhook server.
type decoding struct {
	decoder *admission.Decoder
}

var _ admission.DecoderInjector = &decoding{}

// InjectDecoder implements admission.DecoderInjector.
func (d *decoding) InjectDecoder(dec *admission.Decoder) error {
	d.decoder = dec
	return nil
}

// decode decodes raw into a new object of g in namespace ns. Objects of
// namespaced creates carry no namespace of their own. An empty ns keeps the
// object as sent. A nil response means success.
func (d *decoding) decode(span trace.Span, g ObjectGetter, ns string, raw runtime.RawExtension) (client.Object, *admission.Response) {
	obj := g.GetNewObject()
	if ns != "" {
		obj.SetNamespace(ns)
	}
	if err := d.decoder.DecodeRaw(raw, obj); err != nil {
		span.RecordError(err)
		resp := admission.Errored(http.StatusBadRequest, err)
		return nil, &resp
	}
	return obj, nil
}

func addRequestInfoIntoSpan(s trace.Span, req admissionv1.AdmissionRequest) {
	s.SetAttributes(
		attribute.String("namespace", req.Namespace),
		attribute.String("name", req.Name),
		attribute.String("kind", req.Kind.String()),
		attribute.String("resource", req.Resource.String()),
		attribute.String("uid", string(req.UID)),
		attribute.String("user", req.UserInfo.Username),
		attribute.String("operation", string(req.Operation)),
	)
}

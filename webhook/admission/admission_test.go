package admission

import (
	"context"
	"errors"
	"net/http"
	"testing"

	. "github.com/onsi/gomega"
	admissionv1 "k8s.io/api/admission/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

// fakeController labels ConfigMaps and rejects the ones without data.
type fakeController struct {
	require bool
	calls   int
	updates int
}

func (f *fakeController) Name() string                         { return "fake" }
func (f *fakeController) GetNewObject() client.Object          { return &corev1.ConfigMap{} }
func (f *fakeController) RequireDefaulting(client.Object) bool { return f.require }
func (f *fakeController) RequireValidating(client.Object) bool { return f.require }

func (f *fakeController) Default() []DefaultFunc {
	label := func(key string) DefaultFunc {
		return func(_ context.Context, obj client.Object) {
			f.calls++
			labels := obj.GetLabels()
			if labels == nil {
				labels = map[string]string{}
			}
			labels[key] = "true"
			obj.SetLabels(labels)
		}
	}
	return []DefaultFunc{label("first"), label("second")}
}

func (f *fakeController) ValidateCreate() []ValidateCreateFunc {
	return []ValidateCreateFunc{
		func(_ context.Context, obj client.Object) error {
			f.calls++
			if len(obj.(*corev1.ConfigMap).Data) == 0 {
				return errors.New("data must not be empty")
			}
			return nil
		},
		func(_ context.Context, obj client.Object) error {
			f.calls++
			if obj.GetName() == "forbidden" {
				return apierrors.NewForbidden(schema.GroupResource{Resource: "configmaps"}, obj.GetName(), errors.New("reserved name"))
			}
			return nil
		},
	}
}

func (f *fakeController) ValidateUpdate() []ValidateUpdateFunc {
	return []ValidateUpdateFunc{
		func(_ context.Context, obj, oldObj client.Object) error {
			f.updates++
			if obj.GetName() != oldObj.GetName() {
				return errors.New("name changed")
			}
			return nil
		},
	}
}

func request(op admissionv1.Operation, obj, old string) admission.Request {
	req := admission.Request{AdmissionRequest: admissionv1.AdmissionRequest{
		Operation: op,
		Namespace: "app",
		Object:    runtime.RawExtension{Raw: []byte(obj)},
	}}
	if old != "" {
		req.OldObject = runtime.RawExtension{Raw: []byte(old)}
	}
	return req
}

func message(resp admission.Response) string {
	if resp.Result == nil {
		return ""
	}
	return string(resp.Result.Reason) + resp.Result.Message
}

func TestDefaultingHandler(t *testing.T) {
	decoder, err := admission.NewDecoder(scheme.Scheme)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name        string
		require     bool
		obj         string
		wantAllowed bool
		wantPatches []string
		wantCalls   int
	}{
		{
			name:        "runs every function",
			require:     true,
			obj:         `{"apiVersion":"v1","kind":"ConfigMap","metadata":{"name":"cm","creationTimestamp":null}}`,
			wantAllowed: true,
			wantPatches: []string{"add /metadata/labels"},
			wantCalls:   2,
		},
		{
			name:        "keeps the request namespace out of the patch",
			require:     true,
			obj:         `{"apiVersion":"v1","kind":"ConfigMap","metadata":{"name":"cm","labels":{"first":"true","second":"true"}}}`,
			wantAllowed: true,
			wantPatches: []string{"add /metadata/creationTimestamp"},
			wantCalls:   2,
		},
		{
			name:        "skipped",
			obj:         `{"apiVersion":"v1","kind":"ConfigMap","metadata":{"name":"cm"}}`,
			wantAllowed: true,
		},
		{
			name:    "undecodable",
			require: true,
			obj:     `{"metadata":`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			g := NewWithT(t)
			f := &fakeController{require: tc.require}
			h := &defaultingHandler{defaulter: f}
			g.Expect(h.InjectDecoder(decoder)).To(Succeed())

			resp := h.Handle(context.TODO(), request(admissionv1.Create, tc.obj, ""))
			g.Expect(resp.Allowed).To(Equal(tc.wantAllowed))
			g.Expect(f.calls).To(Equal(tc.wantCalls))
			var patches []string
			for _, p := range resp.Patches {
				patches = append(patches, p.Operation+" "+p.Path)
			}
			g.Expect(patches).To(ConsistOf(tc.wantPatches))
			if !tc.wantAllowed {
				g.Expect(resp.Result.Code).To(Equal(int32(http.StatusBadRequest)))
			}
		})
	}
}

func TestValidatingHandler(t *testing.T) {
	decoder, err := admission.NewDecoder(scheme.Scheme)
	if err != nil {
		t.Fatal(err)
	}

	const (
		valid     = `{"apiVersion":"v1","kind":"ConfigMap","metadata":{"name":"cm"},"data":{"a":"b"}}`
		empty     = `{"apiVersion":"v1","kind":"ConfigMap","metadata":{"name":"cm"}}`
		forbidden = `{"apiVersion":"v1","kind":"ConfigMap","metadata":{"name":"forbidden"},"data":{"a":"b"}}`
		renamed   = `{"apiVersion":"v1","kind":"ConfigMap","metadata":{"name":"other"},"data":{"a":"b"}}`
	)

	cases := []struct {
		name        string
		require     bool
		op          admissionv1.Operation
		obj, old    string
		wantAllowed bool
		wantCode    int32
		wantMessage string
	}{
		{name: "valid create", require: true, op: admissionv1.Create, obj: valid, wantAllowed: true, wantCode: http.StatusOK},
		{name: "invalid create", require: true, op: admissionv1.Create, obj: empty, wantCode: http.StatusForbidden, wantMessage: "data must not be empty"},
		{name: "api status kept", require: true, op: admissionv1.Create, obj: forbidden, wantCode: http.StatusForbidden, wantMessage: "reserved name"},
		{name: "skipped", op: admissionv1.Create, obj: empty, wantAllowed: true, wantCode: http.StatusOK},
		{name: "valid update", require: true, op: admissionv1.Update, obj: valid, old: valid, wantAllowed: true, wantCode: http.StatusOK},
		{name: "invalid update", require: true, op: admissionv1.Update, obj: renamed, old: valid, wantCode: http.StatusForbidden, wantMessage: "name changed"},
		{name: "delete", require: true, op: admissionv1.Delete, obj: empty, wantAllowed: true, wantCode: http.StatusOK},
		{name: "undecodable", require: true, op: admissionv1.Create, obj: `{"metadata":`, wantCode: http.StatusBadRequest},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			g := NewWithT(t)
			f := &fakeController{require: tc.require}
			h := &validatingHandler{validator: f}
			g.Expect(h.InjectDecoder(decoder)).To(Succeed())

			resp := h.Handle(context.TODO(), request(tc.op, tc.obj, tc.old))
			g.Expect(resp.Allowed).To(Equal(tc.wantAllowed))
			g.Expect(resp.Result.Code).To(Equal(tc.wantCode))
			g.Expect(message(resp)).To(ContainSubstring(tc.wantMessage))
		})
	}
}

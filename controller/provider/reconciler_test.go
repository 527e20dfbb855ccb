package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	testingclock "k8s.io/utils/clock/testing"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha1"
	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
	"github.com/darkowlzz/cloudsecret-operator/convert"
	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/model"
	providers "github.com/darkowlzz/cloudsecret-operator/provider"
	providerfake "github.com/darkowlzz/cloudsecret-operator/provider/fake"
)

var (
	t0          = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	defaultName = types.NamespacedName{Name: "default"}
)

type testEnv struct {
	client   client.Client
	clock    *testingclock.FakeClock
	recorder *record.FakeRecorder
	builds   int
	buildErr error
	r        *Reconciler
}

func newTestEnv(t *testing.T, adapter convert.Adapter, objs ...client.Object) *testEnv {
	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))
	require.NoError(t, v1alpha1.AddToScheme(scheme))
	require.NoError(t, v1alpha2.AddToScheme(scheme))
	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(objs...).Build()

	env := &testEnv{
		client:   c,
		clock:    testingclock.NewFakeClock(t0),
		recorder: record.NewFakeRecorder(10),
	}
	fp := providerfake.New()
	builder := func(context.Context, *model.ProviderResource) (providers.Client, error) {
		env.builds++
		if env.buildErr != nil {
			return nil, env.buildErr
		}
		return fp, nil
	}
	factory := providers.NewFactory(c, adapter,
		providers.WithBuilder(model.ProviderKindAWSSecretsManager, builder),
		providers.WithClock(env.clock),
		providers.WithLogger(logr.Discard()),
	)
	env.r = &Reconciler{
		Client:        c,
		Adapter:       adapter,
		Authenticator: factory,
		Recorder:      env.recorder,
		Clock:         env.clock,
		Log:           logr.Discard(),
	}
	return env
}

func (e *testEnv) reconcile(t *testing.T) ctrl.Result {
	t.Helper()
	result, err := e.r.Reconcile(context.TODO(), ctrl.Request{NamespacedName: defaultName})
	require.NoError(t, err)
	return result
}

func (e *testEnv) provider(t *testing.T) *v1alpha2.CloudSecretProvider {
	t.Helper()
	p := &v1alpha2.CloudSecretProvider{}
	require.NoError(t, e.client.Get(context.TODO(), defaultName, p))
	return p
}

func awsProvider(region string) *v1alpha2.CloudSecretProvider {
	p := &v1alpha2.CloudSecretProvider{
		ObjectMeta: metav1.ObjectMeta{Name: defaultName.Name, Generation: 1},
	}
	if region != "" {
		p.Spec.Provider.AWSSecretsManager = &v1alpha2.AWSSecretsManagerProvider{Region: region}
	}
	return p
}

func ready(p *v1alpha2.CloudSecretProvider) metav1.Condition {
	c := meta.FindStatusCondition(p.Status.Conditions, v1alpha2.ReadyCondition)
	if c == nil {
		return metav1.Condition{}
	}
	return *c
}

func TestReconcileReady(t *testing.T) {
	cases := []struct {
		name        string
		region      string
		buildErr    error
		wantStatus  metav1.ConditionStatus
		wantReason  string
		wantMessage string
		wantResult  ctrl.Result
		wantEvent   string
	}{
		{
			name:        "authenticated",
			region:      "eu-west-1",
			wantStatus:  metav1.ConditionTrue,
			wantReason:  v1alpha2.AuthenticationSucceededReason,
			wantMessage: "authenticated to awsSecretsManager in eu-west-1",
			wantResult:  ctrl.Result{RequeueAfter: DefaultRecheckInterval},
			wantEvent:   "Normal AuthenticationSucceeded authenticated to awsSecretsManager in eu-west-1",
		},
		{
			name:   "rejected credentials",
			region: "eu-west-1",
			buildErr: &cserrors.ProviderError{
				Provider:     "default",
				Op:           "Authenticate",
				Unauthorized: true,
				Err:          errors.New("access denied"),
			},
			wantStatus:  metav1.ConditionFalse,
			wantReason:  v1alpha2.AuthenticationFailedReason,
			wantMessage: `provider "default" Authenticate: access denied`,
			wantResult:  ctrl.Result{RequeueAfter: DefaultRetryInterval},
			wantEvent:   `Warning AuthenticationFailed provider "default" Authenticate: access denied`,
		},
		{
			name:        "no provider configured",
			wantStatus:  metav1.ConditionFalse,
			wantReason:  v1alpha2.AuthenticationFailedReason,
			wantMessage: "provider: no supported provider configured",
			wantEvent:   "Warning AuthenticationFailed provider: no supported provider configured",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			g := NewWithT(t)
			env := newTestEnv(t, convert.V1alpha2{}, awsProvider(tc.region))
			env.buildErr = tc.buildErr

			g.Expect(env.reconcile(t)).To(Equal(tc.wantResult))

			c := ready(env.provider(t))
			g.Expect(c.Status).To(Equal(tc.wantStatus))
			g.Expect(c.Reason).To(Equal(tc.wantReason))
			g.Expect(c.Message).To(Equal(tc.wantMessage))
			g.Expect(c.ObservedGeneration).To(Equal(int64(1)))
			g.Expect(c.LastTransitionTime.Time.Equal(t0)).To(BeTrue())
			g.Expect(env.recorder.Events).To(Receive(Equal(tc.wantEvent)))
		})
	}
}

func TestReconcileUnchangedReady(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t, convert.V1alpha2{}, awsProvider("eu-west-1"))

	env.reconcile(t)
	before := env.provider(t)
	g.Expect(env.recorder.Events).To(Receive())

	env.clock.Step(DefaultRecheckInterval)
	env.reconcile(t)

	after := env.provider(t)
	g.Expect(after.ResourceVersion).To(Equal(before.ResourceVersion), "no status write")
	g.Expect(env.recorder.Events).NotTo(Receive())
	g.Expect(env.builds).To(Equal(1), "credentials are cached")
}

func TestReconcileGenerationChangeInvalidates(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t, convert.V1alpha2{}, awsProvider("eu-west-1"))

	env.reconcile(t)
	g.Expect(env.builds).To(Equal(1))

	p := env.provider(t)
	p.Spec.Provider.AWSSecretsManager.Region = "us-east-1"
	p.Generation = 2
	g.Expect(env.client.Update(context.TODO(), p)).To(Succeed())

	env.reconcile(t)
	g.Expect(env.builds).To(Equal(2))
	c := ready(env.provider(t))
	g.Expect(c.ObservedGeneration).To(Equal(int64(2)))
	g.Expect(c.Message).To(ContainSubstring("us-east-1"))
}

func TestReconcileRecovers(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t, convert.V1alpha2{}, awsProvider("eu-west-1"))
	env.buildErr = &cserrors.ProviderError{Provider: "default", Op: "Authenticate", Temporary: true, Err: errors.New("timeout")}

	env.reconcile(t)
	g.Expect(ready(env.provider(t)).Status).To(Equal(metav1.ConditionFalse))

	env.buildErr = nil
	env.clock.Step(DefaultRetryInterval)
	env.reconcile(t)

	c := ready(env.provider(t))
	g.Expect(c.Status).To(Equal(metav1.ConditionTrue))
	g.Expect(c.LastTransitionTime.Time.Equal(t0.Add(DefaultRetryInterval))).To(BeTrue())
}

// spyAuthenticator records invalidations.
type spyAuthenticator struct {
	Authenticator
	invalidated []string
}

func (s *spyAuthenticator) Invalidate(name string) {
	s.invalidated = append(s.invalidated, name)
}

func TestReconcileDeletedInvalidates(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t, convert.V1alpha2{})
	spy := &spyAuthenticator{}
	env.r.Authenticator = spy

	g.Expect(env.reconcile(t)).To(Equal(ctrl.Result{}))
	g.Expect(spy.invalidated).To(Equal([]string{"default"}))
}

func TestReconcileV1alpha1(t *testing.T) {
	g := NewWithT(t)
	legacy := &v1alpha1.CloudSecretProvider{
		ObjectMeta: metav1.ObjectMeta{Name: defaultName.Name},
		Spec:       v1alpha1.CloudSecretProviderSpec{Provider: v1alpha1.AWSProvider{Region: "eu-west-1"}},
	}
	env := newTestEnv(t, convert.V1alpha1{}, legacy)

	env.reconcile(t)

	got := &v1alpha1.CloudSecretProvider{}
	g.Expect(env.client.Get(context.TODO(), defaultName, got)).To(Succeed())
	g.Expect(got.Status.Conditions).To(HaveLen(1))
	g.Expect(got.Status.Conditions[0].Ready).To(BeTrue())
	g.Expect(got.Status.Conditions[0].Reason).To(Equal(v1alpha2.AuthenticationSucceededReason))
	g.Expect(got.Status.Conditions[0].LastUpdateTime).To(Equal("2024-06-01T12:00:00Z"))
}

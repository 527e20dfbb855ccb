package action

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/pointer"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/model"
)

type fixedGenerator string

func (g fixedGenerator) Generate(ctx context.Context, req Request) ([]byte, error) {
	return []byte(g), nil
}

type fakeExternal struct {
	value     string
	verdict   Verdict
	validated int
}

func (f *fakeExternal) Generate(ctx context.Context, req Request) ([]byte, error) {
	return []byte(f.value), nil
}

func (f *fakeExternal) Validate(ctx context.Context, req Request, value []byte) (Verdict, error) {
	f.validated++
	return f.verdict, nil
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name        string
		policy      *model.ActionSpec
		value       string
		wantInvalid bool
		wantConfig  bool
		wantReason  string
	}{
		{
			name:  "no policy",
			value: "anything",
		},
		{
			name:   "pattern full match",
			policy: &model.ActionSpec{Pattern: pointer.String("[a-z]+[0-9]+")},
			value:  "abc123",
		},
		{
			name:        "pattern partial match is rejected",
			policy:      &model.ActionSpec{Pattern: pointer.String("[a-z]+")},
			value:       "abc123",
			wantInvalid: true,
		},
		{
			name:        "too short",
			policy:      &model.ActionSpec{Minimum: pointer.Int64(10)},
			value:       "abc123",
			wantInvalid: true,
			wantReason:  "length 6 is shorter than minimum 10",
		},
		{
			name:        "too long",
			policy:      &model.ActionSpec{Maximum: pointer.Int64(3)},
			value:       "abc123",
			wantInvalid: true,
			wantReason:  "length 6 is longer than maximum 3",
		},
		{
			name:        "pattern is checked before bounds",
			policy:      &model.ActionSpec{Pattern: pointer.String("[0-9]+"), Minimum: pointer.Int64(10)},
			value:       "abc",
			wantInvalid: true,
			wantReason:  `value *** does not match pattern "[0-9]+"`,
		},
		{
			name:       "minimum greater than maximum is never evaluated",
			policy:     &model.ActionSpec{Minimum: pointer.Int64(10), Maximum: pointer.Int64(5)},
			value:      "abc123",
			wantConfig: true,
		},
		{
			name:       "bad pattern",
			policy:     &model.ActionSpec{Pattern: pointer.String("(")},
			value:      "abc123",
			wantConfig: true,
		},
		{
			name:       "container without external runner",
			policy:     &model.ActionSpec{Validator: &corev1.Container{Image: "check:1"}},
			value:      "abc123",
			wantConfig: true,
		},
	}

	e := New()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := Request{Key: "password", Phase: model.PhaseValidate, Policy: tc.policy}
			err := e.Validate(context.TODO(), req, []byte(tc.value))
			if !tc.wantInvalid && !tc.wantConfig {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			invalid, reason := cserrors.IsInvalid(err)
			assert.Equal(t, tc.wantInvalid, invalid)
			assert.Equal(t, tc.wantConfig, cserrors.IsConfig(err))
			if tc.wantReason != "" {
				assert.Equal(t, tc.wantReason, reason)
			}
		})
	}
}

func TestValidateExternal(t *testing.T) {
	x := &fakeExternal{verdict: Verdict{Valid: false, Reason: "weak password"}}
	e := New(WithExternal(x))

	req := Request{
		Key:    "password",
		Phase:  model.PhaseValidate,
		Policy: &model.ActionSpec{Validator: &corev1.Container{Image: "check:1"}, Minimum: pointer.Int64(100)},
	}
	err := e.Validate(context.TODO(), req, []byte("abc"))
	invalid, reason := cserrors.IsInvalid(err)
	assert.True(t, invalid)
	assert.Equal(t, "weak password", reason, "validator is checked before bounds")

	x.verdict = Verdict{Valid: true}
	err = e.Validate(context.TODO(), req, []byte("abc"))
	invalid, reason = cserrors.IsInvalid(err)
	assert.True(t, invalid)
	assert.Contains(t, reason, "minimum 100")
	assert.Equal(t, 2, x.validated)
}

func TestGenerate(t *testing.T) {
	e := New()

	v, err := e.Generate(context.TODO(), Request{Key: "password", Phase: model.PhaseCreate})
	require.NoError(t, err)
	assert.Len(t, v, DefaultLength)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]+$`), string(v))

	v, err = e.Generate(context.TODO(), Request{Key: "password", Policy: &model.ActionSpec{Minimum: pointer.Int64(64)}})
	require.NoError(t, err)
	assert.Len(t, v, 64)

	v, err = e.Generate(context.TODO(), Request{Key: "pin", Policy: &model.ActionSpec{Maximum: pointer.Int64(6)}})
	require.NoError(t, err)
	assert.Len(t, v, 6)

	_, err = e.Generate(context.TODO(), Request{Key: "pin", Policy: &model.ActionSpec{Pattern: pointer.String("[0-9]{6}")}})
	invalid, _ := cserrors.IsInvalid(err)
	assert.True(t, invalid, "generated value is checked against the pattern")

	_, err = e.Generate(context.TODO(), Request{Policy: &model.ActionSpec{Minimum: pointer.Int64(10), Maximum: pointer.Int64(5)}})
	assert.True(t, cserrors.IsConfig(err))
}

func TestGenerateWithCapabilities(t *testing.T) {
	e := New(WithGenerator(fixedGenerator("abc123")), WithExternal(&fakeExternal{value: "from-container"}))

	v, err := e.Generate(context.TODO(), Request{Key: "password"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", string(v))

	v, err = e.Generate(context.TODO(), Request{Key: "password", Policy: &model.ActionSpec{Validator: &corev1.Container{Image: "gen:1"}}})
	require.NoError(t, err)
	assert.Equal(t, "from-container", string(v))
}

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, req Request) ([]byte, error) {
	return nil, errors.New("entropy exhausted")
}

func TestGenerateError(t *testing.T) {
	_, err := New(WithGenerator(failingGenerator{})).Generate(context.TODO(), Request{Key: "password"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(nil))
	assert.Equal(t, "******", Mask([]byte("abc123")))
	m := Mask([]byte("supersecretvalue"))
	assert.NotContains(t, m, "secret")
	assert.True(t, strings.HasPrefix(m, "su"))
	assert.True(t, strings.HasSuffix(m, "ue"))
}

package action

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/model"
)

// Engine executes actions on key values.
type Engine struct {
	generator Generator
	external  External
	log       logr.Logger
}

// Option is used to configure the Engine.
type Option func(*Engine)

// WithGenerator sets the value Generator.
func WithGenerator(g Generator) Option {
	return func(e *Engine) {
		e.generator = g
	}
}

// WithExternal sets the external validator runner.
func WithExternal(x External) Option {
	return func(e *Engine) {
		e.external = x
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New returns an Engine with a RandomGenerator and no external validators.
func New(opts ...Option) *Engine {
	e := &Engine{
		generator: RandomGenerator{},
		external:  unconfiguredExternal{},
		log:       ctrl.Log.WithName("action-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate produces a new value for a create or rotate action and checks it
// against the policy.
func (e *Engine) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := checkBounds(req.Policy); err != nil {
		return nil, err
	}

	var value []byte
	var err error
	if req.Policy != nil && req.Policy.Validator != nil {
		value, err = e.external.Generate(ctx, req)
	} else {
		value, err = e.generator.Generate(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate value for key %q: %w", req.Key, err)
	}

	if err := e.check(ctx, req, value, false); err != nil {
		return nil, err
	}
	e.log.V(1).Info("generated value", "resource", req.Resource, "key", req.Key, "phase", req.Phase, "length", len(value))
	return value, nil
}

// Validate checks a value against the policy. It returns an InvalidError when
// the value is rejected.
func (e *Engine) Validate(ctx context.Context, req Request, value []byte) error {
	if err := checkBounds(req.Policy); err != nil {
		return err
	}
	return e.check(ctx, req, value, true)
}

func (e *Engine) check(ctx context.Context, req Request, value []byte, external bool) error {
	p := req.Policy
	if p == nil {
		return nil
	}

	if external && p.Validator != nil {
		v, err := e.external.Validate(ctx, req, value)
		if err != nil {
			return fmt.Errorf("external validation of key %q failed: %w", req.Key, err)
		}
		if !v.Valid {
			return &cserrors.InvalidError{Key: req.Key, Reason: v.Reason}
		}
	}

	if p.Pattern != nil {
		re, err := model.CompilePattern(*p.Pattern)
		if err != nil {
			return cserrors.NewConfigError("pattern", "%v", err)
		}
		if !re.Match(value) {
			return &cserrors.InvalidError{
				Key:    req.Key,
				Reason: fmt.Sprintf("value %s does not match pattern %q", Mask(value), *p.Pattern),
			}
		}
	}

	n := int64(len(value))
	if p.Minimum != nil && n < *p.Minimum {
		return &cserrors.InvalidError{
			Key:    req.Key,
			Reason: fmt.Sprintf("length %d is shorter than minimum %d", n, *p.Minimum),
		}
	}
	if p.Maximum != nil && n > *p.Maximum {
		return &cserrors.InvalidError{
			Key:    req.Key,
			Reason: fmt.Sprintf("length %d is longer than maximum %d", n, *p.Maximum),
		}
	}
	return nil
}

// checkBounds rejects policies that can't be satisfied before any value is
// evaluated.
func checkBounds(p *model.ActionSpec) error {
	if p != nil && p.Minimum != nil && p.Maximum != nil && *p.Minimum > *p.Maximum {
		return cserrors.NewConfigError("", "minimum %d is greater than maximum %d", *p.Minimum, *p.Maximum)
	}
	return nil
}

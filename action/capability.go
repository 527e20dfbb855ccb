package action

import (
	"context"
	"crypto/rand"
	"math/big"

	"k8s.io/apimachinery/pkg/types"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/model"
)

// Request describes the key an action runs for.
type Request struct {
	// Resource is the CloudSecret the key belongs to.
	Resource types.NamespacedName
	// Key is the target key name.
	Key   string
	Phase model.Phase
	// Policy is the effective action policy, nil when none applies.
	Policy *model.ActionSpec
}

// Generator produces new key values.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// Verdict is the outcome of an external validation.
type Verdict struct {
	Valid  bool
	Reason string
}

// External runs external validator containers. Sandboxing the container is
// the implementation's concern.
type External interface {
	// Generate asks the validator for a new value.
	Generate(ctx context.Context, req Request) ([]byte, error)
	// Validate asks the validator to judge a value.
	Validate(ctx context.Context, req Request, value []byte) (Verdict, error)
}

const (
	// DefaultLength is the length of generated values when the policy has
	// no bounds.
	DefaultLength = 32

	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// RandomGenerator generates alphanumeric values with crypto/rand. The length
// is DefaultLength raised to the minimum and capped at the maximum of the
// policy.
type RandomGenerator struct{}

var _ Generator = RandomGenerator{}

func (RandomGenerator) Generate(ctx context.Context, req Request) ([]byte, error) {
	n := GeneratedLength(req.Policy)
	out := make([]byte, n)
	limit := big.NewInt(int64(len(alphanumeric)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return nil, err
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return out, nil
}

// GeneratedLength returns the length of a generated value for the policy.
func GeneratedLength(p *model.ActionSpec) int64 {
	n := int64(DefaultLength)
	if p == nil {
		return n
	}
	if p.Minimum != nil && *p.Minimum > n {
		n = *p.Minimum
	}
	if p.Maximum != nil && *p.Maximum < n {
		n = *p.Maximum
	}
	return n
}

// unconfiguredExternal is used when no External is configured.
type unconfiguredExternal struct{}

func (unconfiguredExternal) Generate(ctx context.Context, req Request) ([]byte, error) {
	return nil, cserrors.NewConfigError("container", "external validators are not configured")
}

func (unconfiguredExternal) Validate(ctx context.Context, req Request, value []byte) (Verdict, error) {
	return Verdict{}, cserrors.NewConfigError("container", "external validators are not configured")
}

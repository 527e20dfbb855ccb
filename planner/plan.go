package planner

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/model"
)

// Op is a plan step operation.
type Op string

const (
	OpCreate    Op = "Create"
	OpRotate    Op = "Rotate"
	OpValidate  Op = "Validate"
	OpUpdate    Op = "Update"
	OpRemove    Op = "Remove"
	OpUnchanged Op = "Unchanged"
)

// Step is a single plan step.
type Step struct {
	Op     Op
	Source string
	Target string
	// Generate is set when the value must be produced instead of read from
	// the provider.
	Generate bool
	// Policy is the create or rotate policy of a generated value.
	Policy *model.ActionSpec
	// Validate is the validate policy of a value read from the provider.
	Validate *model.ActionSpec
	// RotateInterval is the rotation interval of the key, zero when unset.
	RotateInterval time.Duration
}

// String returns the step in the form Op(target).
func (s Step) String() string {
	return fmt.Sprintf("%s(%s)", s.Op, s.Target)
}

// Input is the observed state a plan is computed from.
type Input struct {
	Resource *model.SecretResource
	// ProviderKeys are the keys of the source secret.
	ProviderKeys []string
	// ProviderVersion is the version ID of the source secret.
	ProviderVersion string
	// Derived is the data of the derived secret, nil when it doesn't exist.
	Derived map[string][]byte
	// RotatedAt holds the last rotation time per target key.
	RotatedAt map[string]time.Time
	// PreviousFingerprint is the fingerprint of the last successful sync.
	PreviousFingerprint string
	// PreviousDataHash is the DataHash of the data written by the last sync.
	PreviousDataHash string
	Now              time.Time
}

// Plan is an ordered list of steps. Removes come last.
type Plan struct {
	Steps []Step
	// Keys is the resolved key set.
	Keys []model.KeySpec
	// Fingerprint identifies the resolved key set, source version and
	// actions.
	Fingerprint string
	// RotatedAt is the rotation record to keep for the keys with a rotation
	// interval. Keys without a record get a baseline of Input.Now.
	RotatedAt map[string]time.Time
	// NextRotation is the earliest rotation deadline, zero when no key
	// rotates.
	NextRotation time.Time
}

// IsNoop returns true when every step is Unchanged.
func (p *Plan) IsNoop() bool {
	for _, s := range p.Steps {
		if s.Op != OpUnchanged {
			return false
		}
	}
	return true
}

// Count returns the number of steps with the given op.
func (p *Plan) Count(op Op) int {
	n := 0
	for _, s := range p.Steps {
		if s.Op == op {
			n++
		}
	}
	return n
}

// EffectiveActions returns the actions of a key. A key level ActionsSpec
// replaces the resource level one as a whole.
func EffectiveActions(r *model.SecretResource, k model.KeySpec) *model.ActionsSpec {
	if k.Actions != nil {
		return k.Actions
	}
	return r.Actions
}

// ResolveKeys returns the selected key set. An empty key list selects every
// provider key under its own name.
func ResolveKeys(r *model.SecretResource, providerKeys []string) []model.KeySpec {
	if len(r.Keys) > 0 {
		return r.Keys
	}
	keys := make([]model.KeySpec, 0, len(providerKeys))
	for _, k := range providerKeys {
		keys = append(keys, model.KeySpec{Source: k})
	}
	return keys
}

// Compute returns the plan for the input. It fails with a MissingKeyError,
// before any step is produced, when a selected key is absent from the
// provider and has no create action.
func Compute(in Input) (*Plan, error) {
	r := in.Resource
	keys := ResolveKeys(r, in.ProviderKeys)

	inProvider := make(map[string]bool, len(in.ProviderKeys))
	for _, k := range in.ProviderKeys {
		inProvider[k] = true
	}

	plan := &Plan{Keys: keys, RotatedAt: map[string]time.Time{}}
	plan.Fingerprint = Fingerprint(r, keys, in.ProviderVersion)
	// A derived secret edited since the last sync is not fresh.
	fresh := in.Derived != nil &&
		plan.Fingerprint == in.PreviousFingerprint &&
		DataHash(in.Derived) == in.PreviousDataHash
	var missing []string
	targets := map[string]bool{}

	for _, k := range keys {
		target := k.TargetName()
		targets[target] = true
		eff := EffectiveActions(r, k)

		step := Step{
			Source:   k.Source,
			Target:   target,
			Validate: eff.For(model.PhaseValidate),
		}
		if k.RotateInterval != "" {
			d, err := k.RotateInterval.Duration()
			if err != nil {
				return nil, cserrors.NewConfigError("rotateInterval", "%v", err)
			}
			step.RotateInterval = d
		}
		_, inDerived := in.Derived[target]

		switch {
		case !inProvider[k.Source]:
			create := eff.For(model.PhaseCreate)
			if create == nil {
				missing = append(missing, k.Source)
				continue
			}
			step.Op, step.Generate, step.Policy = OpCreate, true, create
		case inDerived && rotationDue(step, in.RotatedAt, in.Now):
			step.Op, step.Generate, step.Policy = OpRotate, true, rotatePolicy(eff)
		case !inDerived:
			step.Op = OpCreate
		case step.Validate != nil:
			step.Op = OpValidate
		case !fresh:
			step.Op = OpUpdate
		default:
			step.Op = OpUnchanged
		}

		if step.RotateInterval > 0 {
			last, ok := in.RotatedAt[target]
			if !ok || step.Op == OpRotate || step.Generate {
				last = in.Now
			}
			plan.RotatedAt[target] = last
			if next := last.Add(step.RotateInterval); plan.NextRotation.IsZero() || next.Before(plan.NextRotation) {
				plan.NextRotation = next
			}
		}

		plan.Steps = append(plan.Steps, step)
	}

	if len(missing) > 0 {
		return nil, cserrors.NewMissingKeyError(missing...)
	}

	if r.Strict {
		var extra []string
		for k := range in.Derived {
			if !targets[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			plan.Steps = append(plan.Steps, Step{Op: OpRemove, Target: k})
		}
	}

	// Nothing to mutate and nothing changed since the last sync.
	if fresh && plan.Count(OpCreate) == 0 && plan.Count(OpRotate) == 0 && plan.Count(OpRemove) == 0 {
		for i := range plan.Steps {
			plan.Steps[i].Op = OpUnchanged
		}
	}

	return plan, nil
}

func rotationDue(s Step, rotatedAt map[string]time.Time, now time.Time) bool {
	if s.RotateInterval <= 0 {
		return false
	}
	last, ok := rotatedAt[s.Target]
	if !ok {
		return false
	}
	return !now.Before(last.Add(s.RotateInterval))
}

// rotatePolicy falls back to the create policy when no rotate policy is set.
func rotatePolicy(eff *model.ActionsSpec) *model.ActionSpec {
	if p := eff.For(model.PhaseRotate); p != nil {
		return p
	}
	return eff.For(model.PhaseCreate)
}

// DataHash hashes the data of a derived secret.
func DataHash(data map[string][]byte) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%d:%s%d:", len(k), k, len(data[k]))
		h.Write(data[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes the resolved key set, the source version and the
// effective actions of every key.
func Fingerprint(r *model.SecretResource, keys []model.KeySpec, version string) string {
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		actions, _ := json.Marshal(EffectiveActions(r, k))
		sum := sha256.Sum256(actions)
		lines = append(lines, fmt.Sprintf("%s|%s|%s|%s|%s", k.TargetName(), k.Source, version, k.RotateInterval, hex.EncodeToString(sum[:8])))
	}
	sort.Strings(lines)

	h := sha256.New()
	fmt.Fprintf(h, "secret=%s strict=%t source=%s\n", r.DerivedSecretName(), r.Strict, r.SourceName)
	for _, l := range lines {
		fmt.Fprintln(h, l)
	}
	return hex.EncodeToString(h.Sum(nil))
}

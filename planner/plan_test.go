package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/pointer"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/model"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func dbCreds() *model.SecretResource {
	return &model.SecretResource{
		Name:            "db-creds",
		Namespace:       "app",
		SourceName:      "prod/db",
		RefreshInterval: "3m",
		Keys: []model.KeySpec{
			{
				Source: "password",
				Actions: &model.ActionsSpec{
					Create: &model.ActionSpec{Minimum: pointer.Int64(6)},
				},
			},
		},
	}
}

func ops(p *Plan) []string {
	out := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.String())
	}
	return out
}

func TestComputeCreate(t *testing.T) {
	plan, err := Compute(Input{Resource: dbCreds(), Now: now})
	require.NoError(t, err)
	assert.Equal(t, []string{"Create(password)"}, ops(plan))
	assert.True(t, plan.Steps[0].Generate)
	assert.Equal(t, int64(6), *plan.Steps[0].Policy.Minimum)
	assert.NotEmpty(t, plan.Fingerprint)
}

func TestComputeCopiesExistingProviderKey(t *testing.T) {
	plan, err := Compute(Input{
		Resource:        dbCreds(),
		ProviderKeys:    []string{"password"},
		ProviderVersion: "v1",
		Now:             now,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Create(password)"}, ops(plan))
	assert.False(t, plan.Steps[0].Generate)
}

func TestComputeUnchanged(t *testing.T) {
	r := dbCreds()
	r.Keys[0].Actions.Validate = &model.ActionSpec{Pattern: pointer.String("[a-z0-9]+")}
	in := Input{
		Resource:        r,
		ProviderKeys:    []string{"password"},
		ProviderVersion: "v2",
		Derived:         map[string][]byte{"password": []byte("abc123")},
		Now:             now,
	}

	plan, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Validate(password)"}, ops(plan), "validate runs until the fingerprint is recorded")

	in.PreviousFingerprint = plan.Fingerprint
	in.PreviousDataHash = DataHash(in.Derived)
	plan, err = Compute(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unchanged(password)"}, ops(plan))
	assert.True(t, plan.IsNoop())

	in.ProviderVersion = "v3"
	plan, err = Compute(in)
	require.NoError(t, err)
	assert.False(t, plan.IsNoop(), "a new source version is synced")
}

func TestComputeUpdate(t *testing.T) {
	r := dbCreds()
	in := Input{
		Resource:        r,
		ProviderKeys:    []string{"password"},
		ProviderVersion: "v1",
		Derived:         map[string][]byte{"password": []byte("abc123")},
		Now:             now,
	}
	in.PreviousFingerprint = Fingerprint(r, r.Keys, "v1")
	in.PreviousDataHash = DataHash(in.Derived)

	plan, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unchanged(password)"}, ops(plan))

	in.ProviderVersion = "v2"
	plan, err = Compute(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Update(password)"}, ops(plan), "a new source version is read again")
	assert.False(t, plan.Steps[0].Generate)
}

func TestComputeEditedDerivedSecret(t *testing.T) {
	r := dbCreds()
	in := Input{
		Resource:         r,
		ProviderKeys:     []string{"password"},
		ProviderVersion:  "v1",
		Derived:          map[string][]byte{"password": []byte("abc123")},
		PreviousDataHash: DataHash(map[string][]byte{"password": []byte("abc123")}),
		Now:              now,
	}
	in.PreviousFingerprint = Fingerprint(r, r.Keys, "v1")

	plan, err := Compute(in)
	require.NoError(t, err)
	assert.True(t, plan.IsNoop())

	in.Derived = map[string][]byte{"password": []byte("tampered")}
	plan, err = Compute(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Update(password)"}, ops(plan), "an edited value is read again")

	in.Derived = map[string][]byte{"password": []byte("abc123"), "extra": []byte("x")}
	plan, err = Compute(in)
	require.NoError(t, err)
	assert.False(t, plan.IsNoop(), "an added key is an edit")

	in.Derived = map[string][]byte{"password": []byte("abc123")}
	in.PreviousDataHash = ""
	plan, err = Compute(in)
	require.NoError(t, err)
	assert.False(t, plan.IsNoop(), "a secret without a recorded hash is synced")
}

func TestDataHash(t *testing.T) {
	a := map[string][]byte{"user": []byte("app"), "password": []byte("abc123")}
	assert.Equal(t, DataHash(a), DataHash(map[string][]byte{"password": []byte("abc123"), "user": []byte("app")}), "order")
	assert.NotEqual(t, DataHash(a), DataHash(map[string][]byte{"user": []byte("ap"), "password": []byte("pabc123")}), "boundaries")
	assert.NotEqual(t, DataHash(nil), DataHash(map[string][]byte{"": nil}))
}

func TestComputeRotation(t *testing.T) {
	r := dbCreds()
	r.Keys[0].RotateInterval = "90d"
	in := Input{
		Resource:        r,
		ProviderKeys:    []string{"password"},
		ProviderVersion: "v1",
		Derived:         map[string][]byte{"password": []byte("abc123")},
		Now:             now,
	}
	in.PreviousFingerprint = Fingerprint(r, r.Keys, "v1")
	in.PreviousDataHash = DataHash(in.Derived)

	t.Run("no record sets a baseline", func(t *testing.T) {
		plan, err := Compute(in)
		require.NoError(t, err)
		assert.Equal(t, OpUnchanged, plan.Steps[0].Op)
		assert.Equal(t, now, plan.RotatedAt["password"])
		assert.Equal(t, now.Add(90*24*time.Hour), plan.NextRotation)
	})

	t.Run("not due", func(t *testing.T) {
		in := in
		in.RotatedAt = map[string]time.Time{"password": now.Add(-89 * 24 * time.Hour)}
		plan, err := Compute(in)
		require.NoError(t, err)
		assert.Equal(t, OpUnchanged, plan.Steps[0].Op)
		assert.Equal(t, now.Add(24*time.Hour), plan.NextRotation)
	})

	t.Run("due", func(t *testing.T) {
		in := in
		in.RotatedAt = map[string]time.Time{"password": now.Add(-91 * 24 * time.Hour)}
		plan, err := Compute(in)
		require.NoError(t, err)
		assert.Equal(t, []string{"Rotate(password)"}, ops(plan))
		assert.True(t, plan.Steps[0].Generate)
		assert.Equal(t, int64(6), *plan.Steps[0].Policy.Minimum, "rotate falls back to the create policy")
		assert.Equal(t, now, plan.RotatedAt["password"])
	})
}

func TestComputeMissingKey(t *testing.T) {
	r := dbCreds()
	r.Keys = append(r.Keys, model.KeySpec{Source: "username"}, model.KeySpec{Source: "host"})
	r.Keys[0].Actions = nil

	_, err := Compute(Input{Resource: r, ProviderKeys: []string{"username"}, Now: now})
	require.Error(t, err)
	missing, keys := cserrors.IsMissingKey(err)
	assert.True(t, missing)
	assert.Equal(t, []string{"host", "password"}, keys)
}

func TestComputeStrictRemovesLast(t *testing.T) {
	r := dbCreds()
	r.Strict = true
	in := Input{
		Resource:        r,
		ProviderKeys:    []string{"password"},
		ProviderVersion: "v1",
		Derived: map[string][]byte{
			"zeta":     []byte("1"),
			"alpha":    []byte("2"),
			"password": []byte("abc123"),
		},
		Now: now,
	}
	plan, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Update(password)", "Remove(alpha)", "Remove(zeta)"}, ops(plan))

	in.PreviousFingerprint = plan.Fingerprint
	plan, err = Compute(in)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Count(OpRemove), "removes are never skipped as a noop")
}

func TestComputeNonStrictNeverRemoves(t *testing.T) {
	derivedSets := []map[string][]byte{
		nil,
		{},
		{"extra": []byte("x")},
		{"password": []byte("abc123"), "extra": []byte("x"), "other": []byte("y")},
	}
	providerSets := [][]string{
		{"password"},
		{"password", "extra"},
	}
	for _, d := range derivedSets {
		for _, pk := range providerSets {
			plan, err := Compute(Input{Resource: dbCreds(), ProviderKeys: pk, Derived: d, Now: now})
			require.NoError(t, err)
			assert.Zero(t, plan.Count(OpRemove))
		}
	}
}

func TestEffectiveActionsOverrideNotMerge(t *testing.T) {
	r := dbCreds()
	r.Actions = &model.ActionsSpec{
		Validate: &model.ActionSpec{Pattern: pointer.String("[0-9]+")},
		Rotate:   &model.ActionSpec{Maximum: pointer.Int64(8)},
	}

	eff := EffectiveActions(r, r.Keys[0])
	assert.Same(t, r.Keys[0].Actions, eff)
	assert.Nil(t, eff.For(model.PhaseValidate), "resource level validate is not merged in")
	assert.Nil(t, eff.For(model.PhaseRotate))

	plan, err := Compute(Input{
		Resource:     r,
		ProviderKeys: []string{"password"},
		Derived:      map[string][]byte{"password": []byte("abc")},
		Now:          now,
	})
	require.NoError(t, err)
	assert.Equal(t, OpUpdate, plan.Steps[0].Op)
	assert.Nil(t, plan.Steps[0].Validate)

	r.Keys[0].Actions = nil
	assert.Same(t, r.Actions, EffectiveActions(r, r.Keys[0]))
}

func TestComputeAllProviderKeys(t *testing.T) {
	r := &model.SecretResource{
		Name:       "all",
		Namespace:  "app",
		SourceName: "prod/app",
		Actions:    &model.ActionsSpec{Validate: &model.ActionSpec{Minimum: pointer.Int64(1)}},
	}
	plan, err := Compute(Input{
		Resource:     r,
		ProviderKeys: []string{"a", "b"},
		Derived:      map[string][]byte{"a": []byte("1")},
		Now:          now,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Validate(a)", "Create(b)"}, ops(plan))
	assert.NotNil(t, plan.Steps[1].Validate)
}

func TestFingerprint(t *testing.T) {
	r := dbCreds()
	base := Fingerprint(r, r.Keys, "v1")
	assert.Equal(t, base, Fingerprint(dbCreds(), dbCreds().Keys, "v1"), "stable")
	assert.NotEqual(t, base, Fingerprint(r, r.Keys, "v2"), "version")

	changed := dbCreds()
	changed.Keys[0].Actions.Create.Minimum = pointer.Int64(7)
	assert.NotEqual(t, base, Fingerprint(changed, changed.Keys, "v1"), "actions")

	renamed := dbCreds()
	renamed.Keys[0].Target = "DB_PASSWORD"
	assert.NotEqual(t, base, Fingerprint(renamed, renamed.Keys, "v1"), "target")
}

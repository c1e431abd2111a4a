package assignment_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/support-router/internal/domain/assignment"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		raw  string
		want assignment.Key
	}{
		{"", assignment.KeyRoundRobin},
		{"   ", assignment.KeyRoundRobin},
		{"ROUND-ROBIN", assignment.KeyRoundRobin},
		{"roundrobin", assignment.KeyRoundRobin},
		{" LeastOpen ", assignment.KeyLeastOpen},
		{"least-open", assignment.KeyLeastOpen},
		{"Manual", assignment.KeyManual},
		{"vip-first", assignment.Key("vip_first")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, assignment.NormalizeKey(tt.raw), "raw=%q", tt.raw)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, assignment.KindRoundRobin, assignment.KindOf(assignment.KeyRoundRobin))
	assert.Equal(t, assignment.KindLeastOpen, assignment.KindOf(assignment.KeyLeastOpen))
	assert.Equal(t, assignment.KindManual, assignment.KindOf(assignment.KeyManual))
	assert.Equal(t, assignment.KindUnrecognized, assignment.KindOf("vip_first"))
	assert.Equal(t, "unrecognized", assignment.KindUnrecognized.String())
}

func TestRegistry_Defaults(t *testing.T) {
	reg := assignment.DefaultRegistry()
	assert.Equal(t, []assignment.Key{"least_open", "manual", "round_robin"}, reg.Keys())

	s, ok := reg.Lookup(assignment.KeyLeastOpen)
	require.True(t, ok)
	assert.Equal(t, assignment.KindLeastOpen, s.Kind())

	_, ok = reg.Lookup("vip_first")
	assert.False(t, ok)
}

func TestRegistry_CustomKeys(t *testing.T) {
	reg := assignment.DefaultRegistry()

	require.NoError(t, reg.RegisterAlias("VIP-First", "least-open"))
	s, ok := reg.Lookup("vip_first")
	require.True(t, ok)
	assert.Equal(t, assignment.LeastOpen, s)

	err := reg.RegisterAlias("night_shift", "does_not_exist")
	assert.True(t, errors.Is(err, assignment.ErrConfiguration))

	err = reg.Register("broken", assignment.KindUnrecognized)
	assert.True(t, errors.Is(err, assignment.ErrInvalidArgument))

	// Built-in keys keep their meaning; round_robin is the fallback.
	rebinds := map[string]string{"round_robin": "manual", "Least-Open": "round_robin", "manual": "vip_first"}
	for key, target := range rebinds {
		err = reg.RegisterAlias(key, target)
		assert.True(t, errors.Is(err, assignment.ErrConfiguration), key)
	}
	require.NoError(t, reg.RegisterAlias("least_open", "vip_first"), "same policy is not a rebind")
	err = reg.Register("round_robin", assignment.KindManual)
	assert.True(t, errors.Is(err, assignment.ErrConfiguration))
	require.NoError(t, reg.Register("manual", assignment.KindManual))

	s, ok = reg.Lookup(assignment.KeyRoundRobin)
	require.True(t, ok)
	assert.Equal(t, assignment.RoundRobin, s)
}

func TestRegistry_RegisterAliases(t *testing.T) {
	aliases := map[string]string{
		"vip":  "gold",
		"gold": "least_open",
		"a1":   "gold",
		"a2":   "vip",
		"a3":   "a2",
	}

	// Map iteration order varies between runs; the outcome must not.
	for i := 0; i < 50; i++ {
		reg := assignment.DefaultRegistry()
		require.NoError(t, reg.RegisterAliases(aliases))
		for _, key := range []assignment.Key{"vip", "gold", "a1", "a2", "a3"} {
			s, ok := reg.Lookup(key)
			require.True(t, ok, key)
			assert.Equal(t, assignment.LeastOpen, s, key)
		}
	}
}

func TestRegistry_RegisterAliases_Unresolvable(t *testing.T) {
	tests := []struct {
		name    string
		aliases map[string]string
	}{
		{"unknown target", map[string]string{"night": "skills"}},
		{"cycle", map[string]string{"x": "y", "y": "x"}},
		{"self", map[string]string{"z": "z"}},
		{"rebinds built-in", map[string]string{"round_robin": "manual"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := assignment.DefaultRegistry()
			err := reg.RegisterAliases(tt.aliases)
			assert.True(t, errors.Is(err, assignment.ErrConfiguration))

			s, ok := reg.Lookup(assignment.KeyRoundRobin)
			require.True(t, ok)
			assert.Equal(t, assignment.RoundRobin, s)
		})
	}

	// Resolvable entries still land when others fail.
	reg := assignment.DefaultRegistry()
	err := reg.RegisterAliases(map[string]string{"vip": "least_open", "night": "skills"})
	require.Error(t, err)
	_, ok := reg.Lookup("vip")
	assert.True(t, ok)
}

func TestContext_Validate(t *testing.T) {
	var nilCtx *assignment.Context
	assert.True(t, errors.Is(nilCtx.Validate(), assignment.ErrInvalidArgument))

	ok := &assignment.Context{Candidates: []assignment.Candidate{{UserID: "A", MaxConcurrent: 0}}}
	assert.NoError(t, ok.Validate())
	assert.NoError(t, (&assignment.Context{}).Validate())

	bad := []*assignment.Context{
		{Candidates: []assignment.Candidate{{UserID: "", MaxConcurrent: 1}}},
		{Candidates: []assignment.Candidate{{UserID: "A", MaxConcurrent: -1}}},
		{Candidates: []assignment.Candidate{{UserID: "A", MaxConcurrent: 1}}, ActiveLoads: map[string]int{"A": -2}},
	}
	for _, c := range bad {
		assert.True(t, errors.Is(c.Validate(), assignment.ErrInvalidArgument), "%+v", c)
	}
}

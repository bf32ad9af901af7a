package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseForName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Phase
		ok    bool
	}{
		{name: "preinit", input: "PREINIT", want: PhasePreinit, ok: true},
		{name: "init", input: "INIT", want: PhaseInit, ok: true},
		{name: "default", input: "DEFAULT", want: PhaseDefault, ok: true},
		{name: "lower case", input: "init", want: PhaseInit, ok: true},
		{name: "whitespace", input: " DEFAULT ", want: PhaseDefault, ok: true},
		{name: "unknown", input: "BOOT", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, ok := PhaseForName(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, phase)
			}
		})
	}
}

func TestEnvironmentOptions(t *testing.T) {
	e := New(PhaseDefault, "0.8.4")

	assert.Equal(t, PhaseDefault, e.Phase())
	assert.Equal(t, "0.8.4", e.Version())
	assert.Equal(t, SideUnknown, e.Side())
	assert.False(t, e.Option(OptionDebugVerbose))

	e.SetOption(OptionDebugVerbose, true)
	e.SetSide(SideClient)

	assert.True(t, e.Option(OptionDebugVerbose))
	assert.Equal(t, SideClient, e.Side())
}

func TestParseSelector(t *testing.T) {
	envs := map[Phase]*Environment{
		PhasePreinit: New(PhasePreinit, "1.0"),
		PhaseInit:    New(PhaseInit, "1.0"),
		PhaseDefault: New(PhaseDefault, "1.0"),
	}
	lookup := func(p Phase) *Environment { return envs[p] }
	fallback := envs[PhaseDefault]

	tests := []struct {
		name     string
		selector string
		want     *Environment
	}{
		{name: "empty selector falls back", selector: "", want: fallback},
		{name: "env token", selector: "@env(INIT)", want: envs[PhaseInit]},
		{name: "long form", selector: "@environment(PREINIT)", want: envs[PhasePreinit]},
		{name: "token inside expression", selector: "foo.Bar & @env(INIT)", want: envs[PhaseInit]},
		{name: "token with or", selector: "@env(PREINIT)|other", want: envs[PhasePreinit]},
		{name: "first env token wins", selector: "@env(INIT) @env(PREINIT)", want: envs[PhaseInit]},
		{name: "bare phase name", selector: "INIT", want: envs[PhaseInit]},
		{name: "unknown phase falls back", selector: "@env(BOOT)", want: fallback},
		{name: "arbitrary text falls back", selector: "com.example.TargetClass", want: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSelector(tt.selector, lookup, fallback)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestLevelForName(t *testing.T) {
	level, err := LevelForName("java_8")
	require.NoError(t, err)
	assert.Equal(t, LevelJava8, level)

	_, err = LevelForName("JAVA_99")
	assert.Error(t, err)
}

func TestCompatibilityLevelChecks(t *testing.T) {
	t.Run("is at least", func(t *testing.T) {
		assert.True(t, LevelJava8.IsAtLeast(LevelJava6))
		assert.True(t, LevelJava8.IsAtLeast(LevelJava8))
		assert.False(t, LevelJava6.IsAtLeast(LevelJava8))
	})

	t.Run("can support", func(t *testing.T) {
		assert.True(t, LevelJava8.CanSupport(LevelJava6))
		assert.True(t, LevelJava9.CanSupport(LevelJava8))
		assert.False(t, LevelJava9.CanSupport(LevelJava6), "Java 9 dropped pre-8 semantics")
		assert.False(t, LevelJava6.CanSupport(LevelJava8), "newer than self")
	})

	t.Run("can elevate to", func(t *testing.T) {
		assert.True(t, LevelJava6.CanElevateTo(LevelJava8))
		assert.False(t, LevelJava6.CanElevateTo(LevelJava9), "pre-8 levels cap elevation at 8")
		assert.True(t, LevelJava8.CanElevateTo(LevelJava11))
	})
}

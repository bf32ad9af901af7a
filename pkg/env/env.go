// Package env models the execution environments a configuration can select
// itself into: one environment per load phase, carrying the execution side,
// behavioural options and the active subsystem version.
package env

import (
	"regexp"
	"strings"
)

// Phase is a stage of the host's load sequence. Configurations bind to
// exactly one phase through their target selector.
type Phase int

const (
	PhasePreinit Phase = iota
	PhaseInit
	PhaseDefault
)

var phaseNames = map[string]Phase{
	"PREINIT": PhasePreinit,
	"INIT":    PhaseInit,
	"DEFAULT": PhaseDefault,
}

// PhaseForName resolves a phase by its upper-case name.
func PhaseForName(name string) (Phase, bool) {
	phase, ok := phaseNames[strings.ToUpper(strings.TrimSpace(name))]
	return phase, ok
}

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePreinit:
		return "PREINIT"
	case PhaseInit:
		return "INIT"
	default:
		return "DEFAULT"
	}
}

// Side is the execution side the host is running as. Side-scoped unit lists
// are only prepared on their matching side.
type Side int

const (
	SideUnknown Side = iota
	SideClient
	SideServer
)

// Option is a behavioural flag on an environment.
type Option int

const (
	// OptionIgnoreRequired suppresses the required flag on all
	// configurations in this environment.
	OptionIgnoreRequired Option = iota

	// OptionDebugVerbose forces verbose logging for all configurations.
	OptionDebugVerbose

	// OptionDisableRefmap disables reference map lookups.
	OptionDisableRefmap
)

// Environment is the active context for one phase. Environments are
// compared by identity: a configuration participates in a session iff its
// resolved environment is the session's active environment.
type Environment struct {
	phase   Phase
	side    Side
	version string
	options map[Option]bool
}

// New creates an environment for the given phase carrying the supplied
// subsystem version.
func New(phase Phase, version string) *Environment {
	return &Environment{
		phase:   phase,
		version: version,
		options: make(map[Option]bool),
	}
}

// Phase returns the environment's phase.
func (e *Environment) Phase() Phase {
	return e.phase
}

// Side returns the current execution side.
func (e *Environment) Side() Side {
	return e.side
}

// SetSide records the execution side.
func (e *Environment) SetSide(side Side) {
	e.side = side
}

// Version returns the active subsystem version string.
func (e *Environment) Version() string {
	return e.version
}

// Option reports whether the given option is enabled.
func (e *Environment) Option(opt Option) bool {
	return e.options[opt]
}

// SetOption enables or disables an option.
func (e *Environment) SetOption(opt Option, enabled bool) {
	e.options[opt] = enabled
}

var envSelector = regexp.MustCompile(`^@env(?:ironment)?\(([A-Z]+)\)$`)

// ParseSelector resolves a target selector expression against the supplied
// phase lookup. Selectors are split on '&', '|' and spaces; the first
// @env(PHASE) token wins, then a bare recognised phase name, then fallback.
func ParseSelector(selector string, lookup func(Phase) *Environment, fallback *Environment) *Environment {
	if selector != "" {
		for _, token := range strings.FieldsFunc(selector, func(r rune) bool {
			return r == '&' || r == '|' || r == ' '
		}) {
			m := envSelector.FindStringSubmatch(strings.TrimSpace(token))
			if m == nil {
				continue
			}
			if phase, ok := PhaseForName(m[1]); ok {
				return lookup(phase)
			}
		}

		if phase, ok := PhaseForName(selector); ok {
			return lookup(phase)
		}
	}
	return fallback
}

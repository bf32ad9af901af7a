package config

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/weft-dev/weft/internal/version"
	"github.com/weft-dev/weft/pkg/env"
	"github.com/weft-dev/weft/pkg/logging"
	"github.com/weft-dev/weft/pkg/registry"
)

// ResourceOpener opens a named resource (e.g. a reference map) supplied by
// the host. Loading resources is otherwise outside this package's scope.
type ResourceOpener func(path string) (io.ReadCloser, error)

// Session is the explicit context one load session runs in: the insertion
// order counter, the global unit dedup registry, the per-phase environments
// and the active compatibility level. A session is single-threaded by
// design; discovery, linking, selection, preparation and finalisation are
// driven serially by the host.
type Session struct {
	logger  zerolog.Logger
	version string

	level env.CompatibilityLevel
	envs  map[env.Phase]*env.Environment
	phase env.Phase

	order   int
	claimed map[string]struct{}

	pointProviders registry.Registry[interface{}]
	plugins        registry.Registry[Plugin]

	opener  ResourceOpener
	configs *Set
}

// NewSession creates a session at the default phase and compatibility
// level, carrying the built subsystem version.
func NewSession() *Session {
	return &Session{
		logger:         logging.GetLogger("config.session"),
		version:        version.Version,
		level:          env.DefaultCompatibilityLevel,
		envs:           make(map[env.Phase]*env.Environment),
		phase:          env.PhaseDefault,
		claimed:        make(map[string]struct{}),
		pointProviders: registry.New[interface{}](),
		plugins:        registry.New[Plugin](),
		configs:        NewSet(),
	}
}

// SetVersion overrides the active subsystem version. It must be called
// before any environment is resolved.
func (s *Session) SetVersion(v string) {
	s.version = v
}

// Environment returns the session's environment for the given phase,
// creating it on first use. Environments are singletons per phase so that
// selector resolution and selection compare by identity.
func (s *Session) Environment(phase env.Phase) *env.Environment {
	e, ok := s.envs[phase]
	if !ok {
		e = env.New(phase, s.version)
		s.envs[phase] = e
	}
	return e
}

// ActiveEnvironment returns the environment of the session's current phase.
func (s *Session) ActiveEnvironment() *env.Environment {
	return s.Environment(s.phase)
}

// SetActivePhase advances the session to the given phase.
func (s *Session) SetActivePhase(phase env.Phase) {
	s.phase = phase
}

// CompatibilityLevel returns the session's active compatibility level.
func (s *Session) CompatibilityLevel() env.CompatibilityLevel {
	return s.level
}

func (s *Session) elevateCompatibilityLevel(level env.CompatibilityLevel) {
	if level > s.level {
		s.logger.Info().
			Str("from", s.level.String()).
			Str("to", level.String()).
			Msg("Elevating compatibility level")
		s.level = level
	}
}

// nextOrder returns the next insertion order value. Order is assigned once
// per configuration at construction time and breaks priority ties.
func (s *Session) nextOrder() int {
	order := s.order
	s.order++
	return order
}

// claimUnit records a fully-qualified unit name as bound, reporting false
// when some earlier configuration already bound it. Duplicate suppression
// is global to the session.
func (s *Session) claimUnit(className string) bool {
	if _, exists := s.claimed[className]; exists {
		return false
	}
	s.claimed[className] = struct{}{}
	return true
}

// RegisterPointProvider supplies a host value for a name a configuration
// may reference in its injectionPoints list.
func (s *Session) RegisterPointProvider(name string, value interface{}) {
	s.pointProviders.Put(name, value)
}

// PointProvider resolves a host-supplied injection point value by name.
func (s *Session) PointProvider(name string) (interface{}, error) {
	return s.pointProviders.Get(name)
}

// RegisterPlugin supplies a host plugin for a name a configuration may
// reference in its plugin field.
func (s *Session) RegisterPlugin(name string, plugin Plugin) {
	s.plugins.Put(name, plugin)
}

// SetResourceOpener installs the host's resource opener, used to read
// reference map resources at selection time.
func (s *Session) SetResourceOpener(opener ResourceOpener) {
	s.opener = opener
}

// Configs returns the set of all configurations loaded into this session.
func (s *Session) Configs() *Set {
	return s.configs
}

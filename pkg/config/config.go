// Package config implements rule bundle ("configuration") lifecycle
// management: parsing declarative documents, hierarchical option merging
// against a parent configuration, environment selection, unit preparation
// with session-global duplicate suppression, post-initialisation validation
// and the priority-ordered query surface consumed by the merge engine.
package config

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/weft-dev/weft/pkg/env"
	"github.com/weft-dev/weft/pkg/errors"
	"github.com/weft-dev/weft/pkg/injection"
	"github.com/weft-dev/weft/pkg/logging"
	"github.com/weft-dev/weft/pkg/refmap"
	"github.com/weft-dev/weft/pkg/version"
)

// State is a configuration's lifecycle state. Each state is a strict
// precondition for the next; illegal transitions fail with an
// initialisation error rather than being silently tolerated.
type State int

const (
	// StateRaw: freshly parsed from a document, only declared fields set.
	StateRaw State = iota

	// StateLinked: parent resolved and options merged, compatibility and
	// version gates passed.
	StateLinked

	// StateSelected: participating in the active session environment.
	StateSelected

	// StatePrepared: declared units enumerated, deduplicated and bound.
	StatePrepared

	// StateFinalised: units validated and listeners notified.
	StateFinalised
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRaw:
		return "raw"
	case StateLinked:
		return "linked"
	case StateSelected:
		return "selected"
	case StatePrepared:
		return "prepared"
	default:
		return "finalised"
	}
}

// Config is one rule bundle: a declarative document binding a set of
// transformation units to an environment, with merge-eligible options
// inherited from an optional parent configuration.
type Config struct {
	// Name identifies the configuration, normally the document file name.
	Name string `koanf:"-"`

	// Declared document fields.
	ParentName         string            `koanf:"parent"`
	Selector           string            `koanf:"target"`
	MinVersion         string            `koanf:"minVersion"`
	Compatibility      string            `koanf:"compatibilityLevel"`
	RequiredFlag       *bool             `koanf:"required"`
	PriorityValue      int               `koanf:"priority"`
	MixinPriorityValue int               `koanf:"mixinPriority"`
	MixinPackage       string            `koanf:"package"`
	MixinClasses       []string          `koanf:"mixins"`
	MixinClassesClient []string          `koanf:"client"`
	MixinClassesServer []string          `koanf:"server"`
	SetSourceFile      bool              `koanf:"setSourceFile"`
	RefMapperConfig    string            `koanf:"refmap"`
	VerboseLogging     bool              `koanf:"verbose"`
	PluginName         string            `koanf:"plugin"`
	Injectors          *InjectorOptions  `koanf:"injectors"`
	Overwrites         *OverwriteOptions `koanf:"overwrites"`

	// Runtime state.
	session   *Session
	logger    zerolog.Logger
	state     State
	visited   bool
	discarded bool
	order     int
	parent    *Config
	env       *env.Environment
	required  bool
	plugin    *pluginHandle
	refMapper *refmap.Mapper

	mixinMapping     map[string][]*UnitInfo
	unhandledTargets map[string]struct{}
	pendingUnits     []*UnitInfo
	units            []*UnitInfo
	listeners        []Listener
}

// newConfig constructs a Raw configuration with unset sentinels in place.
// The insertion order is captured here, at construction time.
func newConfig(name string, session *Session) *Config {
	return &Config{
		Name:               name,
		PriorityValue:      UnsetPriority,
		MixinPriorityValue: UnsetPriority,
		session:            session,
		logger:             logging.GetLogger("config").With().Str("config", name).Logger(),
		state:              StateRaw,
		order:              session.nextOrder(),
		plugin:             newPluginHandle(nil),
		mixinMapping:       make(map[string][]*UnitInfo),
		unhandledTargets:   make(map[string]struct{}),
	}
}

// Link transitions the configuration from Raw to Linked, merging options
// from the given parent (nil for a root configuration) with fill-only-unset
// semantics, then runs the compatibility and version gates. It returns
// whether the configuration should be applied: a version mismatch on a
// non-required configuration yields (false, nil), the discard disposition.
func (c *Config) Link(parent *Config) (bool, error) {
	if c.state != StateRaw {
		return false, errors.Newf(errors.ErrInitialisation,
			"configuration %s was already initialised", c.Name)
	}

	if parent == nil {
		if c.ParentName != "" {
			return false, errors.Newf(errors.ErrParentMissing,
				"configuration %s declares parent %s which was never loaded", c.Name, c.ParentName)
		}
		c.env = env.ParseSelector(c.Selector, c.session.Environment, c.session.Environment(env.PhaseDefault))
		c.required = c.RequiredFlag != nil && *c.RequiredFlag && !c.env.Option(env.OptionIgnoreRequired)
		c.initPriority(DefaultPriority, DefaultUnitPriority)

		if c.Injectors == nil {
			c.Injectors = newInjectorOptions()
		}
		if c.Overwrites == nil {
			c.Overwrites = &OverwriteOptions{}
		}
	} else {
		if parent == c {
			return false, errors.Newf(errors.ErrSelfParent,
				"configuration %s cannot be its own parent", c.Name)
		}
		if parent.state < StateLinked {
			return false, errors.Newf(errors.ErrParentNotReady,
				"configuration %s attempted to link an uninitialised parent %s;"+
					" this usually means an indirect loop in the configuration hierarchy", c.Name, parent.Name)
		}

		c.parent = parent
		c.env = env.ParseSelector(c.Selector, c.session.Environment, parent.env)
		if c.RequiredFlag == nil {
			c.required = parent.required
		} else {
			c.required = *c.RequiredFlag && !c.env.Option(env.OptionIgnoreRequired)
		}
		c.initPriority(parent.PriorityValue, parent.MixinPriorityValue)

		if c.Injectors == nil {
			c.Injectors = parent.Injectors
		} else {
			c.Injectors.mergeFrom(parent.Injectors)
		}
		if c.Overwrites == nil {
			c.Overwrites = parent.Overwrites
		} else {
			c.Overwrites.mergeFrom(parent.Overwrites)
		}

		c.SetSourceFile = c.SetSourceFile || parent.SetSourceFile
		c.VerboseLogging = c.VerboseLogging || parent.VerboseLogging
	}

	c.Injectors.normalize()
	c.state = StateLinked

	if err := c.initCompatibilityLevel(); err != nil {
		return false, err
	}
	c.initInjectionPoints()

	applied, err := c.checkVersion()
	if err != nil {
		return false, err
	}
	if !applied {
		c.discarded = true
	}
	return applied, nil
}

func (c *Config) initPriority(defaultPriority, defaultUnitPriority int) {
	if c.PriorityValue < 0 {
		c.PriorityValue = defaultPriority
	}
	if c.MixinPriorityValue < 0 {
		c.MixinPriorityValue = defaultUnitPriority
	}
}

// initCompatibilityLevel runs the compatibility gate against the session's
// active level. A failure here is always fatal to this configuration.
func (c *Config) initCompatibilityLevel() error {
	if c.Compatibility == "" {
		return nil
	}

	level, err := env.LevelForName(c.Compatibility)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCompatibility,
			"configuration %s declares an unknown compatibility level", c.Name)
	}

	current := c.session.CompatibilityLevel()
	if level == current {
		return nil
	}

	// Current level is higher than required but too new to honour the old
	// semantics.
	if current.IsAtLeast(level) {
		if !current.CanSupport(level) {
			return errors.Newf(errors.ErrCompatibility,
				"configuration %s requires compatibility level %s which is too old", c.Name, level)
		}
		return nil
	}

	if !current.CanElevateTo(level) {
		return errors.Newf(errors.ErrCompatibility,
			"configuration %s requires compatibility level %s which is prohibited by %s", c.Name, level, current)
	}

	c.session.elevateCompatibilityLevel(level)
	return nil
}

// initInjectionPoints registers host-supplied injection points named in the
// injector options. Failures are logged and skipped; a bad extension never
// blocks the owning configuration.
func (c *Config) initInjectionPoints() {
	for _, name := range c.Injectors.InjectionPoints {
		value, err := c.session.PointProvider(name)
		if err != nil {
			c.logger.Error().
				Str("point", name).
				Msg("Unable to register injection point, no provider supplied for name")
			continue
		}
		if err := injection.RegisterProvided(name, value); err != nil {
			c.logger.Error().
				Err(err).
				Str("point", name).
				Msg("Unable to register injection point, provider is not compatible")
			continue
		}
	}
}

// checkVersion runs the version gate. A missing minVersion warns unless the
// parent declared one; a minVersion above the active subsystem version
// returns the discard disposition, escalated to fatal for required
// configurations.
func (c *Config) checkVersion() (bool, error) {
	if c.MinVersion == "" {
		if c.parent != nil && c.parent.MinVersion != "" {
			return true, nil
		}
		c.logger.Error().Msg(`Configuration does not specify "minVersion" property`)
	}

	minVersion := version.Parse(c.MinVersion)
	curVersion := version.Parse(c.env.Version())
	if minVersion.Compare(curVersion) > 0 {
		c.logger.Warn().
			Str("minVersion", minVersion.String()).
			Str("current", curVersion.String()).
			Msg("Configuration requires a newer subsystem version and will not be applied")

		if c.required {
			return false, errors.Newf(errors.ErrVersionGate,
				"required configuration %s requires subsystem version %s", c.Name, minVersion)
		}
		return false, nil
	}

	return true, nil
}

// AddListener registers a lifecycle listener.
func (c *Config) AddListener(listener Listener) {
	c.listeners = append(c.listeners, listener)
}

// Select evaluates the configuration against the active environment,
// recording the visit regardless of outcome. A matching configuration
// transitions to Selected and activates its plugin and reference mapper.
func (c *Config) Select(active *env.Environment) bool {
	c.visited = true

	if c.state != StateLinked || c.discarded || c.env != active {
		return false
	}

	c.state = StateSelected
	c.onSelect()
	return true
}

func (c *Config) onSelect() {
	if c.PluginName != "" {
		plugin, err := c.session.plugins.Get(c.PluginName)
		if err != nil {
			c.logger.Error().
				Str("plugin", c.PluginName).
				Msg("Companion plugin was not registered with the session")
		} else {
			c.plugin = newPluginHandle(plugin)
		}
	}
	c.plugin.onLoad(c.MixinPackage)

	if !strings.HasSuffix(c.MixinPackage, ".") {
		c.MixinPackage += "."
	}

	suppressRefMapWarning := false
	if c.RefMapperConfig == "" {
		c.RefMapperConfig = c.plugin.refMapperConfig()
		if c.RefMapperConfig == "" {
			suppressRefMapWarning = true
		}
	}
	c.refMapper = c.readRefMap(suppressRefMapWarning)

	c.VerboseLogging = c.VerboseLogging || c.env.Option(env.OptionDebugVerbose)
}

func (c *Config) readRefMap(suppressWarning bool) *refmap.Mapper {
	warn := func() {
		if !suppressWarning && !c.env.Option(env.OptionDisableRefmap) {
			c.logger.Warn().
				Str("refmap", c.RefMapperConfig).
				Msg("Reference map could not be read; in a development environment this message can be ignored")
		}
	}

	if c.RefMapperConfig == "" || c.session.opener == nil {
		warn()
		return refmap.Default()
	}

	resource, err := c.session.opener(c.RefMapperConfig)
	if err != nil {
		warn()
		return refmap.Default()
	}
	defer func() { _ = resource.Close() }()

	mapper, err := refmap.Read(resource)
	if err != nil {
		warn()
		return refmap.Default()
	}
	return mapper
}

// Prepare enumerates the configuration's declared units, skips names
// already bound by any configuration in the session, and binds each
// remaining unit to its resolved targets. It is idempotent, first call
// wins: target resolution may re-enter the query surface, and re-entry must
// be a no-op rather than double work.
func (c *Config) Prepare(resolver UnitResolver) error {
	if c.state >= StatePrepared {
		return nil
	}
	if c.state != StateSelected {
		return errors.Newf(errors.ErrInitialisation,
			"cannot prepare configuration %s in state %s", c.Name, c.state)
	}
	c.state = StatePrepared

	if err := c.prepareUnits(c.MixinClasses, false, resolver); err != nil {
		return err
	}

	switch c.env.Side() {
	case env.SideClient:
		return c.prepareUnits(c.MixinClassesClient, false, resolver)
	case env.SideServer:
		return c.prepareUnits(c.MixinClassesServer, false, resolver)
	default:
		c.logger.Warn().Msg("Unable to determine the current side, sided units will not be applied")
		return nil
	}
}

// PostInitialise prepares plugin-contributed units, validates every
// retained unit and notifies listeners. A validation failure removes the
// unit from every target binding but is never fatal to the session. The
// driver must call this exactly once per session, after all configurations
// are prepared.
func (c *Config) PostInitialise(resolver UnitResolver) error {
	if c.state != StatePrepared {
		return errors.Newf(errors.ErrInitialisation,
			"cannot post-initialise configuration %s in state %s", c.Name, c.state)
	}

	if contributed := c.plugin.units(); len(contributed) > 0 {
		if err := c.prepareUnits(contributed, true, resolver); err != nil {
			return err
		}
	}

	kept := c.units[:0]
	for _, unit := range c.units {
		if err := unit.validate(resolver); err != nil {
			c.logger.Error().
				Err(err).
				Str("unit", unit.ClassName()).
				Msg("Unit failed validation and was removed from all targets")
			c.removeUnit(unit)
			continue
		}
		for _, listener := range c.listeners {
			listener.OnInit(unit)
		}
		kept = append(kept, unit)
	}
	c.units = kept

	c.state = StateFinalised
	return nil
}

// prepareUnits enumerates one scope list. Unit failures are rethrown when
// the configuration is required, otherwise logged and skipped. Units
// resolving zero targets are dropped without error.
func (c *Config) prepareUnits(names []string, fromPlugin bool, resolver UnitResolver) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		className := c.MixinPackage + name
		if !c.session.claimUnit(className) {
			c.logger.Debug().
				Str("unit", className).
				Msg("Skipping unit already bound by an earlier configuration")
			continue
		}
		c.pendingUnits = append(c.pendingUnits, newUnitInfo(c, name, fromPlugin))
	}

	for _, unit := range c.pendingUnits {
		if err := unit.parseTargets(resolver); err != nil {
			if c.required {
				c.pendingUnits = nil
				return errors.Wrapf(err, errors.ErrUnitInvalid,
					"error initialising unit %s for required configuration %s", unit.ClassName(), c.Name)
			}
			c.logger.Error().
				Err(err).
				Str("unit", unit.ClassName()).
				Msg("Error initialising unit, skipping")
			continue
		}

		if len(unit.Targets()) == 0 {
			continue
		}

		for _, target := range unit.Targets() {
			c.mixinMapping[target] = append(c.mixinMapping[target], unit)
			c.unhandledTargets[target] = struct{}{}
		}
		for _, listener := range c.listeners {
			listener.OnPrepare(unit)
		}
		c.units = append(c.units, unit)
	}

	c.pendingUnits = nil
	return nil
}

func (c *Config) removeUnit(remove *UnitInfo) {
	for target, units := range c.mixinMapping {
		kept := units[:0]
		for _, unit := range units {
			if unit != remove {
				kept = append(kept, unit)
			}
		}
		if len(kept) == 0 {
			delete(c.mixinMapping, target)
		} else {
			c.mixinMapping[target] = kept
		}
	}
}

// HasMixinsFor reports whether this configuration binds any unit to the
// target class.
func (c *Config) HasMixinsFor(targetClass string) bool {
	_, ok := c.mixinMapping[targetClass]
	return ok
}

// MixinsFor returns the units bound to the target class, in binding order.
func (c *Config) MixinsFor(targetClass string) []*UnitInfo {
	return c.mixinMapping[targetClass]
}

// Targets returns every target class this configuration binds units to.
func (c *Config) Targets() []string {
	targets := make([]string, 0, len(c.mixinMapping))
	for target := range c.mixinMapping {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

// UnhandledTargets returns declared targets not yet handled by the merge
// engine. Purely diagnostic.
func (c *Config) UnhandledTargets() []string {
	targets := make([]string, 0, len(c.unhandledTargets))
	for target := range c.unhandledTargets {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

// OnApplied records that the merge engine handled the target.
func (c *Config) OnApplied(targetClass string) {
	delete(c.unhandledTargets, targetClass)
}

// Required reports whether failures in this configuration are terminal.
func (c *Config) Required() bool {
	return c.required
}

// Priority returns the configuration's resolved priority.
func (c *Config) Priority() int {
	return c.PriorityValue
}

// DefaultUnitPriority returns the resolved default priority for units in
// this configuration.
func (c *Config) DefaultUnitPriority() int {
	if c.MixinPriorityValue < 0 {
		return DefaultUnitPriority
	}
	return c.MixinPriorityValue
}

// Order returns the insertion order captured at construction time.
func (c *Config) Order() int {
	return c.order
}

// Environment returns the configuration's resolved environment, nil before
// linking.
func (c *Config) Environment() *env.Environment {
	return c.env
}

// Parent returns the linked parent configuration, if any.
func (c *Config) Parent() *Config {
	return c.parent
}

// State returns the configuration's lifecycle state.
func (c *Config) State() State {
	return c.state
}

// Visited reports whether the configuration has been evaluated for
// selection.
func (c *Config) Visited() bool {
	return c.visited
}

// Discarded reports whether the version gate excluded this configuration.
func (c *Config) Discarded() bool {
	return c.discarded
}

// Plugin returns the companion plugin, or nil when the configuration has
// none.
func (c *Config) Plugin() Plugin {
	return c.plugin.Get()
}

// ReferenceMapper returns the configuration's reference mapper. Lookups are
// disabled wholesale by the environment's disable-refmap option.
func (c *Config) ReferenceMapper() *refmap.Mapper {
	if c.env != nil && c.env.Option(env.OptionDisableRefmap) {
		return refmap.Default()
	}
	if c.refMapper == nil {
		return refmap.Default()
	}
	return c.refMapper
}

// RemapClassName translates a symbolic reference declared by the given
// unit through the reference mapper.
func (c *Config) RemapClassName(unitClass, reference string) string {
	return c.ReferenceMapper().Remap(unitClass, reference)
}

// DefaultRequire returns the default require value for injectors declared
// by units in this configuration.
func (c *Config) DefaultRequire() int {
	return c.Injectors.DefaultRequire
}

// DefaultGroup returns the default injector group name.
func (c *Config) DefaultGroup() string {
	if c.Injectors.DefaultGroup == "" {
		return DefaultInjectorGroup
	}
	return c.Injectors.DefaultGroup
}

// MaxShiftBy returns the shift warning threshold, clamped to the allowed
// range.
func (c *Config) MaxShiftBy() int {
	shiftBy := c.Injectors.MaxShiftBy
	if shiftBy < 0 {
		return 0
	}
	if shiftBy > MaxAllowedShiftBy {
		return MaxAllowedShiftBy
	}
	return shiftBy
}

// ConformOverwriteVisibility reports whether overwritten method visibility
// is conformed to the target class.
func (c *Config) ConformOverwriteVisibility() bool {
	return c.Overwrites.ConformVisibility
}

// RequireOverwriteAnnotations reports whether overwrite behaviour must be
// explicitly annotated.
func (c *Config) RequireOverwriteAnnotations() bool {
	return c.Overwrites.RequireAnnotations
}

// ShouldSetSourceFile reports whether the source file attribute is
// propagated onto target classes.
func (c *Config) ShouldSetSourceFile() bool {
	return c.SetSourceFile
}

// PackageMatch reports whether the class name is inside this
// configuration's unit package.
func (c *Config) PackageMatch(className string) bool {
	return c.MixinPackage != "" && strings.HasPrefix(className, c.MixinPackage)
}

// Classes returns every declared unit class name, fully qualified, across
// all scope lists.
func (c *Config) Classes() []string {
	var classes []string
	for _, list := range [][]string{c.MixinClasses, c.MixinClassesClient, c.MixinClassesServer} {
		for _, name := range list {
			classes = append(classes, c.MixinPackage+name)
		}
	}
	return classes
}

// DeclaredUnitCount returns the number of declared units, for debug
// logging.
func (c *Config) DeclaredUnitCount() int {
	return len(c.MixinClasses) + len(c.MixinClassesClient) + len(c.MixinClassesServer)
}

// UnitCount returns the number of units actually initialised.
func (c *Config) UnitCount() int {
	return len(c.units)
}

// LogLevel returns the level configuration activity logs at, raised by the
// verbose flag.
func (c *Config) LogLevel() zerolog.Level {
	if c.VerboseLogging {
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}

// Compare orders configurations by ascending priority, breaking ties by
// ascending insertion order. The result is a total, stable order within
// one session.
func (c *Config) Compare(other *Config) int {
	if other == nil {
		return 0
	}
	if c.PriorityValue == other.PriorityValue {
		return c.order - other.order
	}
	return c.PriorityValue - other.PriorityValue
}

func (c *Config) String() string {
	return c.Name
}

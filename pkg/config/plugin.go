package config

// Plugin is the optional host-supplied companion for one configuration. It
// can veto unit-to-target bindings and contribute additional units after
// all configurations have been prepared. Plugins are registered with the
// session by name; a configuration references them through its plugin
// field.
type Plugin interface {
	// OnLoad is called once when the owning configuration is selected,
	// with the configuration's unit package.
	OnLoad(unitPackage string)

	// RefMapperConfig optionally names the reference map resource to use
	// when the configuration itself declares none. Empty means no opinion.
	RefMapperConfig() string

	// Units returns additional unit class names (simple names, the
	// configuration package is prepended) contributed by the plugin.
	Units() []string

	// ShouldApply reports whether the unit may bind to the target class.
	ShouldApply(targetClass, unitClass string) bool
}

// Listener observes unit lifecycle steps for one configuration.
type Listener interface {
	// OnPrepare is called when a unit has been successfully prepared and
	// bound to at least one target.
	OnPrepare(unit *UnitInfo)

	// OnInit is called when a unit has passed post-initialisation
	// validation.
	OnInit(unit *UnitInfo)
}

// UnitResolver is the external collaborator that inspects a declared unit
// class: it resolves the unit's declared targets and validates the unit
// after preparation. Reading unit bytecode is outside this package's scope.
type UnitResolver interface {
	// ResolveTargets returns the target class names declared by the unit.
	ResolveTargets(unitClass string) ([]string, error)

	// Validate checks a prepared unit, returning an error to have it
	// removed from all target bindings.
	Validate(unit *UnitInfo) error
}

// pluginHandle wraps an optional plugin so that callers need no nil checks.
type pluginHandle struct {
	plugin Plugin
}

func newPluginHandle(plugin Plugin) *pluginHandle {
	return &pluginHandle{plugin: plugin}
}

func (h *pluginHandle) onLoad(unitPackage string) {
	if h.plugin != nil {
		h.plugin.OnLoad(unitPackage)
	}
}

func (h *pluginHandle) refMapperConfig() string {
	if h.plugin != nil {
		return h.plugin.RefMapperConfig()
	}
	return ""
}

func (h *pluginHandle) units() []string {
	if h.plugin != nil {
		return h.plugin.Units()
	}
	return nil
}

func (h *pluginHandle) shouldApply(targetClass, unitClass string) bool {
	if h.plugin != nil {
		return h.plugin.ShouldApply(targetClass, unitClass)
	}
	return true
}

// Get returns the wrapped plugin, or nil when the configuration has none.
func (h *pluginHandle) Get() Plugin {
	return h.plugin
}

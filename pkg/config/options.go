package config

// Priority defaults and sentinels. A declared priority of UnsetPriority
// inherits from the parent configuration, or the global default when there
// is no parent.
const (
	UnsetPriority       = -1
	DefaultPriority     = 1000
	DefaultUnitPriority = 1000
)

// Injector option bounds.
const (
	DefaultMaxShiftBy    = 0
	MaxAllowedShiftBy    = 5
	DefaultInjectorGroup = "default"
)

// InjectorOptions carries the injector defaults a configuration applies to
// the rules of all its units.
type InjectorOptions struct {
	DefaultRequire  int      `koanf:"defaultRequire"`
	DefaultGroup    string   `koanf:"defaultGroup"`
	InjectionPoints []string `koanf:"injectionPoints"`
	MaxShiftBy      int      `koanf:"maxShiftBy"`
}

func newInjectorOptions() *InjectorOptions {
	return &InjectorOptions{
		DefaultGroup: DefaultInjectorGroup,
		MaxShiftBy:   DefaultMaxShiftBy,
	}
}

func (o *InjectorOptions) normalize() {
	if o.DefaultGroup == "" {
		o.DefaultGroup = DefaultInjectorGroup
	}
}

// mergeFrom fills locally-unset fields from the parent, never overwriting
// an explicitly-set local value.
func (o *InjectorOptions) mergeFrom(parent *InjectorOptions) {
	if o.DefaultRequire == 0 {
		o.DefaultRequire = parent.DefaultRequire
	}
	if o.DefaultGroup == "" || o.DefaultGroup == DefaultInjectorGroup {
		o.DefaultGroup = parent.DefaultGroup
	}
	if o.MaxShiftBy == DefaultMaxShiftBy {
		o.MaxShiftBy = parent.MaxShiftBy
	}
}

// OverwriteOptions carries the overwrite behaviour flags for a
// configuration's units.
type OverwriteOptions struct {
	ConformVisibility  bool `koanf:"conformVisibility"`
	RequireAnnotations bool `koanf:"requireAnnotations"`
}

// mergeFrom ORs the parent's flags into the local ones.
func (o *OverwriteOptions) mergeFrom(parent *OverwriteOptions) {
	o.ConformVisibility = o.ConformVisibility || parent.ConformVisibility
	o.RequireAnnotations = o.RequireAnnotations || parent.RequireAnnotations
}

package config

import (
	"strings"

	"github.com/weft-dev/weft/pkg/errors"
)

// UnitInfo is one declared transformation unit bound to its target classes.
// Units are created pending during preparation and confirmed once target
// parsing resolves at least one target; a unit that later fails validation
// is removed from every target binding.
type UnitInfo struct {
	owner      *Config
	name       string
	className  string
	priority   int
	fromPlugin bool
	pending    bool
	targets    []string
}

func newUnitInfo(owner *Config, name string, fromPlugin bool) *UnitInfo {
	return &UnitInfo{
		owner:      owner,
		name:       name,
		className:  owner.MixinPackage + name,
		priority:   owner.DefaultUnitPriority(),
		fromPlugin: fromPlugin,
		pending:    true,
	}
}

// Name returns the unit's simple class name as declared.
func (u *UnitInfo) Name() string {
	return u.name
}

// ClassName returns the fully-qualified unit class name.
func (u *UnitInfo) ClassName() string {
	return u.className
}

// Config returns the configuration that declared this unit.
func (u *UnitInfo) Config() *Config {
	return u.owner
}

// Priority returns the unit's priority, defaulted from the owning
// configuration.
func (u *UnitInfo) Priority() int {
	return u.priority
}

// Pending reports whether the unit has not yet been confirmed by target
// parsing.
func (u *UnitInfo) Pending() bool {
	return u.pending
}

// Targets returns the unit's resolved target class names.
func (u *UnitInfo) Targets() []string {
	return u.targets
}

// HasDeclaredTarget reports whether the unit resolved the given target.
func (u *UnitInfo) HasDeclaredTarget(targetClass string) bool {
	for _, t := range u.targets {
		if t == targetClass {
			return true
		}
	}
	return false
}

func (u *UnitInfo) String() string {
	return u.className
}

// parseTargets resolves the unit's declared targets through the host
// resolver and applies the owning configuration's plugin filter. Targets
// use dotted names regardless of the resolver's separator convention.
// Plugin-contributed units bypass the plugin filter.
func (u *UnitInfo) parseTargets(resolver UnitResolver) error {
	declared, err := resolver.ResolveTargets(u.className)
	if err != nil {
		return errors.Wrapf(err, errors.ErrUnitTargets, "failed to resolve targets for unit %s", u.className)
	}

	u.targets = u.targets[:0]
	for _, target := range declared {
		targetName := strings.ReplaceAll(target, "/", ".")
		if !u.fromPlugin && !u.owner.plugin.shouldApply(targetName, u.className) {
			continue
		}
		u.targets = append(u.targets, targetName)
	}

	u.pending = false
	return nil
}

func (u *UnitInfo) validate(resolver UnitResolver) error {
	if err := resolver.Validate(u); err != nil {
		return errors.Wrapf(err, errors.ErrUnitValidation, "unit %s failed validation", u.className)
	}
	return nil
}

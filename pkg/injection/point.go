// Package injection defines the injection point matcher protocol: named,
// parameterized predicates that select instructions in a method body. Point
// implementations live in the points subpackage and register themselves by
// code name; hosts may contribute additional points through a configuration's
// injector options.
package injection

import (
	"strconv"

	"github.com/weft-dev/weft/pkg/insn"
)

// UnsetOrdinal is the ordinal sentinel that suppresses ordinal matching.
const UnsetOrdinal = -1

// Point locates subsets of instructions in a method body that satisfy a
// structural predicate. Implementations walk the instruction sequence once,
// in order, and must be stateless per query.
type Point interface {
	// Find appends every matching instruction to nodes and reports whether
	// the set gained at least one member during this call. Matching is
	// additive: implementations never remove or reorder nodes collected by
	// prior rule evaluations against the same method.
	Find(desc string, insns *insn.List, nodes *insn.NodeSet) bool
}

// Factory constructs a Point from the parameter bag of one declared rule.
type Factory func(data *Data) (Point, error)

// Provider is the capability interface for host-supplied injection points.
// Values registered under a configuration's injectionPoints list must
// implement it; anything else is skipped with a logged error.
type Provider interface {
	// Code returns the rule code name the point registers under.
	Code() string

	// Factory returns the constructor for the point.
	Factory() Factory
}

// Data is the parameter bag for one declared rule: the ordinal, and any
// rule-specific keys such as the value filter.
type Data struct {
	args map[string]string
}

// NewData creates a parameter bag from raw rule arguments. A nil map is
// treated as empty.
func NewData(args map[string]string) *Data {
	if args == nil {
		args = make(map[string]string)
	}
	return &Data{args: args}
}

// Get returns the value for key, or fallback when the key is absent or empty.
func (d *Data) Get(key, fallback string) string {
	if v, ok := d.args[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Ordinal returns the declared ordinal, or UnsetOrdinal when absent or
// malformed. Ordinals below the sentinel are clamped to it.
func (d *Data) Ordinal() int {
	v, ok := d.args["ordinal"]
	if !ok {
		return UnsetOrdinal
	}
	ordinal, err := strconv.Atoi(v)
	if err != nil || ordinal < UnsetOrdinal {
		return UnsetOrdinal
	}
	return ordinal
}

// Opcode returns the declared opcode filter, or fallback when absent or
// malformed.
func (d *Data) Opcode(fallback insn.Opcode) insn.Opcode {
	v, ok := d.args["opcode"]
	if !ok {
		return fallback
	}
	opcode, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return insn.Opcode(opcode)
}

// Package points provides the built-in injection point matchers. Each point
// walks the method body once, in order, applying a structural kind filter, a
// case-insensitive value filter (wildcarded by "all") and an ordinal counter
// that advances for every instruction passing the base predicate.
package points

import (
	"strings"

	"github.com/weft-dev/weft/pkg/injection"
	"github.com/weft-dev/weft/pkg/insn"
)

const (
	// InstanceofCode is the rule code name for type-check instructions.
	InstanceofCode = "INSTANCEOF"

	// Wildcard matches any operand value.
	Wildcard = "all"
)

// InstanceofPoint matches INSTANCEOF instructions, optionally filtered by
// the checked class and by ordinal. By default it returns every type check
// in the method body.
type InstanceofPoint struct {
	targetClass string
	ordinal     int
}

// NewInstanceofPoint creates an InstanceofPoint from rule parameters. The
// "class" key filters on the checked class, defaulting to the wildcard.
func NewInstanceofPoint(data *injection.Data) (injection.Point, error) {
	return &InstanceofPoint{
		targetClass: data.Get("class", Wildcard),
		ordinal:     data.Ordinal(),
	}, nil
}

// Find locates matching type-check instructions.
func (p *InstanceofPoint) Find(desc string, insns *insn.List, nodes *insn.NodeSet) bool {
	found := false
	ordinal := 0

	for _, node := range insns.Nodes() {
		typeInsn, ok := node.(*insn.TypeInsn)
		if !ok || typeInsn.Op != insn.INSTANCEOF {
			continue
		}
		if !matchesValue(p.targetClass, typeInsn.Desc) {
			continue
		}

		if p.ordinal == injection.UnsetOrdinal || p.ordinal == ordinal {
			nodes.Add(node)
			found = true
		}
		ordinal++
	}

	return found
}

// matchesValue applies the shared value filter semantics: the wildcard
// matches anything, everything else is case-insensitive exact equality.
func matchesValue(filter, operand string) bool {
	return strings.EqualFold(filter, Wildcard) || strings.EqualFold(filter, operand)
}

func init() {
	injection.MustRegister(InstanceofCode, NewInstanceofPoint)
}

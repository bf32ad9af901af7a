package points

import (
	"fmt"

	"github.com/weft-dev/weft/pkg/injection"
	"github.com/weft-dev/weft/pkg/insn"
)

// ConstantCode is the rule code name for constant loads.
const ConstantCode = "CONSTANT"

// ConstantPoint matches constant-load instructions by their stringified
// value, optionally at a particular ordinal.
type ConstantPoint struct {
	value   string
	ordinal int
}

// NewConstantPoint creates a ConstantPoint from rule parameters. The
// "value" key filters on the loaded constant, defaulting to the wildcard.
func NewConstantPoint(data *injection.Data) (injection.Point, error) {
	return &ConstantPoint{
		value:   data.Get("value", Wildcard),
		ordinal: data.Ordinal(),
	}, nil
}

// Find locates matching constant-load instructions.
func (p *ConstantPoint) Find(desc string, insns *insn.List, nodes *insn.NodeSet) bool {
	found := false
	ordinal := 0

	for _, node := range insns.Nodes() {
		ldcInsn, ok := node.(*insn.LdcInsn)
		if !ok {
			continue
		}
		if !matchesValue(p.value, fmt.Sprintf("%v", ldcInsn.Value)) {
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

func init() {
	injection.MustRegister(ConstantCode, NewConstantPoint)
}

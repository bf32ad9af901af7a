package points

import (
	"github.com/weft-dev/weft/pkg/injection"
	"github.com/weft-dev/weft/pkg/insn"
)

// NewCode is the rule code name for object instantiations.
const NewCode = "NEW"

// NewInsnPoint matches NEW instructions by instantiated class, optionally
// at a particular ordinal.
type NewInsnPoint struct {
	targetClass string
	ordinal     int
}

// NewNewInsnPoint creates a NewInsnPoint from rule parameters. The "class"
// key filters on the instantiated class, defaulting to the wildcard.
func NewNewInsnPoint(data *injection.Data) (injection.Point, error) {
	return &NewInsnPoint{
		targetClass: data.Get("class", Wildcard),
		ordinal:     data.Ordinal(),
	}, nil
}

// Find locates matching instantiation instructions.
func (p *NewInsnPoint) Find(desc string, insns *insn.List, nodes *insn.NodeSet) bool {
	found := false
	ordinal := 0

	for _, node := range insns.Nodes() {
		typeInsn, ok := node.(*insn.TypeInsn)
		if !ok || typeInsn.Op != insn.NEW {
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

func init() {
	injection.MustRegister(NewCode, NewNewInsnPoint)
}

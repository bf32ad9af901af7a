package points

import (
	"github.com/weft-dev/weft/pkg/injection"
	"github.com/weft-dev/weft/pkg/insn"
)

// FieldCode is the rule code name for field accesses.
const FieldCode = "FIELD"

// FieldPoint matches field access instructions by field name, optionally
// narrowed to a particular access opcode and ordinal.
type FieldPoint struct {
	target  string
	opcode  insn.Opcode
	ordinal int
}

// NewFieldPoint creates a FieldPoint from rule parameters. The "field" key
// filters on the accessed field name, defaulting to the wildcard; the
// "opcode" key narrows to one of the get/put opcodes.
func NewFieldPoint(data *injection.Data) (injection.Point, error) {
	return &FieldPoint{
		target:  data.Get("field", Wildcard),
		opcode:  data.Opcode(insn.MatchesAny),
		ordinal: data.Ordinal(),
	}, nil
}

// Find locates matching field access instructions.
func (p *FieldPoint) Find(desc string, insns *insn.List, nodes *insn.NodeSet) bool {
	found := false
	ordinal := 0

	for _, node := range insns.Nodes() {
		fieldInsn, ok := node.(*insn.FieldInsn)
		if !ok {
			continue
		}
		if p.opcode != insn.MatchesAny && fieldInsn.Op != p.opcode {
			continue
		}
		if !matchesValue(p.target, fieldInsn.Name) {
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
	injection.MustRegister(FieldCode, NewFieldPoint)
}

package points

import (
	"github.com/weft-dev/weft/pkg/injection"
	"github.com/weft-dev/weft/pkg/insn"
)

// JumpCode is the rule code name for branch instructions.
const JumpCode = "JUMP"

// JumpPoint matches jump instructions (conditional branches, goto, jsr,
// null checks), optionally narrowed to a particular opcode and ordinal. By
// default it returns every jump in the method body.
type JumpPoint struct {
	opcode  insn.Opcode
	ordinal int
}

// NewJumpPoint creates a JumpPoint from rule parameters. The "opcode" key
// narrows the match to one jump opcode; the default matches any jump.
func NewJumpPoint(data *injection.Data) (injection.Point, error) {
	return &JumpPoint{
		opcode:  data.Opcode(insn.MatchesAny),
		ordinal: data.Ordinal(),
	}, nil
}

// Find locates matching jump instructions.
func (p *JumpPoint) Find(desc string, insns *insn.List, nodes *insn.NodeSet) bool {
	found := false
	ordinal := 0

	for _, node := range insns.Nodes() {
		if _, ok := node.(*insn.JumpInsn); !ok {
			continue
		}
		if p.opcode != insn.MatchesAny && node.Opcode() != p.opcode {
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
	injection.MustRegister(JumpCode, NewJumpPoint)
}

package points

import (
	"github.com/weft-dev/weft/pkg/injection"
	"github.com/weft-dev/weft/pkg/insn"
)

// InvokeCode is the rule code name for method invocations.
const InvokeCode = "INVOKE"

// InvokePoint matches method invocation instructions by invoked method
// name, optionally at a particular ordinal.
type InvokePoint struct {
	target  string
	ordinal int
}

// NewInvokePoint creates an InvokePoint from rule parameters. The "method"
// key filters on the invoked method name, defaulting to the wildcard.
func NewInvokePoint(data *injection.Data) (injection.Point, error) {
	return &InvokePoint{
		target:  data.Get("method", Wildcard),
		ordinal: data.Ordinal(),
	}, nil
}

// Find locates matching invocation instructions.
func (p *InvokePoint) Find(desc string, insns *insn.List, nodes *insn.NodeSet) bool {
	found := false
	ordinal := 0

	for _, node := range insns.Nodes() {
		methodInsn, ok := node.(*insn.MethodInsn)
		if !ok {
			continue
		}
		if !matchesValue(p.target, methodInsn.Name) {
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
	injection.MustRegister(InvokeCode, NewInvokePoint)
}

// Package insn models a method body as an ordered sequence of low-level
// instructions. It is the structural representation consumed by injection
// point matchers; it carries no behaviour of its own.
package insn

// Opcode identifies the operation performed by an instruction. Values
// follow the JVM instruction set so that operands produced by external
// bytecode readers map directly onto this model.
type Opcode int

const (
	NOP Opcode = 0
	LDC Opcode = 18

	IFEQ      Opcode = 153
	IFNE      Opcode = 154
	IFLT      Opcode = 155
	IFGE      Opcode = 156
	IFGT      Opcode = 157
	IFLE      Opcode = 158
	IFICMPEQ  Opcode = 159
	IFICMPNE  Opcode = 160
	IFICMPLT  Opcode = 161
	IFICMPGE  Opcode = 162
	IFICMPGT  Opcode = 163
	IFICMPLE  Opcode = 164
	IFACMPEQ  Opcode = 165
	IFACMPNE  Opcode = 166
	GOTO      Opcode = 167
	JSR       Opcode = 168
	IRETURN   Opcode = 172
	LRETURN   Opcode = 173
	FRETURN   Opcode = 174
	DRETURN   Opcode = 175
	ARETURN   Opcode = 176
	RETURN    Opcode = 177
	GETSTATIC Opcode = 178
	PUTSTATIC Opcode = 179
	GETFIELD  Opcode = 180
	PUTFIELD  Opcode = 181

	INVOKEVIRTUAL   Opcode = 182
	INVOKESPECIAL   Opcode = 183
	INVOKESTATIC    Opcode = 184
	INVOKEINTERFACE Opcode = 185

	NEW        Opcode = 187
	CHECKCAST  Opcode = 192
	INSTANCEOF Opcode = 193
	IFNULL     Opcode = 198
	IFNONNULL  Opcode = 199
)

// MatchesAny is the sentinel opcode filter meaning "any opcode of the
// structural kind".
const MatchesAny Opcode = -1

// IsJump reports whether the opcode transfers control within the method.
func (op Opcode) IsJump() bool {
	return (op >= IFEQ && op <= JSR) || op == IFNULL || op == IFNONNULL
}

// Node is a single instruction in a method body. Matchers receive nodes by
// handle; the handle identity is what downstream splicing keys on.
type Node interface {
	Opcode() Opcode
}

// Raw is an instruction with no operands.
type Raw struct {
	Op Opcode
}

func (n *Raw) Opcode() Opcode { return n.Op }

// TypeInsn is an instruction carrying a class operand (NEW, CHECKCAST,
// INSTANCEOF).
type TypeInsn struct {
	Op   Opcode
	Desc string
}

func (n *TypeInsn) Opcode() Opcode { return n.Op }

// JumpInsn is a conditional or unconditional branch.
type JumpInsn struct {
	Op    Opcode
	Label string
}

func (n *JumpInsn) Opcode() Opcode { return n.Op }

// MethodInsn is a method invocation.
type MethodInsn struct {
	Op    Opcode
	Owner string
	Name  string
	Desc  string
}

func (n *MethodInsn) Opcode() Opcode { return n.Op }

// FieldInsn is a field access.
type FieldInsn struct {
	Op    Opcode
	Owner string
	Name  string
	Desc  string
}

func (n *FieldInsn) Opcode() Opcode { return n.Op }

// LdcInsn pushes a constant.
type LdcInsn struct {
	Value interface{}
}

func (n *LdcInsn) Opcode() Opcode { return LDC }

// List is an ordered instruction sequence, the body of one method.
type List struct {
	nodes []Node
}

// NewList creates a List from the given instructions, in order.
func NewList(nodes ...Node) *List {
	l := &List{}
	l.nodes = append(l.nodes, nodes...)
	return l
}

// Add appends an instruction to the list.
func (l *List) Add(n Node) {
	l.nodes = append(l.nodes, n)
}

// Len returns the number of instructions.
func (l *List) Len() int {
	return len(l.nodes)
}

// At returns the instruction at index i.
func (l *List) At(i int) Node {
	return l.nodes[i]
}

// Nodes returns the instructions in sequence order. The returned slice is
// shared with the list and must not be mutated.
func (l *List) Nodes() []Node {
	return l.nodes
}

// NodeSet is an insertion-ordered set of instruction handles. Matching is
// strictly additive: nodes are only ever appended, never removed or
// reordered, so results from successive rule evaluations union cleanly.
type NodeSet struct {
	nodes   []Node
	present map[Node]struct{}
}

// NewNodeSet creates an empty NodeSet.
func NewNodeSet() *NodeSet {
	return &NodeSet{present: make(map[Node]struct{})}
}

// Add inserts a node, reporting whether the set grew.
func (s *NodeSet) Add(n Node) bool {
	if _, ok := s.present[n]; ok {
		return false
	}
	s.present[n] = struct{}{}
	s.nodes = append(s.nodes, n)
	return true
}

// Contains reports whether the node is already in the set.
func (s *NodeSet) Contains(n Node) bool {
	_, ok := s.present[n]
	return ok
}

// Len returns the number of nodes collected so far.
func (s *NodeSet) Len() int {
	return len(s.nodes)
}

// Nodes returns the collected nodes in insertion order.
func (s *NodeSet) Nodes() []Node {
	return s.nodes
}

// ast.go: the abstract syntax tree produced by the parser.
//
// Nodes are tagged by kind and carry an optional string payload (identifier
// name or literal text), a source location, and an ordered list of children.
// The tree is built bottom-up during parsing and never mutated afterwards;
// the interpreter only reads it.
package microscript

import (
	"fmt"
	"strings"
)

// NodeKind enumerates AST node categories.
type NodeKind int

const (
	ASTUnit NodeKind = iota
	ASTStatement
	ASTStatementList
	ASTVarDef
	ASTVarRef
	ASTAssign
	ASTAdd
	ASTSub
	ASTMul
	ASTDiv
	ASTLogicalAnd
	ASTLogicalOr
	ASTLess
	ASTLessEq
	ASTGreater
	ASTGreaterEq
	ASTEq
	ASTNotEq
	ASTIf
	ASTWhile
	ASTFunction
	ASTFnCall
	ASTParamList
	ASTArgList
	ASTIntLiteral
)

func (k NodeKind) String() string {
	switch k {
	case ASTUnit:
		return "UNIT"
	case ASTStatement:
		return "STATEMENT"
	case ASTStatementList:
		return "STATEMENT_LIST"
	case ASTVarDef:
		return "VARDEF"
	case ASTVarRef:
		return "VARREF"
	case ASTAssign:
		return "ASSIGN"
	case ASTAdd:
		return "ADD"
	case ASTSub:
		return "SUB"
	case ASTMul:
		return "MULTIPLY"
	case ASTDiv:
		return "DIVIDE"
	case ASTLogicalAnd:
		return "LOGICAL_AND"
	case ASTLogicalOr:
		return "LOGICAL_OR"
	case ASTLess:
		return "LESS"
	case ASTLessEq:
		return "LESS_EQUAL"
	case ASTGreater:
		return "GREATER"
	case ASTGreaterEq:
		return "GREATER_EQUAL"
	case ASTEq:
		return "EQUAL"
	case ASTNotEq:
		return "NOT_EQUAL"
	case ASTIf:
		return "IF"
	case ASTWhile:
		return "WHILE"
	case ASTFunction:
		return "FUNCTION"
	case ASTFnCall:
		return "FNCALL"
	case ASTParamList:
		return "PARAMETER_LIST"
	case ASTArgList:
		return "ARGLIST"
	case ASTIntLiteral:
		return "INT_LITERAL"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is one AST node. Str holds an identifier name (VARREF) or literal
// text (INT_LITERAL) and is empty otherwise. Kids is kind-dependent:
//
//	UNIT            statements/functions, in order (1..N)
//	STATEMENT       the wrapped statement (1)
//	STATEMENT_LIST  statements, in order (0..N)
//	VARDEF          VARREF of the declared name (1)
//	ASSIGN          VARREF target, value expression (2)
//	binary ops      left, right (2)
//	IF              condition, then-list [, else-list] (2..3)
//	WHILE           condition, body-list (2)
//	FUNCTION        VARREF name [, PARAMETER_LIST], STATEMENT_LIST (2..3)
//	FNCALL          VARREF callee [, ARGLIST] (1..2)
//	PARAMETER_LIST  VARREFs, in order (1..N)
//	ARGLIST         expressions, in order (1..N)
type Node struct {
	Kind NodeKind
	Str  string
	Loc  Location
	Kids []*Node
}

func newNode(kind NodeKind, kids ...*Node) *Node {
	return &Node{Kind: kind, Kids: kids}
}

func varRefNode(name string, loc Location) *Node {
	return &Node{Kind: ASTVarRef, Str: name, Loc: loc}
}

// NumKids reports the number of children.
func (n *Node) NumKids() int { return len(n.Kids) }

// Kid returns the i-th child; it panics with a RuntimeError on a bad index,
// since that can only be an interpreter bug.
func (n *Node) Kid(i int) *Node {
	if i < 0 || i >= len(n.Kids) {
		raise(RuntimeError, n.Loc, "node %s has no child %d", n.Kind, i)
	}
	return n.Kids[i]
}

// Dump renders the tree as an indented listing, one node per line, in the
// style of
//
//	UNIT
//	+--STATEMENT
//	   +--VARDEF
//	      +--VARREF[x]
//
// Useful for tests and the CLI --ast flag.
func (n *Node) Dump() string {
	var b strings.Builder
	n.dump(&b, "")
	return b.String()
}

func (n *Node) dump(b *strings.Builder, indent string) {
	b.WriteString(n.Kind.String())
	if n.Str != "" {
		fmt.Fprintf(b, "[%s]", n.Str)
	}
	b.WriteByte('\n')
	for _, kid := range n.Kids {
		b.WriteString(indent)
		b.WriteString("+--")
		kid.dump(b, indent+"   ")
	}
}

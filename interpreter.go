// interpreter.go: the public interpreter surface and the evaluation walk.
//
// An Interpreter owns a parsed AST and evaluates it against an environment
// chain rooted at a global frame pre-populated with the intrinsics. The
// canonical sequence is Analyze (scope check, see analyzer.go) followed by
// Execute. Execute performs a single eager recursive walk; internal failures
// are raised as panic(*Error) and recovered into ordinary Go errors at this
// boundary, so no panic ever escapes the exported API.
//
// Embedding: NewInterpreterWithEnv evaluates against a caller-supplied
// environment (the REPL uses this for persistent state). Evaluation
// re-checks variable definedness independently of Analyze, because embedded
// callers may execute nodes that never went through analysis; those checks
// surface as RuntimeError rather than user-facing conditions.
package microscript

import (
	"io"
	"os"
	"strconv"
)

// Interpreter evaluates one program AST.
type Interpreter struct {
	ast *Node
	env *Env
	out io.Writer
}

// NewInterpreter creates an interpreter for ast with a fresh global
// environment holding the intrinsics. Output goes to os.Stdout.
func NewInterpreter(ast *Node) *Interpreter {
	return NewInterpreterWithEnv(ast, NewGlobalEnv())
}

// NewInterpreterWithEnv creates an interpreter evaluating ast directly in
// env. The caller keeps ownership of env; definitions made by the program
// persist in it after Execute returns.
func NewInterpreterWithEnv(ast *Node, env *Env) *Interpreter {
	return &Interpreter{ast: ast, env: env, out: os.Stdout}
}

// NewGlobalEnv returns a root environment pre-populated with the intrinsic
// functions (print, println).
func NewGlobalEnv() *Env {
	env := NewEnv(nil)
	for _, in := range intrinsics {
		env.Define(in.Name, IntrinsicVal(in))
	}
	return env
}

// SetOutput redirects the print/println intrinsics to w. Tests use this;
// the default is the process standard output.
func (ip *Interpreter) SetOutput(w io.Writer) { ip.out = w }

// Env exposes the interpreter's root environment (for embedding and the
// REPL's persistent state).
func (ip *Interpreter) Env() *Env { return ip.env }

// Execute evaluates the whole program and returns the value of its last
// top-level statement. Errors are *Error values (EvaluationError for
// language-level violations, RuntimeError for internal faults).
func (ip *Interpreter) Execute() (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			v = Value{}
			err = e
		}
	}()
	return ip.eval(ip.ast, ip.env), nil
}

// eval dispatches on node kind. It returns normally with the node's value
// and reports failures via panic(*Error), unwound at Execute.
func (ip *Interpreter) eval(n *Node, env *Env) Value {
	if n == nil {
		raise(RuntimeError, Location{}, "nil node during evaluation")
	}

	switch n.Kind {
	case ASTUnit:
		// Top-level items run in sequence directly in the root scope; the
		// program's value is the value of the last one.
		last := Int(0)
		for _, kid := range n.Kids {
			last = ip.eval(kid, env)
		}
		return last

	case ASTStatement:
		return ip.eval(n.Kid(0), env)

	case ASTStatementList:
		// One fresh scope for the whole block, not per statement.
		inner := NewEnv(env)
		last := Int(0)
		for _, kid := range n.Kids {
			last = ip.eval(kid, inner)
		}
		return last

	case ASTIntLiteral:
		num, err := strconv.ParseInt(n.Str, 10, 64)
		if err != nil {
			raise(RuntimeError, n.Loc, "malformed integer literal %q", n.Str)
		}
		return Int(num)

	case ASTVarRef:
		v, ok := env.Get(n.Str)
		if !ok {
			// Safety net: analysis reports this first in the normal
			// pipeline, but embedded callers may skip analysis.
			raise(RuntimeError, n.Loc, "undefined variable %q", n.Str)
		}
		return v

	case ASTVarDef:
		name := n.Kid(0).Str
		if env.DefinesLocally(name) {
			raise(EvaluationError, n.Loc, "redefinition of variable %q", name)
		}
		env.Define(name, Int(0))
		return Int(0)

	case ASTAssign:
		name := n.Kid(0).Str
		v := ip.eval(n.Kid(1), env)
		if !env.Set(name, v) {
			raise(EvaluationError, n.Loc, "assignment to undefined variable %q", name)
		}
		return v

	case ASTAdd, ASTSub, ASTMul, ASTDiv,
		ASTLess, ASTLessEq, ASTGreater, ASTGreaterEq, ASTEq, ASTNotEq:
		left := ip.intOperand(n.Kid(0), env)
		right := ip.intOperand(n.Kid(1), env)
		return ip.binaryOp(n, left, right)

	case ASTLogicalAnd:
		// Short-circuit: a false left operand suppresses the right one.
		if ip.intOperand(n.Kid(0), env) == 0 {
			return Int(0)
		}
		if ip.intOperand(n.Kid(1), env) != 0 {
			return Int(1)
		}
		return Int(0)

	case ASTLogicalOr:
		if ip.intOperand(n.Kid(0), env) != 0 {
			return Int(1)
		}
		if ip.intOperand(n.Kid(1), env) != 0 {
			return Int(1)
		}
		return Int(0)

	case ASTIf:
		if ip.intOperand(n.Kid(0), env) != 0 {
			ip.eval(n.Kid(1), env)
		} else if n.NumKids() == 3 {
			ip.eval(n.Kid(2), env)
		}
		return Int(0)

	case ASTWhile:
		// The body statement list opens a fresh scope on every iteration,
		// so bindings never survive across iterations.
		for ip.intOperand(n.Kid(0), env) != 0 {
			ip.eval(n.Kid(1), env)
		}
		return Int(0)

	case ASTFunction:
		name, params, body := splitFunction(n)
		fn := &Function{Name: name.Str, Params: params, Body: body, Env: env}
		v := FunVal(fn)
		env.Define(fn.Name, v)
		return v

	case ASTFnCall:
		return ip.evalCall(n, env)

	default:
		raise(RuntimeError, n.Loc, "unknown AST node %s during evaluation", n.Kind)
		return Value{}
	}
}

// intOperand evaluates a node and requires an integer result, as arithmetic,
// comparison, logic, and control-flow conditions all do.
func (ip *Interpreter) intOperand(n *Node, env *Env) int64 {
	v := ip.eval(n, env)
	if v.Tag != VTInt {
		raise(EvaluationError, n.Loc, "operand is not an integer")
	}
	return v.Data.(int64)
}

func (ip *Interpreter) binaryOp(n *Node, left, right int64) Value {
	boolInt := func(b bool) Value {
		if b {
			return Int(1)
		}
		return Int(0)
	}
	switch n.Kind {
	case ASTAdd:
		return Int(left + right)
	case ASTSub:
		return Int(left - right)
	case ASTMul:
		return Int(left * right)
	case ASTDiv:
		if right == 0 {
			raise(EvaluationError, n.Loc, "division by zero")
		}
		return Int(left / right)
	case ASTLess:
		return boolInt(left < right)
	case ASTLessEq:
		return boolInt(left <= right)
	case ASTGreater:
		return boolInt(left > right)
	case ASTGreaterEq:
		return boolInt(left >= right)
	case ASTEq:
		return boolInt(left == right)
	case ASTNotEq:
		return boolInt(left != right)
	default:
		raise(RuntimeError, n.Loc, "unknown binary operator %s", n.Kind)
		return Value{}
	}
}

func (ip *Interpreter) evalCall(n *Node, env *Env) Value {
	callee := n.Kid(0)
	fv, ok := env.Get(callee.Str)
	if !ok {
		raise(RuntimeError, callee.Loc, "undefined variable %q", callee.Str)
	}

	var args []Value
	if n.NumKids() == 2 {
		for _, argNode := range n.Kid(1).Kids {
			args = append(args, ip.eval(argNode, env))
		}
	}

	switch fv.Tag {
	case VTIntrinsic:
		return fv.Data.(*Intrinsic).Impl(ip, args, n.Loc)

	case VTFun:
		fn := fv.Data.(*Function)
		if len(args) != len(fn.Params) {
			raise(EvaluationError, n.Loc, "function %q expects %d argument(s), got %d",
				fn.Name, len(fn.Params), len(args))
		}
		// The frame's parent is the function's defining environment, not
		// the caller's scope: lexical scoping, fresh frame per call.
		frame := NewEnv(fn.Env)
		for i, p := range fn.Params {
			frame.Define(p, args[i])
		}
		return ip.eval(fn.Body, frame)

	default:
		raise(EvaluationError, n.Loc, "%q is not a function", callee.Str)
		return Value{}
	}
}

// analyzer.go: pre-execution scope checking.
//
// The analyzer walks the AST once with its own scratch environment chain and
// verifies that every variable reference has a reachable definition. It is
// strictly pass/fail: the first violation aborts with a SemanticError and no
// execution happens. Statement lists open a fresh child scope; every other
// node recurses in the scope it was reached in. The pass deliberately does
// not reject redeclaration within one block; that is an evaluation-time
// condition (see eval of VARDEF).
package microscript

// Analyze runs the scope check over the interpreter's AST. The scratch root
// scope is seeded with every name already visible in the interpreter's
// environment (intrinsics, and prior definitions when embedding with a
// persistent environment), so references to them pass.
func (ip *Interpreter) Analyze() (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()

	scope := NewEnv(nil)
	for _, name := range ip.env.names() {
		scope.Define(name, Int(0))
	}
	analyzeNode(ip.ast, scope)
	return nil
}

func analyzeNode(n *Node, scope *Env) {
	if n == nil {
		raise(RuntimeError, Location{}, "nil node during analysis")
	}

	switch n.Kind {
	case ASTVarDef:
		// Mark the name as defined; same-block redeclaration is left for
		// the evaluator to reject.
		scope.Define(n.Kid(0).Str, Int(0))

	case ASTVarRef:
		if !scope.IsDefined(n.Str) {
			raise(SemanticError, n.Loc, "variable %q referenced before definition", n.Str)
		}

	case ASTStatementList:
		inner := NewEnv(scope)
		for _, kid := range n.Kids {
			analyzeNode(kid, inner)
		}

	case ASTFunction:
		name, params, body := splitFunction(n)
		scope.Define(name.Str, Int(0))
		// Parameters live in a frame around the body; the body's statement
		// list opens its own scope inside it, mirroring evaluation.
		frame := NewEnv(scope)
		for _, p := range params {
			frame.Define(p, Int(0))
		}
		analyzeNode(body, frame)

	default:
		for _, kid := range n.Kids {
			analyzeNode(kid, scope)
		}
	}
}

// splitFunction unpacks a FUNCTION node's name, parameter names, and body,
// tolerating the optional parameter list.
func splitFunction(n *Node) (name *Node, params []string, body *Node) {
	name = n.Kid(0)
	body = n.Kid(n.NumKids() - 1)
	if n.NumKids() == 3 {
		for _, p := range n.Kid(1).Kids {
			params = append(params, p.Str)
		}
	}
	return name, params, body
}

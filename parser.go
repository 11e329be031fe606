// parser.go: recursive-descent parser, one method per nonterminal.
//
// Grammar (precedence encoded structurally, loosest to tightest):
//
//	Unit     -> (Func | Stmt)+
//	Func     -> "function" ident "(" [ParamList] ")" "{" StmtList "}"
//	ParamList-> ident ("," ident)*
//	Stmt     -> "var" ident ";"
//	          | "if" "(" A ")" "{" StmtList "}" ["else" "{" StmtList "}"]
//	          | "while" "(" A ")" "{" StmtList "}"
//	          | A ";"
//	StmtList -> Stmt*
//	A        -> ident "=" A | L
//	L        -> R (("||" | "&&") R)?
//	R        -> E (("<"|"<="|">"|">="|"=="|"!=") E)?
//	E        -> T (("+"|"-") T)*
//	T        -> F (("*"|"/") F)*
//	F        -> intlit | ident | ident "(" [ArgList] ")" | "(" A ")"
//	ArgList  -> L ("," L)*
//
// Assignment is right-recursive (x = y = 1 groups rightward); the logical
// and relational levels deliberately accept at most one operator, so chains
// like a < b < c stop after the first comparison and the leftover tokens
// fail at the next expected terminator. Parenthesized subexpressions
// re-enter at A, so (x = 1) is legal.
//
// Distinguishing "ident = ..." from a plain expression needs two tokens of
// lookahead; distinguishing a call from a variable reference needs one.
package microscript

// Parser consumes the token stream of a Lexer and produces an AST.
type Parser struct {
	lexer *Lexer
}

// NewParser creates a parser over the given lexer.
func NewParser(l *Lexer) *Parser {
	return &Parser{lexer: l}
}

// ParseSource is a convenience wrapper: lex and parse src in one step.
// file labels diagnostics.
func ParseSource(src, file string) (*Node, error) {
	return NewParser(NewLexerString(src, file)).Parse()
}

// Parse consumes the entire token stream and returns the root unit node, or
// a SyntaxError on any structural violation or premature end of input.
func (p *Parser) Parse() (*Node, error) {
	return p.parseUnit()
}

func (p *Parser) parseUnit() (*Node, error) {
	unit := newNode(ASTUnit)
	for {
		item, err := p.parseTopStmt()
		if err != nil {
			return nil, err
		}
		unit.Kids = append(unit.Kids, item)
		next, err := p.lexer.Peek(1)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
	}
	if len(unit.Kids) > 0 {
		unit.Loc = unit.Kids[0].Loc
	}
	return unit, nil
}

// parseTopStmt parses one top-level item: a function definition or a
// statement.
func (p *Parser) parseTopStmt() (*Node, error) {
	next, err := p.lexer.Peek(1)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, errf(SyntaxError, p.lexer.Loc(), "unexpected end of input looking for statement")
	}
	if next.Kind == FUNCTION {
		return p.parseFunc()
	}
	return p.parseStmt()
}

func (p *Parser) parseStmt() (*Node, error) {
	next, err := p.lexer.Peek(1)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, errf(SyntaxError, p.lexer.Loc(), "unexpected end of input looking for statement")
	}

	stmt := newNode(ASTStatement)
	stmt.Loc = next.Loc

	var kid *Node
	switch next.Kind {
	case VAR:
		kid, err = p.parseVarDecl()
	case IF:
		kid, err = p.parseIf()
	case WHILE:
		kid, err = p.parseWhile()
	default:
		// Stmt -> A ;
		kid, err = p.parseA()
		if err == nil {
			err = p.expectAndDiscard(SEMICOLON)
		}
	}
	if err != nil {
		return nil, err
	}
	stmt.Kids = append(stmt.Kids, kid)
	return stmt, nil
}

// parseVarDecl parses: var ident ;
func (p *Parser) parseVarDecl() (*Node, error) {
	varTok, err := p.expect(VAR)
	if err != nil {
		return nil, err
	}
	ident, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	if err := p.expectAndDiscard(SEMICOLON); err != nil {
		return nil, err
	}
	def := newNode(ASTVarDef, varRefNode(ident.Text, ident.Loc))
	def.Loc = varTok.Loc
	return def, nil
}

// parseIf parses: if ( A ) { StmtList } [ else { StmtList } ]
func (p *Parser) parseIf() (*Node, error) {
	ifTok, err := p.expect(IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.parenCondition()
	if err != nil {
		return nil, err
	}
	thenList, err := p.bracedStmtList()
	if err != nil {
		return nil, err
	}

	node := newNode(ASTIf, cond, thenList)
	node.Loc = ifTok.Loc

	next, err := p.lexer.Peek(1)
	if err != nil {
		return nil, err
	}
	if next != nil && next.Kind == ELSE {
		if _, err := p.expect(ELSE); err != nil {
			return nil, err
		}
		elseList, err := p.bracedStmtList()
		if err != nil {
			return nil, err
		}
		node.Kids = append(node.Kids, elseList)
	}
	return node, nil
}

// parseWhile parses: while ( A ) { StmtList }
func (p *Parser) parseWhile() (*Node, error) {
	whileTok, err := p.expect(WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.parenCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.bracedStmtList()
	if err != nil {
		return nil, err
	}
	node := newNode(ASTWhile, cond, body)
	node.Loc = whileTok.Loc
	return node, nil
}

func (p *Parser) parenCondition() (*Node, error) {
	if err := p.expectAndDiscard(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseA()
	if err != nil {
		return nil, err
	}
	if err := p.expectAndDiscard(RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) bracedStmtList() (*Node, error) {
	if err := p.expectAndDiscard(LBRACE); err != nil {
		return nil, err
	}
	list, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	if err := p.expectAndDiscard(RBRACE); err != nil {
		return nil, err
	}
	return list, nil
}

// parseStmtList parses statements until a '}' or end of input.
func (p *Parser) parseStmtList() (*Node, error) {
	list := newNode(ASTStatementList)
	for {
		next, err := p.lexer.Peek(1)
		if err != nil {
			return nil, err
		}
		if next == nil || next.Kind == RBRACE {
			return list, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		list.Kids = append(list.Kids, stmt)
	}
}

// parseFunc parses: function ident ( [ParamList] ) { StmtList }
func (p *Parser) parseFunc() (*Node, error) {
	funcTok, err := p.expect(FUNCTION)
	if err != nil {
		return nil, err
	}
	ident, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	if err := p.expectAndDiscard(LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseOptParamList()
	if err != nil {
		return nil, err
	}
	if err := p.expectAndDiscard(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.bracedStmtList()
	if err != nil {
		return nil, err
	}

	node := newNode(ASTFunction, varRefNode(ident.Text, ident.Loc))
	if params != nil {
		node.Kids = append(node.Kids, params)
	}
	node.Kids = append(node.Kids, body)
	node.Loc = funcTok.Loc
	return node, nil
}

// parseOptParamList parses an empty or nonempty parameter list.
func (p *Parser) parseOptParamList() (*Node, error) {
	next, err := p.lexer.Peek(1)
	if err != nil {
		return nil, err
	}
	if next == nil || next.Kind != IDENT {
		return nil, nil // epsilon
	}

	list := newNode(ASTParamList)
	for {
		ident, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		list.Kids = append(list.Kids, varRefNode(ident.Text, ident.Loc))
		next, err := p.lexer.Peek(1)
		if err != nil {
			return nil, err
		}
		if next == nil || next.Kind != COMMA {
			return list, nil
		}
		if err := p.expectAndDiscard(COMMA); err != nil {
			return nil, err
		}
	}
}

// parseOptArgList parses an empty or nonempty argument list. Arguments
// re-enter at L, not A, so a bare assignment is not a valid argument.
func (p *Parser) parseOptArgList() (*Node, error) {
	next, err := p.lexer.Peek(1)
	if err != nil {
		return nil, err
	}
	if next == nil || !canStartExpression(next.Kind) {
		return nil, nil // epsilon
	}

	list := newNode(ASTArgList)
	for {
		arg, err := p.parseL()
		if err != nil {
			return nil, err
		}
		list.Kids = append(list.Kids, arg)
		next, err := p.lexer.Peek(1)
		if err != nil {
			return nil, err
		}
		if next == nil || next.Kind != COMMA {
			return list, nil
		}
		if err := p.expectAndDiscard(COMMA); err != nil {
			return nil, err
		}
	}
}

func canStartExpression(kind TokenKind) bool {
	return kind == IDENT || kind == INTLIT || kind == LPAREN
}

// parseA parses the assignment level: A -> ident = A | L.
func (p *Parser) parseA() (*Node, error) {
	next, err := p.lexer.Peek(1)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, errf(SyntaxError, p.lexer.Loc(), "unexpected end of input looking for expression")
	}

	if next.Kind == IDENT {
		// Two tokens of lookahead decide assignment vs. expression.
		after, err := p.lexer.Peek(2)
		if err != nil {
			return nil, err
		}
		if after != nil && after.Kind == ASSIGN {
			ident, err := p.expect(IDENT)
			if err != nil {
				return nil, err
			}
			assignTok, err := p.expect(ASSIGN)
			if err != nil {
				return nil, err
			}
			rhs, err := p.parseA()
			if err != nil {
				return nil, err
			}
			node := newNode(ASTAssign, varRefNode(ident.Text, ident.Loc), rhs)
			node.Loc = assignTok.Loc
			return node, nil
		}
	}
	return p.parseL()
}

// parseL parses the logical level: at most one "||" or "&&".
func (p *Parser) parseL() (*Node, error) {
	lhs, err := p.parseR()
	if err != nil {
		return nil, err
	}
	next, err := p.lexer.Peek(1)
	if err != nil {
		return nil, err
	}
	if next == nil || (next.Kind != LOGOR && next.Kind != LOGAND) {
		return lhs, nil
	}

	op, err := p.expect(next.Kind)
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseR()
	if err != nil {
		return nil, err
	}
	kind := ASTLogicalOr
	if op.Kind == LOGAND {
		kind = ASTLogicalAnd
	}
	node := newNode(kind, lhs, rhs)
	node.Loc = op.Loc
	return node, nil
}

// parseR parses the relational level: at most one comparison.
func (p *Parser) parseR() (*Node, error) {
	lhs, err := p.parseE()
	if err != nil {
		return nil, err
	}
	next, err := p.lexer.Peek(1)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return lhs, nil
	}

	var kind NodeKind
	switch next.Kind {
	case LESS:
		kind = ASTLess
	case LESS_EQ:
		kind = ASTLessEq
	case GREATER:
		kind = ASTGreater
	case GREATER_EQ:
		kind = ASTGreaterEq
	case EQ:
		kind = ASTEq
	case NEQ:
		kind = ASTNotEq
	default:
		return lhs, nil
	}

	op, err := p.expect(next.Kind)
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseE()
	if err != nil {
		return nil, err
	}
	node := newNode(kind, lhs, rhs)
	node.Loc = op.Loc
	return node, nil
}

// parseE parses the left-associative additive level.
func (p *Parser) parseE() (*Node, error) {
	lhs, err := p.parseT()
	if err != nil {
		return nil, err
	}
	for {
		next, err := p.lexer.Peek(1)
		if err != nil {
			return nil, err
		}
		if next == nil || (next.Kind != PLUS && next.Kind != MINUS) {
			return lhs, nil
		}
		op, err := p.expect(next.Kind)
		if err != nil {
			return nil, err
		}
		rhs, err := p.parseT()
		if err != nil {
			return nil, err
		}
		kind := ASTAdd
		if op.Kind == MINUS {
			kind = ASTSub
		}
		node := newNode(kind, lhs, rhs)
		node.Loc = op.Loc
		lhs = node
	}
}

// parseT parses the left-associative multiplicative level.
func (p *Parser) parseT() (*Node, error) {
	lhs, err := p.parseF()
	if err != nil {
		return nil, err
	}
	for {
		next, err := p.lexer.Peek(1)
		if err != nil {
			return nil, err
		}
		if next == nil || (next.Kind != TIMES && next.Kind != DIVIDE) {
			return lhs, nil
		}
		op, err := p.expect(next.Kind)
		if err != nil {
			return nil, err
		}
		rhs, err := p.parseF()
		if err != nil {
			return nil, err
		}
		kind := ASTMul
		if op.Kind == DIVIDE {
			kind = ASTDiv
		}
		node := newNode(kind, lhs, rhs)
		node.Loc = op.Loc
		lhs = node
	}
}

// parseF parses a primary expression.
func (p *Parser) parseF() (*Node, error) {
	next, err := p.lexer.Peek(1)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, errf(SyntaxError, p.lexer.Loc(), "unexpected end of input looking for primary expression")
	}

	switch next.Kind {
	case IDENT:
		ident, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		after, err := p.lexer.Peek(1)
		if err != nil {
			return nil, err
		}
		if after == nil || after.Kind != LPAREN {
			return varRefNode(ident.Text, ident.Loc), nil
		}
		// F -> ident ( [ArgList] )
		if err := p.expectAndDiscard(LPAREN); err != nil {
			return nil, err
		}
		args, err := p.parseOptArgList()
		if err != nil {
			return nil, err
		}
		if err := p.expectAndDiscard(RPAREN); err != nil {
			return nil, err
		}
		call := newNode(ASTFnCall, varRefNode(ident.Text, ident.Loc))
		if args != nil {
			call.Kids = append(call.Kids, args)
		}
		call.Loc = ident.Loc
		return call, nil

	case INTLIT:
		tok, err := p.expect(INTLIT)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: ASTIntLiteral, Str: tok.Text, Loc: tok.Loc}, nil

	case LPAREN:
		// Parentheses re-enter at the assignment level.
		if err := p.expectAndDiscard(LPAREN); err != nil {
			return nil, err
		}
		inner, err := p.parseA()
		if err != nil {
			return nil, err
		}
		if err := p.expectAndDiscard(RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, errf(SyntaxError, next.Loc, "invalid primary expression starting with %s", next.Kind)
	}
}

// expect consumes the next token, failing unless it has the given kind.
func (p *Parser) expect(kind TokenKind) (*Token, error) {
	tok, err := p.lexer.Next()
	if err != nil {
		return nil, err
	}
	if tok.Kind != kind {
		return nil, errf(SyntaxError, tok.Loc, "unexpected token %q (expected %s)", tok.Text, kind)
	}
	return tok, nil
}

// expectAndDiscard consumes a token of the given kind and drops it.
func (p *Parser) expectAndDiscard(kind TokenKind) error {
	_, err := p.expect(kind)
	return err
}

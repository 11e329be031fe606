// lexer.go: character stream -> token stream.
//
// The lexer reads bytes from an io.Reader and produces tokens on demand
// through a FIFO lookahead queue: Peek(n) fills the queue up to n tokens
// without consuming, Next() pops the front. Locations are 1-based and every
// token carries one. A single character of pushback (unread) is supported,
// with exact location rollback, which is all the two-character operator
// dispatch needs.
package microscript

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Location identifies a source position for diagnostics. Line and Col are
// 1-based; the zero Location means "no position".
type Location struct {
	File string
	Line int
	Col  int
}

func (l Location) Valid() bool { return l.Line > 0 }

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// TokenKind enumerates the terminal symbols of the grammar.
type TokenKind int

const (
	IDENT TokenKind = iota
	INTLIT

	// Operators and punctuation
	PLUS       // "+"
	MINUS      // "-"
	TIMES      // "*"
	DIVIDE     // "/"
	LPAREN     // "("
	RPAREN     // ")"
	SEMICOLON  // ";"
	LBRACE     // "{"
	RBRACE     // "}"
	COMMA      // ","
	ASSIGN     // "="
	EQ         // "=="
	NEQ        // "!="
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="
	LOGAND     // "&&"
	LOGOR      // "||"

	// Keywords
	VAR
	FUNCTION
	IF
	ELSE
	WHILE
)

var keywords = map[string]TokenKind{
	"var":      VAR,
	"function": FUNCTION,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
}

func (k TokenKind) String() string {
	switch k {
	case IDENT:
		return "identifier"
	case INTLIT:
		return "integer literal"
	case PLUS:
		return "'+'"
	case MINUS:
		return "'-'"
	case TIMES:
		return "'*'"
	case DIVIDE:
		return "'/'"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case SEMICOLON:
		return "';'"
	case LBRACE:
		return "'{'"
	case RBRACE:
		return "'}'"
	case COMMA:
		return "','"
	case ASSIGN:
		return "'='"
	case EQ:
		return "'=='"
	case NEQ:
		return "'!='"
	case LESS:
		return "'<'"
	case LESS_EQ:
		return "'<='"
	case GREATER:
		return "'>'"
	case GREATER_EQ:
		return "'>='"
	case LOGAND:
		return "'&&'"
	case LOGOR:
		return "'||'"
	case VAR:
		return "'var'"
	case FUNCTION:
		return "'function'"
	case IF:
		return "'if'"
	case ELSE:
		return "'else'"
	case WHILE:
		return "'while'"
	default:
		return "unknown token"
	}
}

// Token is a classified, located lexical unit. Immutable once produced.
type Token struct {
	Kind TokenKind
	Text string
	Loc  Location
}

// Lexer scans a character stream into tokens with bounded lookahead.
type Lexer struct {
	in   *bufio.Reader
	file string

	// position of the next character to be read (1-based)
	line int
	col  int
	// position restored by unread
	prevLine int
	prevCol  int

	eof       bool
	lookahead []Token
}

// NewLexer creates a lexer over r. file labels diagnostics only; the lexer
// never opens or closes anything itself.
func NewLexer(r io.Reader, file string) *Lexer {
	return &Lexer{
		in:   bufio.NewReader(r),
		file: file,
		line: 1,
		col:  1,
	}
}

// NewLexerString is a convenience constructor over in-memory source.
func NewLexerString(src, file string) *Lexer {
	return NewLexer(strings.NewReader(src), file)
}

// Loc reports the current scan position, used for errors at end of input.
func (l *Lexer) Loc() Location {
	return Location{File: l.file, Line: l.line, Col: l.col}
}

// Next consumes and returns the next token. When the stream is exhausted it
// fails with a SyntaxError ("unexpected end of input").
func (l *Lexer) Next() (*Token, error) {
	if err := l.fill(1); err != nil {
		return nil, err
	}
	if len(l.lookahead) == 0 {
		return nil, errf(SyntaxError, l.Loc(), "unexpected end of input")
	}
	tok := l.lookahead[0]
	l.lookahead = l.lookahead[1:]
	return &tok, nil
}

// Peek returns the token n positions ahead (1-based) without consuming it.
// It returns nil with a nil error if the stream ends before position n.
// Lexical errors surface here, since peeking may scan new tokens.
func (l *Lexer) Peek(n int) (*Token, error) {
	if err := l.fill(n); err != nil {
		return nil, err
	}
	if len(l.lookahead) < n {
		return nil, nil
	}
	return &l.lookahead[n-1], nil
}

func (l *Lexer) fill(n int) error {
	for !l.eof && len(l.lookahead) < n {
		tok, err := l.readToken()
		if err != nil {
			return err
		}
		if tok != nil {
			l.lookahead = append(l.lookahead, *tok)
		}
	}
	return nil
}

// read returns the next character, or -1 at end of input.
func (l *Lexer) read() int {
	if l.eof {
		return -1
	}
	b, err := l.in.ReadByte()
	if err != nil {
		l.eof = true
		return -1
	}
	l.prevLine, l.prevCol = l.line, l.col
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return int(b)
}

// unread pushes back the most recently read character and rolls the
// location back to it. At most one character may be unread between reads.
func (l *Lexer) unread(c int) {
	if c < 0 {
		return
	}
	_ = l.in.UnreadByte()
	l.line, l.col = l.prevLine, l.prevCol
}

// readToken scans one token, or returns (nil, nil) at end of input.
func (l *Lexer) readToken() (*Token, error) {
	var c, line, col int
	for {
		line, col = l.line, l.col
		c = l.read()
		if c < 0 || !isSpace(byte(c)) {
			break
		}
	}
	if c < 0 {
		return nil, nil
	}

	loc := Location{File: l.file, Line: line, Col: col}
	switch {
	case isAlpha(byte(c)):
		return l.identifierOrKeyword(byte(c), loc), nil
	case isDigit(byte(c)):
		return l.continued(INTLIT, byte(c), loc, isDigit), nil
	default:
		return l.operator(byte(c), loc)
	}
}

// continued scans the remainder of a multi-character token whose valid
// continuation characters are described by pred.
func (l *Lexer) continued(kind TokenKind, first byte, loc Location, pred func(byte) bool) *Token {
	text := []byte{first}
	for {
		c := l.read()
		if c >= 0 && pred(byte(c)) {
			text = append(text, byte(c))
			continue
		}
		l.unread(c)
		return &Token{Kind: kind, Text: string(text), Loc: loc}
	}
}

func (l *Lexer) identifierOrKeyword(first byte, loc Location) *Token {
	tok := l.continued(IDENT, first, loc, isAlphaNum)
	if kw, ok := keywords[tok.Text]; ok {
		tok.Kind = kw
	}
	return tok
}

func (l *Lexer) operator(c byte, loc Location) (*Token, error) {
	one := func(kind TokenKind) (*Token, error) {
		return &Token{Kind: kind, Text: string(c), Loc: loc}, nil
	}
	// two returns the double-character token if the next character matches,
	// unreading it otherwise.
	two := func(next byte, kind TokenKind) *Token {
		n := l.read()
		if n == int(next) {
			return &Token{Kind: kind, Text: string([]byte{c, next}), Loc: loc}
		}
		l.unread(n)
		return nil
	}

	switch c {
	case '+':
		return one(PLUS)
	case '-':
		return one(MINUS)
	case '*':
		return one(TIMES)
	case '/':
		return one(DIVIDE)
	case '(':
		return one(LPAREN)
	case ')':
		return one(RPAREN)
	case ';':
		return one(SEMICOLON)
	case '{':
		return one(LBRACE)
	case '}':
		return one(RBRACE)
	case ',':
		return one(COMMA)
	case '=':
		if tok := two('=', EQ); tok != nil {
			return tok, nil
		}
		return one(ASSIGN)
	case '<':
		if tok := two('=', LESS_EQ); tok != nil {
			return tok, nil
		}
		return one(LESS)
	case '>':
		if tok := two('=', GREATER_EQ); tok != nil {
			return tok, nil
		}
		return one(GREATER)
	case '&':
		if tok := two('&', LOGAND); tok != nil {
			return tok, nil
		}
		return nil, errf(SyntaxError, l.Loc(), "unexpected character '&' (expected '&&')")
	case '|':
		if tok := two('|', LOGOR); tok != nil {
			return tok, nil
		}
		return nil, errf(SyntaxError, l.Loc(), "unexpected character '|' (expected '||')")
	case '!':
		if tok := two('=', NEQ); tok != nil {
			return tok, nil
		}
		return nil, errf(SyntaxError, l.Loc(), "unexpected character '!' (expected '!=')")
	default:
		return nil, errf(SyntaxError, l.Loc(), "unrecognized character %q", c)
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

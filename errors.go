// errors.go: the error taxonomy shared by the whole pipeline, plus
// caret-snippet rendering for the CLI edge.
//
// Every failure the core can produce is an *Error carrying a kind, a message,
// and (except for some internal runtime faults) a 1-based source location.
// Nothing in the core catches and retries; errors propagate to the outermost
// caller, which formats them. `WrapErrorWithSource` augments an *Error with a
// multi-line snippet of the offending source and a caret under the column.
package microscript

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	// SyntaxError: malformed token sequence, unexpected token, or premature
	// end of input during lexing or parsing.
	SyntaxError ErrorKind = iota
	// SemanticError: a variable reference with no reachable definition,
	// found by the pre-execution analysis pass.
	SemanticError
	// EvaluationError: a language-level violation discoverable only by
	// executing (redeclaration, division by zero, bad operand, bad call).
	EvaluationError
	// RuntimeError: internal invariant violations (unknown AST tag, nil
	// node, undefined variable reached without prior analysis). Indicates a
	// host bug rather than a user-facing condition.
	RuntimeError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "Syntax error"
	case SemanticError:
		return "Semantic error"
	case EvaluationError:
		return "Evaluation error"
	case RuntimeError:
		return "Runtime error"
	default:
		return "Unknown error"
	}
}

// Error is the single error type produced by the lexer, parser, analyzer,
// and evaluator. Loc may be the zero Location for internal runtime faults
// that have no meaningful source position.
type Error struct {
	Kind ErrorKind
	Loc  Location
	Msg  string
}

func (e *Error) Error() string {
	if e.Loc.Valid() {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Loc, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// AsError unwraps err to an *Error if it is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func errf(kind ErrorKind, loc Location, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// raise aborts the current recursive walk with a typed error. The panic is
// recovered and converted to an ordinary error at every exported entry point
// (Analyze, Execute, Parse helpers).
func raise(kind ErrorKind, loc Location, format string, args ...interface{}) {
	panic(errf(kind, loc, format, args...))
}

/* ===========================
   Caret snippets
   =========================== */

// WrapErrorWithSource returns an error whose message includes a numbered
// snippet of src with a caret under the error column. Errors that are not
// *Error, or that carry no location, are returned unchanged. Line/col are
// clamped so the caret can always be rendered.
func WrapErrorWithSource(err error, src string) error {
	e, ok := AsError(err)
	if !ok || !e.Loc.Valid() {
		return err
	}
	lines := strings.Split(src, "\n")
	line := e.Loc.Line
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	col := e.Loc.Col
	if col < 1 {
		col = 1
	}
	if col > len(lines[line-1])+1 {
		col = len(lines[line-1]) + 1
	}

	width := numWidth(min(line+1, len(lines)))
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteString("\n\n")
	if line > 1 {
		fmt.Fprintf(&b, " %*d | %s\n", width, line-1, lines[line-2])
	}
	fmt.Fprintf(&b, " %*d | %s\n", width, line, lines[line-1])
	fmt.Fprintf(&b, " %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, " %*d | %s\n", width, line+1, lines[line])
	}
	return errors.New(strings.TrimRight(b.String(), "\n"))
}

func numWidth(n int) int {
	w := 1
	for n >= 10 {
		n /= 10
		w++
	}
	return w
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

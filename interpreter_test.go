package microscript

import (
	"bytes"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

// runSrc pushes src through the whole pipeline (lex, parse, analyze,
// execute) with output captured, the way the CLI does.
func runSrc(src string) (Value, string, error) {
	ast, err := ParseSource(src, "test.mss")
	if err != nil {
		return Value{}, "", err
	}
	ip := NewInterpreter(ast)
	var out bytes.Buffer
	ip.SetOutput(&out)
	if err := ip.Analyze(); err != nil {
		return Value{}, out.String(), err
	}
	v, err := ip.Execute()
	return v, out.String(), err
}

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	v, _, err := runSrc(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func evalOut(t *testing.T, src string) string {
	t.Helper()
	_, out, err := runSrc(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return out
}

func wantInt(t *testing.T, v Value, n int64) {
	t.Helper()
	if v.Tag != VTInt || v.Data.(int64) != n {
		t.Fatalf("want int %d, got %#v", n, v)
	}
}

func wantErrKind(t *testing.T, src string, kind ErrorKind) *Error {
	t.Helper()
	_, _, err := runSrc(src)
	if err == nil {
		t.Fatalf("want %v for %q, got none", kind, src)
	}
	e, ok := AsError(err)
	if !ok || e.Kind != kind {
		t.Fatalf("want %v for %q, got %v", kind, src, err)
	}
	return e
}

// --- end-to-end scenarios --------------------------------------------------

func TestArithmeticPrecedence(t *testing.T) {
	wantInt(t, evalSrc(t, "var x; x = 2 + 3 * 4; x;"), 14)
}

func TestWhileLoop(t *testing.T) {
	wantInt(t, evalSrc(t, "var x; x = 1; while (x < 5) { x = x + 1; } x;"), 5)
}

func TestFunctionCall(t *testing.T) {
	wantInt(t, evalSrc(t, "function add(a,b) { a + b; } add(3,4);"), 7)
}

func TestIfElse(t *testing.T) {
	wantInt(t, evalSrc(t, "var x; x = 10; if (x > 5) { x = 1; } else { x = 0; } x;"), 1)
	wantInt(t, evalSrc(t, "var x; x = 3; if (x > 5) { x = 1; } else { x = 0; } x;"), 0)
}

func TestPrintln(t *testing.T) {
	v, out, err := runSrc("println(1 + 2);")
	if err != nil {
		t.Fatal(err)
	}
	if out != "3\n" {
		t.Fatalf("want %q, got %q", "3\n", out)
	}
	wantInt(t, v, 0)
}

func TestPrintHasNoNewline(t *testing.T) {
	if out := evalOut(t, "print(7); print(8);"); out != "78" {
		t.Fatalf("want %q, got %q", "78", out)
	}
}

func TestSameBlockRedeclaration(t *testing.T) {
	wantErrKind(t, "var x; var x;", EvaluationError)
}

// --- evaluation semantics --------------------------------------------------

func TestIntegerLiterals(t *testing.T) {
	for src, want := range map[string]int64{
		"0;":        0,
		"7;":        7,
		"123456;":   123456,
		"0 - 9;":    -9,
		"10 / 3;":   3,
		"7 - 2 - 1;": 4,
	} {
		wantInt(t, evalSrc(t, src), want)
	}
}

func TestDivisionByZero(t *testing.T) {
	e := wantErrKind(t, "1 / 0;", EvaluationError)
	if !strings.Contains(e.Msg, "division by zero") {
		t.Fatalf("unexpected message: %v", e)
	}
	wantErrKind(t, "var x; x = 5; 10 / (x - 5);", EvaluationError)
}

func TestRelationalResults(t *testing.T) {
	for src, want := range map[string]int64{
		"1 < 2;":  1,
		"2 < 1;":  0,
		"2 <= 2;": 1,
		"3 > 2;":  1,
		"2 >= 3;": 0,
		"4 == 4;": 1,
		"4 != 4;": 0,
	} {
		wantInt(t, evalSrc(t, src), want)
	}
}

func TestLogicalResults(t *testing.T) {
	for src, want := range map[string]int64{
		"1 && 2;": 1, // any nonzero is truthy, result is normalized
		"5 && 0;": 0,
		"0 || 7;": 1,
		"0 || 0;": 0,
	} {
		wantInt(t, evalSrc(t, src), want)
	}
}

func TestShortCircuitSuppressesSideEffects(t *testing.T) {
	if out := evalOut(t, "function f() { println(777); } 0 && f();"); out != "" {
		t.Fatalf("0 && f() must not run f, wrote %q", out)
	}
	if out := evalOut(t, "function f() { println(777); } 1 || f();"); out != "" {
		t.Fatalf("1 || f() must not run f, wrote %q", out)
	}
	if out := evalOut(t, "function f() { println(777); } 1 && f();"); out != "777\n" {
		t.Fatalf("1 && f() must run f, wrote %q", out)
	}
}

func TestAssignmentValueAndMutation(t *testing.T) {
	wantInt(t, evalSrc(t, "var x; x = 5;"), 5)
	wantInt(t, evalSrc(t, "var x; var y; y = (x = 3) + 1; y;"), 4)
	// Assignment in a block mutates the nearest enclosing owner.
	wantInt(t, evalSrc(t, "var x; x = 1; if (1) { x = 2; } x;"), 2)
}

func TestShadowingDoesNotLeak(t *testing.T) {
	wantInt(t, evalSrc(t, "var x; x = 1; if (1) { var x; x = 2; } x;"), 1)
}

func TestWhileIterationScopeIsFresh(t *testing.T) {
	// The body declares t every iteration; a stale binding would make the
	// second iteration a redeclaration error.
	wantInt(t, evalSrc(t, "var i; i = 0; while (i < 3) { var t; t = i; i = i + 1; } i;"), 3)
}

func TestIfAndWhileEvaluateToZero(t *testing.T) {
	wantInt(t, evalSrc(t, "if (1) { 42; }"), 0)
	wantInt(t, evalSrc(t, "var x; x = 4; while (x > 0) { x = x - 1; }"), 0)
}

func TestFunctionBodyValue(t *testing.T) {
	wantInt(t, evalSrc(t, "function f() { 1; 2; } f();"), 2)
	wantInt(t, evalSrc(t, "function f() { } f();"), 0)
}

func TestFreshFramePerCall(t *testing.T) {
	wantInt(t, evalSrc(t, "function f(a) { var t; t = a * 2; t; } f(2) + f(3);"), 10)
}

func TestRecursion(t *testing.T) {
	src := `
function fact(n) {
	var r;
	r = 1;
	if (n > 1) {
		r = n * fact(n - 1);
	}
	r;
}
fact(5);`
	wantInt(t, evalSrc(t, src), 120)
}

func TestArgumentCountMismatch(t *testing.T) {
	wantErrKind(t, "function f(a,b) { a; } f(1);", EvaluationError)
	wantErrKind(t, "function f() { 1; } f(1);", EvaluationError)
}

func TestCallingNonFunction(t *testing.T) {
	e := wantErrKind(t, "var x; x();", EvaluationError)
	if !strings.Contains(e.Msg, "not a function") {
		t.Fatalf("unexpected message: %v", e)
	}
}

func TestNonIntegerOperands(t *testing.T) {
	wantErrKind(t, "function f() { 1; } f + 1;", EvaluationError)
	wantErrKind(t, "function f() { 1; } if (f) { 1; }", EvaluationError)
	wantErrKind(t, "function f() { 1; } f && 1;", EvaluationError)
}

func TestIntrinsicArgumentCount(t *testing.T) {
	wantErrKind(t, "println();", EvaluationError)
	wantErrKind(t, "println(1, 2);", EvaluationError)
}

func TestFunctionDefinitionValue(t *testing.T) {
	v := evalSrc(t, "function f() { 1; }")
	if v.Tag != VTFun {
		t.Fatalf("a function definition should evaluate to the function, got %#v", v)
	}
	if v.String() != "<function f>" {
		t.Fatalf("want <function f>, got %q", v.String())
	}
}

func TestValueStrings(t *testing.T) {
	if got := Int(-17).String(); got != "-17" {
		t.Fatalf("want -17, got %q", got)
	}
	if out := evalOut(t, "function f() { 1; } print(f);"); out != "<function f>" {
		t.Fatalf("got %q", out)
	}
	if out := evalOut(t, "print(println);"); out != "<intrinsic function>" {
		t.Fatalf("got %q", out)
	}
}

// as_str of an integer fed back through the pipeline re-evaluates to the
// same integer.
func TestIntegerStringRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 14, 120, 99999} {
		v := evalSrc(t, "0 + "+Int(n).String()+";")
		wantInt(t, v, n)
	}
}

// --- embedding (execution without analysis) --------------------------------

func TestExecuteWithoutAnalysisIsDefensive(t *testing.T) {
	ast, err := ParseSource("ghost;", "test.mss")
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewInterpreter(ast).Execute()
	if err == nil {
		t.Fatal("want error for undefined variable")
	}
	e, ok := AsError(err)
	if !ok || e.Kind != RuntimeError {
		t.Fatalf("want RuntimeError from the evaluation safety net, got %v", err)
	}
}

func TestPersistentEnvAcrossPrograms(t *testing.T) {
	env := NewGlobalEnv()
	for _, step := range []string{"var x;", "x = 20;", "function f(n) { n + x; }"} {
		ast, err := ParseSource(step, "<repl>")
		if err != nil {
			t.Fatal(err)
		}
		ip := NewInterpreterWithEnv(ast, env)
		if err := ip.Analyze(); err != nil {
			t.Fatalf("analyze %q: %v", step, err)
		}
		if _, err := ip.Execute(); err != nil {
			t.Fatalf("execute %q: %v", step, err)
		}
	}

	ast, err := ParseSource("f(22);", "<repl>")
	if err != nil {
		t.Fatal(err)
	}
	ip := NewInterpreterWithEnv(ast, env)
	if err := ip.Analyze(); err != nil {
		t.Fatal(err)
	}
	v, err := ip.Execute()
	if err != nil {
		t.Fatal(err)
	}
	wantInt(t, v, 42)
}

// intrinsics.go: the built-in functions bound into every global environment.
//
// The language's only I/O primitives. print writes a value's string form
// with no trailing newline; println appends one. Both take exactly one
// argument and return 0.
package microscript

import "fmt"

var intrinsics = []*Intrinsic{
	{Name: "print", Impl: intrinsicPrint},
	{Name: "println", Impl: intrinsicPrintln},
}

func oneArg(name string, args []Value, loc Location) Value {
	if len(args) != 1 {
		raise(EvaluationError, loc, "%s expects exactly 1 argument, got %d", name, len(args))
	}
	return args[0]
}

func intrinsicPrint(ip *Interpreter, args []Value, loc Location) Value {
	v := oneArg("print", args, loc)
	fmt.Fprint(ip.out, v.String())
	return Int(0)
}

func intrinsicPrintln(ip *Interpreter, args []Value, loc Location) Value {
	v := oneArg("println", args, loc)
	fmt.Fprintln(ip.out, v.String())
	return Int(0)
}

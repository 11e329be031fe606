// value.go: the runtime value model.
//
// A Value is a tagged union over the language's whole value domain: signed
// integers, user-defined functions, and intrinsic (built-in) functions.
// Integers are copied by value. Function records are shared: every Value
// holding the same *Function points at the same record, which lives exactly
// as long as something references it.
package microscript

import "strconv"

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTInt       ValueTag = iota // int64
	VTFun                       // *Function
	VTIntrinsic                 // *Intrinsic
)

// Value is the universal runtime carrier. The tag determines which type
// Data holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Int constructs an integer value.
func Int(n int64) Value { return Value{Tag: VTInt, Data: n} }

// FunVal constructs a value sharing the given function record.
func FunVal(f *Function) Value { return Value{Tag: VTFun, Data: f} }

// IntrinsicVal constructs a value naming a built-in callable.
func IntrinsicVal(in *Intrinsic) Value { return Value{Tag: VTIntrinsic, Data: in} }

// String renders the value the way print/println write it: integers as
// decimal text, functions and intrinsics as descriptive tags.
func (v Value) String() string {
	switch v.Tag {
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTFun:
		return "<function " + v.Data.(*Function).Name + ">"
	case VTIntrinsic:
		return "<intrinsic function>"
	default:
		return "<unknown value>"
	}
}

// Function is an immutable user-function record shared by every Value that
// closes over it. Env is the lexical scope active at the point of
// definition; call frames are parented on it, not on the caller's scope.
type Function struct {
	Name   string
	Params []string
	Body   *Node // a STATEMENT_LIST
	Env    *Env
}

// IntrinsicImpl is the signature of built-in callables. Intrinsics receive
// the evaluated arguments, the call-site location for diagnostics, and the
// calling interpreter for access to its services (e.g. the output stream).
type IntrinsicImpl func(ip *Interpreter, args []Value, loc Location) Value

// Intrinsic is a built-in callable identified by name.
type Intrinsic struct {
	Name string
	Impl IntrinsicImpl
}

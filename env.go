// env.go: lexically chained scope frames.
package microscript

// Env is one scope frame: a name-to-value table plus a non-owning reference
// to the enclosing frame. The chain is a tree rooted at a single global
// environment; child frames are created per block, per branch, per loop
// iteration, and per call, and are discarded when that dynamic scope ends.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a frame enclosed by parent (nil for a root frame).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name to v in this frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// DefinesLocally reports whether name is bound in this frame specifically,
// ignoring enclosing frames.
func (e *Env) DefinesLocally(name string) bool {
	_, ok := e.table[name]
	return ok
}

// IsDefined reports whether name is bound in this frame or any enclosing one.
func (e *Env) IsDefined(name string) bool {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.table[name]; ok {
			return true
		}
	}
	return false
}

// Get returns the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Set updates the nearest enclosing frame that already binds name. It does
// not implicitly define; the caller decides what an unbound name means.
func (e *Env) Set(name string, v Value) bool {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.table[name]; ok {
			s.table[name] = v
			return true
		}
	}
	return false
}

// names collects every name visible from this frame, used to seed the
// analyzer's scratch scope for persistent (REPL) environments.
func (e *Env) names() []string {
	var out []string
	seen := map[string]bool{}
	for s := e; s != nil; s = s.parent {
		for name := range s.table {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

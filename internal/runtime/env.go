package runtime

// Env is one scope of the environment chain: a mapping from names to values
// with a link to the enclosing scope. The outermost environment holds the
// globals. Closures keep a strong reference to the environment they
// captured; the GC traces through them.
type Env struct {
	vars   map[string]Value
	consts map[string]bool
	outer  *Env
}

// NewEnv creates an environment enclosed by outer (nil for the global one).
func NewEnv(outer *Env) *Env {
	return &Env{
		vars:   make(map[string]Value),
		consts: make(map[string]bool),
		outer:  outer,
	}
}

// Outer returns the enclosing environment, or nil at the global scope.
func (e *Env) Outer() *Env { return e.outer }

// Get resolves a name through the scope chain.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Define binds a name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// DefineConst binds a name in this scope and marks it immutable.
func (e *Env) DefineConst(name string, v Value) {
	e.vars[name] = v
	e.consts[name] = true
}

// Assign updates an existing binding found through the scope chain. If the
// name is unbound it is defined in this scope. Returns false when the
// binding is const.
func (e *Env) Assign(name string, v Value) bool {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.vars[name]; ok {
			if env.consts[name] {
				return false
			}
			env.vars[name] = v
			return true
		}
	}
	e.vars[name] = v
	return true
}

// IsConst reports whether the name resolves to a const binding.
func (e *Env) IsConst(name string) bool {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.vars[name]; ok {
			return env.consts[name]
		}
	}
	return false
}

// Names returns the names bound directly in this scope.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	return names
}

// Values returns the values bound directly in this scope.
func (e *Env) Values() []Value {
	values := make([]Value, 0, len(e.vars))
	for _, v := range e.vars {
		values = append(values, v)
	}
	return values
}

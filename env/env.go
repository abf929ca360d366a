// Package env implements Tacit's environment: a flat map from name to
// Binding. Child frames are produced by copying the map, not by chaining to
// a parent, so mutations inside a block never leak outward except through
// the explicit environment handle an operator chooses to write through.
package env

import (
	"strings"

	"github.com/tacitlang/tacit/errs"
	"github.com/tacitlang/tacit/value"
)

// Env is the concrete environment value.Environment is implemented by.
type Env struct {
	vals map[string]value.Binding
}

// New returns an empty environment.
func New() *Env {
	return &Env{vals: make(map[string]value.Binding)}
}

// Clone returns a new environment holding a copy of e's bindings. Defining
// a name in the clone, or reassigning one it already has, never affects e.
func (e *Env) Clone() value.Environment {
	clone := &Env{vals: make(map[string]value.Binding, len(e.vals))}
	for name, b := range e.vals {
		clone.vals[name] = b
	}
	return clone
}

// Define binds name to the constant value v, ignoring whatever argument a
// future call passes.
func (e *Env) Define(name string, v value.Dynamic) {
	e.vals[strings.TrimSpace(name)] = func(value.Environment, value.Dynamic) (value.Dynamic, error) {
		return v, nil
	}
}

// DefineFunc binds name to an arbitrary Binding, used for `:=` definitions
// and block parameters alike.
func (e *Env) DefineFunc(name string, b value.Binding) {
	e.vals[strings.TrimSpace(name)] = b
}

// Has reports whether name is bound in e.
func (e *Env) Has(name string) bool {
	_, ok := e.vals[strings.TrimSpace(name)]
	return ok
}

// GetVar resolves name as a plain value: a dummy call with a throwaway
// environment and argument, for bindings that ignore both (the usual case
// for anything defined with Define or `:=` over a constant expression).
func (e *Env) GetVar(name string) (value.Dynamic, error) {
	return e.AttemptCall(name, New(), value.FromBool(false))
}

// AttemptCall resolves name and invokes its Binding with env and arg.
func (e *Env) AttemptCall(name string, env value.Environment, arg value.Dynamic) (value.Dynamic, error) {
	f, ok := e.vals[strings.TrimSpace(name)]
	if !ok {
		return value.Dynamic{}, errs.Semanticf("unrecognized name %q", name)
	}
	return f(env, arg)
}

// Package stdlib defines the shapes of the standard library registry (spec
// §6) and ships a preloaded MS-SQL-like bundle so the core is runnable
// standalone, per spec §9's note that a host is "expected to preload" one.
package stdlib

import "github.com/n-lang/ncore/internal/ir"

// PrefixUnaryOp is one `(op, input_type) -> output_type` registry entry
// (spec §6).
type PrefixUnaryOp struct {
	Op         string
	InputType  ir.DataType
	OutputType ir.DataType
}

// BinaryOp is one `(op, left_type, right_type) -> output_type` registry
// entry (spec §6).
type BinaryOp struct {
	Op         string
	LeftType   ir.DataType
	RightType  ir.DataType
	OutputType ir.DataType
}

// Function is one stdlib function signature (spec §6).
type Function struct {
	Name         string
	ArgTypes     []ir.DataType
	ResultType   ir.DataType
	IsAggregate  bool
	IsLiteWeight bool
}

// Registry is a data-driven, read-only-once-built operator/function
// catalog (spec §6). Lookup is first-fit over input types using the same
// cast compatibility used for expression checking (spec §4.4).
type Registry struct {
	prefixOps []PrefixUnaryOp
	binaryOps []BinaryOp
	functions []Function
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) AddPrefixOp(op PrefixUnaryOp)   { r.prefixOps = append(r.prefixOps, op) }
func (r *Registry) AddBinaryOp(op BinaryOp)        { r.binaryOps = append(r.binaryOps, op) }
func (r *Registry) AddFunction(fn Function)        { r.functions = append(r.functions, fn) }

// LookupPrefixOp finds the first entry whose Op matches and whose
// InputType the given type can_cast_to (spec §6's "first-fit over input
// types").
func (r *Registry) LookupPrefixOp(op string, input ir.DataType) (PrefixUnaryOp, bool) {
	for _, e := range r.prefixOps {
		if e.Op == op && input.CanCastTo(e.InputType) {
			return e, true
		}
	}
	return PrefixUnaryOp{}, false
}

func (r *Registry) LookupBinaryOp(op string, left, right ir.DataType) (BinaryOp, bool) {
	for _, e := range r.binaryOps {
		if e.Op == op && left.CanCastTo(e.LeftType) && right.CanCastTo(e.RightType) {
			return e, true
		}
	}
	return BinaryOp{}, false
}

// LookupFunction finds the first entry with the given name whose
// argument count matches and each actual type can_cast_to the
// corresponding formal (spec §4.4's call-resolution rule).
func (r *Registry) LookupFunction(name string, args []ir.DataType) (Function, bool) {
	for _, fn := range r.functions {
		if fn.Name != name || len(fn.ArgTypes) != len(args) {
			continue
		}
		ok := true
		for i, formal := range fn.ArgTypes {
			if !args[i].CanCastTo(formal) {
				ok = false
				break
			}
		}
		if ok {
			return fn, true
		}
	}
	return Function{}, false
}

// FunctionsNamed returns every overload with the given name, for arity
// diagnostics (spec §7's WrongArgumentsCount wants the expected count).
func (r *Registry) FunctionsNamed(name string) []Function {
	var out []Function
	for _, fn := range r.functions {
		if fn.Name == name {
			out = append(out, fn)
		}
	}
	return out
}

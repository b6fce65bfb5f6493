package stdlib

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/ir"
)

func boolType() ir.DataType {
	return ir.DataType{Kind: ir.TypePrimitive, Primitive: &ast.PrimitiveType{Kind: ast.PrimitiveNumber, Number: ast.NumberBoolean}}
}

func intType(size int, unsigned, zerofill bool) ir.DataType {
	s := size
	return ir.DataType{Kind: ir.TypePrimitive, Primitive: &ast.PrimitiveType{
		Kind: ast.PrimitiveNumber, Number: ast.NumberInteger, Size: &s, Unsigned: unsigned, Zerofill: zerofill,
	}}
}

func floatType(double bool) ir.DataType {
	kind := ast.NumberFloat
	if double {
		kind = ast.NumberDouble
	}
	return ir.DataType{Kind: ir.TypePrimitive, Primitive: &ast.PrimitiveType{Kind: ast.PrimitiveNumber, Number: kind}}
}

var intWidths = []int{8, 16, 32, 64}

// MSSQLBundle builds the preloaded MS-SQL-like registry spec §6 calls for:
// boolean algebra, integer arithmetic across {8,16,32,64} x {signed,
// unsigned} x {zerofill, plain}, float arithmetic for single/double, and
// the aggregates max/min/sum/avg/count.
func MSSQLBundle() *Registry {
	r := NewRegistry()

	for _, op := range []string{"and", "or", "xor"} {
		r.AddBinaryOp(BinaryOp{Op: op, LeftType: boolType(), RightType: boolType(), OutputType: boolType()})
	}
	r.AddPrefixOp(PrefixUnaryOp{Op: "!", InputType: boolType(), OutputType: boolType()})

	for _, size := range intWidths {
		for _, unsigned := range []bool{false, true} {
			for _, zerofill := range []bool{false, true} {
				t := intType(size, unsigned, zerofill)
				for _, op := range []string{"+", "-", "*", "/", "mod", "%", "div"} {
					r.AddBinaryOp(BinaryOp{Op: op, LeftType: t, RightType: t, OutputType: t})
				}
				for _, op := range []string{"=", ">=", ">", "<=", "<"} {
					r.AddBinaryOp(BinaryOp{Op: op, LeftType: t, RightType: t, OutputType: boolType()})
				}
				r.AddPrefixOp(PrefixUnaryOp{Op: "-", InputType: t, OutputType: t})
				r.AddPrefixOp(PrefixUnaryOp{Op: "+", InputType: t, OutputType: t})
				r.AddPrefixOp(PrefixUnaryOp{Op: "~", InputType: t, OutputType: t})

				r.AddFunction(Function{Name: "max", ArgTypes: []ir.DataType{t}, ResultType: t, IsAggregate: true})
				r.AddFunction(Function{Name: "min", ArgTypes: []ir.DataType{t}, ResultType: t, IsAggregate: true})
				r.AddFunction(Function{Name: "sum", ArgTypes: []ir.DataType{t}, ResultType: t, IsAggregate: true})
				r.AddFunction(Function{Name: "avg", ArgTypes: []ir.DataType{t}, ResultType: floatType(true), IsAggregate: true})
			}
		}
	}

	for _, double := range []bool{false, true} {
		t := floatType(double)
		for _, op := range []string{"+", "-", "*", "/"} {
			r.AddBinaryOp(BinaryOp{Op: op, LeftType: t, RightType: t, OutputType: t})
		}
		for _, op := range []string{"=", ">=", ">", "<=", "<"} {
			r.AddBinaryOp(BinaryOp{Op: op, LeftType: t, RightType: t, OutputType: boolType()})
		}
		r.AddPrefixOp(PrefixUnaryOp{Op: "-", InputType: t, OutputType: t})
		r.AddFunction(Function{Name: "max", ArgTypes: []ir.DataType{t}, ResultType: t, IsAggregate: true})
		r.AddFunction(Function{Name: "min", ArgTypes: []ir.DataType{t}, ResultType: t, IsAggregate: true})
		r.AddFunction(Function{Name: "sum", ArgTypes: []ir.DataType{t}, ResultType: t, IsAggregate: true})
		r.AddFunction(Function{Name: "avg", ArgTypes: []ir.DataType{t}, ResultType: floatType(true), IsAggregate: true})
	}

	// count(*) has no natural argument type slot in this shape; model it
	// as count(any integer) since every actual's type can_cast_to itself
	// (reflexive cast, spec §8) and callers pass a representative column.
	r.AddFunction(Function{Name: "count", ArgTypes: []ir.DataType{intType(64, false, false)}, ResultType: intType(64, true, false), IsAggregate: true})

	return r
}

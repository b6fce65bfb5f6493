package ir

import (
	"strconv"

	"github.com/n-lang/ncore/internal/ast"
)

// DataTypeKind tags a resolved type (spec §3: "Primitive | Compound | Reference | Array | Void").
type DataTypeKind int

const (
	TypeVoid DataTypeKind = iota
	TypePrimitive
	TypeCompound
	TypeReference
	TypeArray
)

// DataType is the resolved, elaborated counterpart of ast.TypeExpr.
// Exactly one of the Kind-selected fields is meaningful.
type DataType struct {
	Kind DataTypeKind

	Primitive *ast.PrimitiveType

	Compound *CompoundType

	// TypeReference: the item this type name elaborated to. Always a
	// Handle of kind ItemDataType once resolved (spec §4.4).
	Reference *Handle[Item]

	// TypeArray
	Element *DataType
}

type CompoundKind int

const (
	CompoundStructure CompoundKind = iota
	CompoundTuple
)

type CompoundField struct {
	Name string // "componentN" for tuple fields, by convention (spec §4.4)
	Type DataType
}

type CompoundType struct {
	Kind   CompoundKind
	Fields *orderedMap[CompoundField]
}

// NewCompoundFields builds an empty ordered field map for a compound type
// under construction (sema's resolveCompoundType).
func NewCompoundFields() *orderedMap[CompoundField] {
	return newOrderedMap[CompoundField]()
}

// TupleComponentName is the conventional property name for a tuple's Nth
// field (spec §4.4: "tuple indices use the conventional name form
// componentN").
func TupleComponentName(i int) string {
	return "component" + strconv.Itoa(i)
}

// Void reports whether this is the Void pseudo-type (absent return type).
func (t DataType) Void() bool { return t.Kind == TypeVoid }

// CanCastTo implements spec §4.4's cast-compatibility partial order.
func (t DataType) CanCastTo(u DataType) bool {
	t = t.resolveReference()
	u = u.resolveReference()

	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case TypeVoid:
		return true
	case TypePrimitive:
		return primitiveCanCast(*t.Primitive, *u.Primitive)
	case TypeArray:
		return t.Element.CanCastTo(*u.Element)
	case TypeCompound:
		return compoundCanCast(*t.Compound, *u.Compound)
	}
	return false
}

// resolveReference transparently follows Reference(item) to its underlying
// type (spec §4.4: "Reference(item) transparently follows...").
func (t DataType) resolveReference() DataType {
	for t.Kind == TypeReference && t.Reference != nil {
		var item Item
		t.Reference.Read(func(it Item) { item = it })
		if item.Kind != ItemDataType || item.DataType == nil {
			break
		}
		t = *item.DataType
	}
	return t
}

func compoundCanCast(from, to CompoundType) bool {
	if to.Kind != from.Kind {
		return false
	}
	ok := true
	to.Fields.Each(func(name string, toField CompoundField) {
		fromField, present := from.Fields.Get(name)
		if !present || !fromField.Type.CanCastTo(toField.Type) {
			ok = false
		}
	})
	return ok
}

func primitiveCanCast(from, to ast.PrimitiveType) bool {
	if from.Kind != to.Kind {
		return false
	}
	switch from.Kind {
	case ast.PrimitiveNumber:
		return numberCanCast(from, to)
	case ast.PrimitiveString:
		return stringCanCast(from, to)
	case ast.PrimitiveYear:
		// year2 -> year4 ok; year4 -> year2 forbidden.
		return from.Year == to.Year || (from.Year == ast.Year2 && to.Year == ast.Year4)
	case ast.PrimitiveDateTime:
		return from.DateTime == to.DateTime
	}
	return false
}

func numberCanCast(from, to ast.PrimitiveType) bool {
	// single -> double widens; double -> single is forbidden (spec §4.4).
	if from.Number == ast.NumberFloat && to.Number == ast.NumberDouble {
		return true
	}
	if from.Number != to.Number {
		return false
	}
	switch from.Number {
	case ast.NumberBoolean:
		return true
	case ast.NumberBit:
		return intOrBitSize(from.Size) <= intOrBitSize(to.Size)
	case ast.NumberInteger:
		if !from.Unsigned && to.Unsigned {
			return false // signed -> unsigned forbidden
		}
		return intOrBitSize(from.Size) <= intOrBitSize(to.Size)
	case ast.NumberDecimal:
		return intOrBitSize(from.Size) <= intOrBitSize(to.Size) && intOrBitSize(from.Scale) <= intOrBitSize(to.Scale)
	case ast.NumberFloat, ast.NumberDouble:
		return true
	}
	return false
}

func intOrBitSize(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func stringCanCast(from, to ast.PrimitiveType) bool {
	if !from.IsText && !to.IsText {
		return intOrBitSize(from.Size) <= intOrBitSize(to.Size) // varchar(n) -> varchar(m)
	}
	if !from.IsText && to.IsText {
		return true // any varchar -> text
	}
	if from.IsText && to.IsText {
		return true
	}
	return false // text -> varchar forbidden
}

// Package types models the fundamental and user-defined types that
// declarations and expressions carry through the parser and codegen.
package types

// FundamentalType is the closed set of type tags the parser can produce.
type FundamentalType int

const (
	Void FundamentalType = iota
	Integer32
	Integer64
	Boolean
	Character
	String
	UserDefined
)

// String returns the fundamental tag's diagnostic name, as it appears in
// "Cannot perform implicit conversion from 'X' to 'Y'" messages.
func (f FundamentalType) String() string {
	switch f {
	case Void:
		return "Void"
	case Integer32:
		return "Integer32"
	case Integer64:
		return "Integer64"
	case Boolean:
		return "Boolean"
	case Character:
		return "Character"
	case String:
		return "String"
	case UserDefined:
		return "UserDefined"
	default:
		return "Unknown"
	}
}

// sizeBits holds the storage size, in bits, of every scalar fundamental
// type. String and UserDefined have no fixed size: a string's storage is
// the sum of its characters, and UserDefined is never instantiated by
// this grammar (there is no type/struct declaration).
var sizeBits = map[FundamentalType]int{
	Void:      0,
	Integer32: 32,
	Integer64: 64,
	Boolean:   8,
	Character: 8,
}

// Type is a type descriptor: a fundamental tag plus, for arrays, a
// length, and for user-defined types, a field list (parsed but never
// populated by this grammar).
type Type struct {
	Name   string
	FType  FundamentalType
	Length int
	Fields []Type
}

// Equal reports structural equality over {FType, Name, Length}, per the
// grammar's equality rule. Fields are not compared: no declaration in
// this grammar produces distinct field sets for the same name.
func (t Type) Equal(other Type) bool {
	return t.FType == other.FType && t.Name == other.Name && t.Length == other.Length
}

// SizeBits returns the storage size, in bits, of a scalar type. Callers
// computing variable storage for String or array types must account for
// length themselves; SizeBits alone gives only the per-element size.
func (t Type) SizeBits() int {
	if t.FType == Character || t.FType == String {
		return sizeBits[Character]
	}
	return sizeBits[t.FType]
}

// IsNumeric reports whether f is one of the sized integer tags.
func IsNumeric(f FundamentalType) bool {
	return f == Integer32 || f == Integer64
}

// Compatible reports whether a value of type from may be stored into a
// slot of type to without an explicit conversion: either the two types
// are structurally Equal, or both are numeric (the untyped integer
// literal width, Integer64, narrows freely into any declared integer
// width). Every other pairing — Boolean against a numeric type, String
// against Character, and so on — requires exact equality.
func Compatible(from, to Type) bool {
	if from.Equal(to) {
		return true
	}
	return IsNumeric(from.FType) && IsNumeric(to.FType)
}

// Canonical, pre-built type constants for the scalar fundamental types.
var (
	I32  = Type{Name: "i32", FType: Integer32}
	I64  = Type{Name: "i64", FType: Integer64}
	Str  = Type{Name: "string", FType: String}
	Char = Type{Name: "char", FType: Character}
	Bool = Type{Name: "bool", FType: Boolean}
)

// FromKeyword resolves a built-in type-specifier keyword lexeme to its
// canonical Type. ok is false for anything that isn't one of the five
// built-in keywords; callers fall back to UserDefined for identifiers.
func FromKeyword(lexeme string) (Type, bool) {
	switch lexeme {
	case "i32":
		return I32, true
	case "i64":
		return I64, true
	case "string":
		return Str, true
	case "char":
		return Char, true
	case "bool":
		return Bool, true
	default:
		return Type{}, false
	}
}

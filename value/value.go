// Package value defines the tagged-variant value tree produced by the
// decoder: the in-memory representation of every value the wire format can
// express.
package value

import "fmt"

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindSeq
	KindMap
	KindObj
	KindEnum
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindStr:
		return "Str"
	case KindSeq:
		return "Seq"
	case KindMap:
		return "Map"
	case KindObj:
		return "Obj"
	case KindEnum:
		return "Enum"
	case KindRef:
		return "Ref"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one node of the decoded tree. Exactly one of the typed fields is
// meaningful, selected by Kind; this mirrors the teacher's one-struct-per-
// node-kind AST but collapsed into a single tagged struct, since the wire
// format's grammar (§4.3 of the spec) has far fewer variants than a SQL AST
// and a closed, tightly bounds-checked sum type is easier to keep
// exhaustive in switches throughout the decoder.
type Value struct {
	kind Kind

	b    bool
	i    int64
	f    float64
	str  []byte
	seq  []Value
	m    *Map
	obj  *Obj
	enum Enum
	ref  Ref
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Null returns the Null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an Int value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a Float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str returns a Str value. raw is retained without copying; callers that
// build a Str from a mutable buffer should clone first.
func Str(raw []byte) Value { return Value{kind: KindStr, str: raw} }

// Seq returns a Seq value over elems.
func Seq(elems []Value) Value { return Value{kind: KindSeq, seq: elems} }

// MapValue returns a Map value wrapping m.
func MapValue(m *Map) Value { return Value{kind: KindMap, m: m} }

// ObjValue returns an Obj value.
func ObjValue(o *Obj) Value { return Value{kind: KindObj, obj: o} }

// EnumValue returns an Enum value.
func EnumValue(e Enum) Value { return Value{kind: KindEnum, enum: e} }

// RefValue returns a Ref value.
func RefValue(r Ref) Value { return Value{kind: KindRef, ref: r} }

// AsBool returns the payload of a Bool value. It panics if Kind != KindBool;
// callers should switch on Kind first, the same discipline the teacher's
// ast package expects of type-switching over ast.Expression.
func (v Value) AsBool() bool { v.mustBe(KindBool); return v.b }

// AsInt returns the payload of an Int value.
func (v Value) AsInt() int64 { v.mustBe(KindInt); return v.i }

// AsFloat returns the payload of a Float value.
func (v Value) AsFloat() float64 { v.mustBe(KindFloat); return v.f }

// AsStr returns the raw bytes of a Str value.
func (v Value) AsStr() []byte { v.mustBe(KindStr); return v.str }

// AsSeq returns the elements of a Seq value.
func (v Value) AsSeq() []Value { v.mustBe(KindSeq); return v.seq }

// AsMap returns the Map of a Map value.
func (v Value) AsMap() *Map { v.mustBe(KindMap); return v.m }

// AsObj returns the Obj payload of an Obj value.
func (v Value) AsObj() *Obj { v.mustBe(KindObj); return v.obj }

// AsEnum returns the Enum payload of an Enum value.
func (v Value) AsEnum() Enum { v.mustBe(KindEnum); return v.enum }

// AsRef returns the Ref payload of a Ref value.
func (v Value) AsRef() Ref { v.mustBe(KindRef); return v.ref }

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("value: called As%s on a %s", k, v.kind))
	}
}

// Enum is the (class-name, case-name) pair carried by an E:-tagged value.
type Enum struct {
	Class []byte
	Case  []byte
}

// Obj is a named record: a class name plus its ordered property map.
type Obj struct {
	Class []byte
	Props *Map
}

// RefKind distinguishes the two reference marker productions, R (value-ref)
// and r (object-ref). Neither is resolved by this package; see §4.8 and
// §9 ("Reference markers") of the spec.
type RefKind int

const (
	RefValueKind RefKind = iota
	RefObjectKind
)

// Ref is an unresolved reference marker: an ordinal plus which production
// produced it.
type Ref struct {
	Ordinal int64
	Kind    RefKind
}

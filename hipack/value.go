package hipack

import "fmt"

// Type represents HiPack value types.
type Type uint8

const (
	TypeAbsent Type = iota
	TypeBool
	TypeInt
	TypeUint
	TypeFloat
	TypeString
	TypeList
	TypeDict
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeAbsent:
		return "absent"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Value represents a HiPack value.
//
// Dict entries are an ordered slice, not a Go map: the order entries were
// inserted in is the order they are encoded in.
type Value struct {
	typ Type

	// Scalar values (only one valid based on typ)
	boolVal  bool
	intVal   int64
	uintVal  uint64
	floatVal float64
	strVal   string

	// Container values
	listVal []*Value
	dictVal []Entry
}

// Entry represents a key-value pair in a dict.
type Entry struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Absent creates an absent value. Absent has no textual representation;
// encoding it always fails with CodeUnrepresentableValue.
func Absent() *Value {
	return &Value{typ: TypeAbsent}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{typ: TypeBool, boolVal: v}
}

// Int creates a signed integer value.
func Int(v int64) *Value {
	return &Value{typ: TypeInt, intVal: v}
}

// Uint creates an unsigned integer value.
func Uint(v uint64) *Value {
	return &Value{typ: TypeUint, uintVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{typ: TypeFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{typ: TypeString, strVal: v}
}

// List creates a list value.
func List(values ...*Value) *Value {
	return &Value{typ: TypeList, listVal: values}
}

// Dict creates a dict value from key-value entries.
func Dict(entries ...Entry) *Value {
	return &Value{typ: TypeDict, dictVal: entries}
}

// Field creates an Entry for use in Dict construction.
func Field(key string, value *Value) Entry {
	return Entry{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Type returns the value type. A nil *Value is absent.
func (v *Value) Type() Type {
	if v == nil {
		return TypeAbsent
	}
	return v.typ
}

// IsAbsent returns true if this is an absent value.
func (v *Value) IsAbsent() bool {
	return v == nil || v.typ == TypeAbsent
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v == nil {
		return false, fmt.Errorf("hipack: nil value")
	}
	if v.typ != TypeBool {
		return false, fmt.Errorf("hipack: expected bool, got %s", v.typ)
	}
	return v.boolVal, nil
}

// AsInt returns the signed integer value.
func (v *Value) AsInt() (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("hipack: nil value")
	}
	if v.typ != TypeInt {
		return 0, fmt.Errorf("hipack: expected int, got %s", v.typ)
	}
	return v.intVal, nil
}

// AsUint returns the unsigned integer value.
func (v *Value) AsUint() (uint64, error) {
	if v == nil {
		return 0, fmt.Errorf("hipack: nil value")
	}
	if v.typ != TypeUint {
		return 0, fmt.Errorf("hipack: expected uint, got %s", v.typ)
	}
	return v.uintVal, nil
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("hipack: nil value")
	}
	if v.typ != TypeFloat {
		return 0, fmt.Errorf("hipack: expected float, got %s", v.typ)
	}
	return v.floatVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v == nil {
		return "", fmt.Errorf("hipack: nil value")
	}
	if v.typ != TypeString {
		return "", fmt.Errorf("hipack: expected string, got %s", v.typ)
	}
	return v.strVal, nil
}

// AsList returns the list elements.
func (v *Value) AsList() ([]*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("hipack: nil value")
	}
	if v.typ != TypeList {
		return nil, fmt.Errorf("hipack: expected list, got %s", v.typ)
	}
	return v.listVal, nil
}

// AsDict returns the dict entries.
func (v *Value) AsDict() ([]Entry, error) {
	if v == nil {
		return nil, fmt.Errorf("hipack: nil value")
	}
	if v.typ != TypeDict {
		return nil, fmt.Errorf("hipack: expected dict, got %s", v.typ)
	}
	return v.dictVal, nil
}

// Len returns the length of a list or dict, and zero for anything else.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.typ {
	case TypeList:
		return len(v.listVal)
	case TypeDict:
		return len(v.dictVal)
	default:
		return 0
	}
}

// Get returns a dict entry value by key, or nil if not present.
func (v *Value) Get(key string) *Value {
	if v == nil || v.typ != TypeDict {
		return nil
	}
	for _, e := range v.dictVal {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Index returns the i-th element of a list.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil || v.typ != TypeList {
		return nil, fmt.Errorf("hipack: not a list")
	}
	if i < 0 || i >= len(v.listVal) {
		return nil, fmt.Errorf("hipack: index %d out of bounds (len=%d)", i, len(v.listVal))
	}
	return v.listVal[i], nil
}

// ============================================================
// Mutators
// ============================================================

// Set sets an entry value on a dict, appending when the key is new.
func (v *Value) Set(key string, val *Value) {
	if v.typ != TypeDict {
		panic("hipack: cannot set on non-dict")
	}
	for i := range v.dictVal {
		if v.dictVal[i].Key == key {
			v.dictVal[i].Value = val
			return
		}
	}
	v.dictVal = append(v.dictVal, Entry{Key: key, Value: val})
}

// Append adds a value to a list.
func (v *Value) Append(val *Value) {
	if v.typ != TypeList {
		panic("hipack: cannot append to non-list")
	}
	v.listVal = append(v.listVal, val)
}

// ============================================================
// Comparison
// ============================================================

// Equal reports whether two values are structurally equal. Dicts compare
// entry by entry in order; Int and Uint values compare equal when they
// represent the same number.
func (v *Value) Equal(other *Value) bool {
	if v.IsAbsent() || other.IsAbsent() {
		return v.IsAbsent() && other.IsAbsent()
	}

	if v.typ != other.typ {
		// Int/Uint cross-compare: the decoder picks the narrowest kind
		// that fits, so 7 may come back as Int after a Uint went in.
		if v.typ == TypeInt && other.typ == TypeUint {
			return v.intVal >= 0 && uint64(v.intVal) == other.uintVal
		}
		if v.typ == TypeUint && other.typ == TypeInt {
			return other.intVal >= 0 && uint64(other.intVal) == v.uintVal
		}
		return false
	}

	switch v.typ {
	case TypeBool:
		return v.boolVal == other.boolVal
	case TypeInt:
		return v.intVal == other.intVal
	case TypeUint:
		return v.uintVal == other.uintVal
	case TypeFloat:
		// NaN compares equal to NaN so round-trip checks can use Equal.
		if v.floatVal != v.floatVal && other.floatVal != other.floatVal {
			return true
		}
		return v.floatVal == other.floatVal
	case TypeString:
		return v.strVal == other.strVal
	case TypeList:
		if len(v.listVal) != len(other.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(other.listVal[i]) {
				return false
			}
		}
		return true
	case TypeDict:
		if len(v.dictVal) != len(other.dictVal) {
			return false
		}
		for i := range v.dictVal {
			if v.dictVal[i].Key != other.dictVal[i].Key {
				return false
			}
			if !v.dictVal[i].Value.Equal(other.dictVal[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// DataType is the closed set of primitive column types. The numeric value is
// also the ordering used whenever types are sorted or used as keys.
type DataType int

const (
	Int32 DataType = iota
	String
	Bool
	Float64
)

func (self DataType) String() string {
	switch self {
	case Int32:
		return "Int32"
	case String:
		return "String"
	case Bool:
		return "Bool"
	case Float64:
		return "Float64"
	default:
		return fmt.Sprintf("DataType(%d)", int(self))
	}
}

func (self DataType) IsNumeric() bool {
	return self == Int32 || self == Float64
}

// ScalarValue is a nullable value tagged with its DataType. Only the payload
// field matching Ty is meaningful, and none of them is when Null is set.
type ScalarValue struct {
	Ty   DataType
	Null bool
	Int  int32
	Real float64
	Bool bool
	Str  string
}

func Int32Value(v int32) ScalarValue {
	return ScalarValue{Ty: Int32, Int: v}
}

func Float64Value(v float64) ScalarValue {
	return ScalarValue{Ty: Float64, Real: v}
}

func BoolValue(v bool) ScalarValue {
	return ScalarValue{Ty: Bool, Bool: v}
}

func StringValue(v string) ScalarValue {
	return ScalarValue{Ty: String, Str: v}
}

func NullValue(ty DataType) ScalarValue {
	return ScalarValue{Ty: ty, Null: true}
}

func (self ScalarValue) IsNull() bool { return self.Null }

// String renders the value the way it would be written as a SQL literal.
func (self ScalarValue) String() string {
	if self.Null {
		return "NULL"
	}
	switch self.Ty {
	case Int32:
		return strconv.FormatInt(int64(self.Int), 10)
	case Float64:
		return strconv.FormatFloat(self.Real, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(self.Bool)
	case String:
		return "'" + strings.ReplaceAll(self.Str, "'", "''") + "'"
	default:
		return "?"
	}
}

// Text renders the value without quoting, NULL becomes an empty string. Used
// when values are dumped as table cells.
func (self ScalarValue) Text() string {
	if self.Null {
		return ""
	}
	if self.Ty == String {
		return self.Str
	}
	return self.String()
}

// Cell parsing shared by schema inference and scanning. All of them expect
// an already trimmed, non-empty cell.

func ParseInt32(cell string) (int32, bool) {
	v, err := strconv.ParseInt(cell, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

func ParseFloat64(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func ParseBool(cell string) (bool, bool) {
	switch {
	case strings.EqualFold(cell, "true"):
		return true, true
	case strings.EqualFold(cell, "false"):
		return false, true
	default:
		return false, false
	}
}

// ParseScalar converts a non-empty cell into a value of the given type.
func ParseScalar(cell string, ty DataType) (ScalarValue, bool) {
	switch ty {
	case Int32:
		if v, ok := ParseInt32(cell); ok {
			return Int32Value(v), true
		}
	case Float64:
		if v, ok := ParseFloat64(cell); ok {
			return Float64Value(v), true
		}
	case Bool:
		if v, ok := ParseBool(cell); ok {
			return BoolValue(v), true
		}
	case String:
		return StringValue(cell), true
	}
	return ScalarValue{}, false
}

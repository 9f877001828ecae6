package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func studentSchema() Schema {
	return MustSchema(
		Field{Name: "S/N", Type: Int32, Nullable: true},
		Field{Name: "Name", Type: String, Nullable: true},
		Field{Name: "Email", Type: String, Nullable: true},
		Field{Name: "IsVerified", Type: Bool, Nullable: true},
	)
}

func TestDataTypeOrder(t *testing.T) {
	assert := assert.New(t)
	assert.True(Int32 < String)
	assert.True(String < Bool)
	assert.True(Bool < Float64)
	assert.Equal("Float64", Float64.String())
	assert.True(Int32.IsNumeric())
	assert.True(Float64.IsNumeric())
	assert.False(Bool.IsNumeric())
	assert.False(String.IsNumeric())
}

func TestScalarValue(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("NULL", NullValue(Int32).String())
	assert.Equal("42", Int32Value(42).String())
	assert.Equal("1.5", Float64Value(1.5).String())
	assert.Equal("true", BoolValue(true).String())
	assert.Equal("'it''s'", StringValue("it's").String())
	assert.Equal("it's", StringValue("it's").Text())
	assert.Equal("", NullValue(String).Text())
	assert.True(NullValue(Bool).IsNull())
	assert.Equal(Bool, NullValue(Bool).Ty)
}

func TestParseCells(t *testing.T) {
	assert := assert.New(t)
	{
		v, ok := ParseInt32("2147483647")
		assert.True(ok)
		assert.Equal(int32(2147483647), v)
		_, ok = ParseInt32("2147483648")
		assert.False(ok)
		_, ok = ParseInt32("1.0")
		assert.False(ok)
	}
	{
		v, ok := ParseBool("TRUE")
		assert.True(ok)
		assert.True(v)
		v, ok = ParseBool("False")
		assert.True(ok)
		assert.False(v)
		_, ok = ParseBool("1")
		assert.False(ok)
	}
	{
		v, ok := ParseScalar("3.25", Float64)
		assert.True(ok)
		assert.Equal(Float64Value(3.25), v)
		_, ok = ParseScalar("abc", Int32)
		assert.False(ok)
		v, ok = ParseScalar("abc", String)
		assert.True(ok)
		assert.Equal(StringValue("abc"), v)
	}
}

func TestSchemaLookup(t *testing.T) {
	assert := assert.New(t)
	s := studentSchema()
	assert.Equal(4, s.Len())
	assert.Equal([]string{"S/N", "Name", "Email", "IsVerified"}, s.Names())
	assert.Equal(3, s.IndexOf("IsVerified"))
	assert.Equal(-1, s.IndexOf("name")) // exact match only

	f, ok := s.Lookup("Email")
	assert.True(ok)
	assert.Equal(String, f.Type)

	_, ok = s.Lookup("Missing")
	assert.False(ok)

	// Fields returns a copy
	fields := s.Fields()
	fields[0].Name = "changed"
	assert.Equal("S/N", s.Field(0).Name)
}

func TestSchemaDuplicateNames(t *testing.T) {
	assert := assert.New(t)
	_, err := NewSchema(
		Field{Name: "a", Type: Int32},
		Field{Name: "b", Type: Int32},
		Field{Name: "a", Type: String},
	)
	var verr *ValidationError
	assert.True(errors.As(err, &verr))
	assert.Contains(err.Error(), `"a"`)
}

func TestSchemaProject(t *testing.T) {
	assert := assert.New(t)
	s := MustSchema(
		Field{Name: "id", Type: Int32, Nullable: false},
		Field{Name: "name", Type: String, Nullable: false},
	)
	p, err := s.Project("name", "id")
	assert.Nil(err)
	assert.Equal([]Field{
		{Name: "name", Type: String, Nullable: true},
		{Name: "id", Type: Int32, Nullable: true},
	}, p.Fields())

	_, err = s.Project("nope")
	assert.Error(err)
}

func TestRecordBatchShape(t *testing.T) {
	assert := assert.New(t)
	s := MustSchema(
		Field{Name: "a", Type: Int32, Nullable: true},
		Field{Name: "b", Type: String, Nullable: true},
	)

	{
		_, err := NewRecordBatch(s, []ColumnVector{NewColumnVector(Int32Value(1))})
		var e *SchemaCountMismatchError
		assert.True(errors.As(err, &e))
		assert.Equal(2, e.Expected)
		assert.Equal(1, e.Actual)
	}

	{
		_, err := NewRecordBatch(s, []ColumnVector{
			NewColumnVector(Int32Value(1), Int32Value(2)),
			NewColumnVector(StringValue("x")),
		})
		var e *ColumnLengthMismatchError
		assert.True(errors.As(err, &e))
		assert.Equal(1, e.ColumnIndex)
		assert.Equal(2, e.ExpectedLength)
		assert.Equal(1, e.ActualLength)
	}

	{
		_, err := NewRecordBatch(s, []ColumnVector{
			NewColumnVector(Int32Value(1)),
			NewColumnVector(BoolValue(true)),
		})
		var e *TypeMismatchError
		assert.True(errors.As(err, &e))
		assert.Equal("b", e.Column)
	}

	{
		b, err := NewRecordBatch(s, []ColumnVector{
			NewColumnVector(Int32Value(1), NullValue(Int32)),
			NewColumnVector(StringValue("x"), StringValue("y")),
		})
		assert.Nil(err)
		assert.Equal(2, b.NumRows())
		assert.Equal(2, b.NumColumns())
		assert.Equal([]ScalarValue{NullValue(Int32), StringValue("y")}, b.Row(1))
		col, ok := b.ColumnByName("b")
		assert.True(ok)
		assert.Equal(2, col.Len())
	}

	{
		b, err := NewRecordBatch(Schema{}, nil)
		assert.Nil(err)
		assert.Equal(0, b.NumRows())
		assert.Equal(0, b.NumColumns())
	}
}

package types

// ColumnVector is one column's worth of values.
type ColumnVector struct {
	Values []ScalarValue
}

func NewColumnVector(values ...ScalarValue) ColumnVector {
	return ColumnVector{Values: values}
}

func (self ColumnVector) Len() int { return len(self.Values) }

func (self ColumnVector) Value(idx int) ScalarValue { return self.Values[idx] }

// RecordBatch is a fixed shape chunk of columns conforming to a schema. The
// shape is checked once in NewRecordBatch and the batch is read-only after.
type RecordBatch struct {
	schema  Schema
	columns []ColumnVector
}

func NewRecordBatch(
	schema Schema,
	columns []ColumnVector,
) (*RecordBatch, error) {
	if schema.Len() != len(columns) {
		return nil, &SchemaCountMismatchError{
			Expected: schema.Len(),
			Actual:   len(columns),
		}
	}

	if len(columns) > 0 {
		height := columns[0].Len()
		for idx, col := range columns {
			if col.Len() != height {
				return nil, &ColumnLengthMismatchError{
					ColumnIndex:    idx,
					ExpectedLength: height,
					ActualLength:   col.Len(),
				}
			}
		}
	}

	for idx, col := range columns {
		field := schema.Field(idx)
		for _, v := range col.Values {
			if v.Ty != field.Type {
				return nil, &TypeMismatchError{
					Column:   field.Name,
					Expected: field.Type.String(),
					Actual:   v.Ty.String(),
				}
			}
		}
	}

	return &RecordBatch{
		schema:  schema,
		columns: columns,
	}, nil
}

func (self *RecordBatch) Schema() Schema { return self.schema }

func (self *RecordBatch) NumColumns() int { return len(self.columns) }

func (self *RecordBatch) NumRows() int {
	if len(self.columns) == 0 {
		return 0
	}
	return self.columns[0].Len()
}

func (self *RecordBatch) Column(idx int) ColumnVector { return self.columns[idx] }

func (self *RecordBatch) ColumnByName(name string) (ColumnVector, bool) {
	idx := self.schema.IndexOf(name)
	if idx < 0 {
		return ColumnVector{}, false
	}
	return self.columns[idx], true
}

// Row gathers the idx'th value of every column.
func (self *RecordBatch) Row(idx int) []ScalarValue {
	out := make([]ScalarValue, 0, len(self.columns))
	for _, col := range self.columns {
		out = append(out, col.Values[idx])
	}
	return out
}

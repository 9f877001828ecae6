package datasource

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dianpeng/vektur/types"
	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const studentsCSV = `S/N, Name, Email, IsVerified
1, Ada, ada@example.com, true
2, Bob, bob@example.com, FALSE
3, Cy, , true
`

func drain(it BatchIterator) ([]*types.RecordBatch, []error) {
	batches := []*types.RecordBatch{}
	errs := []error{}
	for {
		b, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		batches = append(batches, b)
	}
	return batches, errs
}

func TestCSVPathValidation(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	one := func(path string, msg string) {
		_, err := NewCSV(path, nil)
		var e *types.DataSourceError
		assert.True(errors.As(err, &e), path)
		assert.Contains(err.Error(), msg)
	}

	one(filepath.Join(dir, "missing.csv"), "does not exist")
	one(dir, "not a regular file")
	one(writeFile(t, "data.txt", "a\n1\n"), "not a csv file")
	one(writeFile(t, "data", "a\n1\n"), "no file extension")

	// extension check is case insensitive
	_, err := NewCSV(writeFile(t, "DATA.CSV", "a\n1\n"), nil)
	assert.Nil(err)
}

func TestCSVInferSchema(t *testing.T) {
	assert := assert.New(t)
	src, err := NewCSV(writeFile(t, "students.csv", studentsCSV), nil)
	assert.Nil(err)
	assert.Equal([]types.Field{
		{Name: "S/N", Type: types.Int32, Nullable: true},
		{Name: "Name", Type: types.String, Nullable: true},
		{Name: "Email", Type: types.String, Nullable: true},
		{Name: "IsVerified", Type: types.Bool, Nullable: true},
	}, src.Schema().Fields())
}

func TestCSVInferHeaderOnly(t *testing.T) {
	assert := assert.New(t)
	src, err := NewCSV(writeFile(t, "h.csv", "a, b ,c\n"), nil)
	assert.Nil(err)
	assert.Equal([]string{"a", "b", "c"}, src.Schema().Names())
	for _, f := range src.Schema().Fields() {
		assert.Equal(types.String, f.Type)
		assert.True(f.Nullable)
	}
}

func TestCSVInferErrors(t *testing.T) {
	assert := assert.New(t)
	{
		_, err := NewCSV(writeFile(t, "empty.csv", ""), nil)
		assert.Error(err)
		assert.Contains(err.Error(), "empty")
	}
	{
		_, err := NewCSV(writeFile(t, "dup.csv", "a,b,a\n1,2,3\n"), nil)
		var e *types.DataSourceError
		assert.True(errors.As(err, &e))
		assert.Contains(err.Error(), "duplicate")
	}
}

func TestDetectTypes(t *testing.T) {
	assert := assert.New(t)
	lines := []string{
		"1, 1.5, true, x, ,  7",
		"2, 2,   FALSE, 1, ,",
		"-3, 1e3, , y, ,  2147483648",
	}
	assert.Equal([]types.DataType{
		types.Int32,
		types.Float64,
		types.Bool,
		types.String,
		types.String, // all empty
		types.Float64, // overflows Int32
	}, DetectTypes(6, lines))

	// short lines pad with empty cells
	assert.Equal(
		[]types.DataType{types.Int32, types.String},
		DetectTypes(2, []string{"1", "2"}),
	)
}

func TestCSVInferSampleSize(t *testing.T) {
	assert := assert.New(t)
	buf := strings.Builder{}
	buf.WriteString("v\n")
	for i := 0; i < 100; i++ {
		buf.WriteString(fmt.Sprintf("%d\n", i))
	}
	buf.WriteString("oops\n")
	path := writeFile(t, "sample.csv", buf.String())

	src, err := NewCSV(path, nil)
	assert.Nil(err)
	assert.Equal(types.Int32, src.Schema().Field(0).Type)

	// the row beyond the sample fails at scan time, not at inference time
	batches, errs := drain(src.Scan())
	assert.Equal(6, len(batches))
	assert.Equal(1, len(errs))
	var e *types.TypeMismatchError
	assert.True(errors.As(errs[0], &e))
	assert.Equal("Int32", e.Expected)
	assert.Equal("oops", e.Actual)

	// a bigger sample sees it
	src, err = NewCSV(path, &CSVConfig{SampleSize: 101})
	assert.Nil(err)
	assert.Equal(types.String, src.Schema().Field(0).Type)
}

func TestCSVScanValues(t *testing.T) {
	assert := assert.New(t)
	src, err := NewCSV(writeFile(t, "students.csv", studentsCSV), nil)
	assert.Nil(err)

	batches, errs := drain(src.Scan())
	assert.Equal(0, len(errs))
	assert.Equal(1, len(batches))

	b := batches[0]
	assert.Equal(3, b.NumRows())
	assert.Equal(4, b.NumColumns())
	assert.Equal([]types.ScalarValue{
		types.Int32Value(2),
		types.StringValue("Bob"),
		types.StringValue("bob@example.com"),
		types.BoolValue(false),
	}, b.Row(1))
	assert.Equal(types.NullValue(types.String), b.Column(2).Value(2))
}

func TestCSVScanPagination(t *testing.T) {
	assert := assert.New(t)
	one := func(n int, expect []int) {
		buf := strings.Builder{}
		buf.WriteString("id,name\n")
		for i := 0; i < n; i++ {
			buf.WriteString(fmt.Sprintf("%d,n%d\n", i, i))
		}
		src, err := NewCSV(writeFile(t, "p.csv", buf.String()), nil)
		assert.Nil(err)

		batches, errs := drain(src.Scan())
		assert.Equal(0, len(errs))
		sizes := []int{}
		for _, b := range batches {
			sizes = append(sizes, b.NumRows())
		}
		assert.Equal(expect, sizes, "rows=%d", n)

		// the header never shows up as data
		if len(batches) > 0 {
			assert.Equal(types.Int32Value(0), batches[0].Column(0).Value(0))
		}
	}

	one(0, []int{})
	one(1, []int{1})
	one(16, []int{16})
	one(17, []int{16, 1})
	one(40, []int{16, 16, 8})
	one(48, []int{16, 16, 16})
}

func TestCSVScanChunkConfig(t *testing.T) {
	assert := assert.New(t)
	path := writeFile(t, "c.csv", "a\n1\n2\n\n3\n   \n4\n5")
	src, err := NewCSV(path, &CSVConfig{ChunkSize: 2})
	assert.Nil(err)
	assert.Equal(2, src.Config().ChunkSize)

	batches, errs := drain(src.Scan())
	assert.Equal(0, len(errs))
	sizes := []int{}
	for _, b := range batches {
		sizes = append(sizes, b.NumRows())
	}
	// blank lines are skipped, missing final newline is fine
	assert.Equal([]int{2, 2, 1}, sizes)
}

func TestCSVScanNotRestartable(t *testing.T) {
	assert := assert.New(t)
	src, err := NewCSV(writeFile(t, "students.csv", studentsCSV), nil)
	assert.Nil(err)

	it := src.Scan()
	b, err := it.Next()
	assert.Nil(err)
	assert.Equal(3, b.NumRows())

	_, err = it.Next()
	assert.Equal(io.EOF, err)
	_, err = it.Next()
	assert.Equal(io.EOF, err)

	// a fresh scan starts over
	batches, _ := drain(src.Scan())
	assert.Equal(1, len(batches))
}

func TestCSVScanErrorsContinue(t *testing.T) {
	assert := assert.New(t)
	path := writeFile(t, "e.csv", "a,b\n1,x\n2\n3,z\n4,w\n")
	src, err := NewCSV(path, &CSVConfig{ChunkSize: 2})
	assert.Nil(err)

	it := src.Scan()
	_, err = it.Next()
	assert.Error(err)
	assert.Contains(err.Error(), "field not found")
	assert.Contains(err.Error(), "line 3")

	// the failed chunk is consumed, the next one is fine
	b, err := it.Next()
	assert.Nil(err)
	assert.Equal(2, b.NumRows())
	assert.Equal(types.Int32Value(3), b.Column(0).Value(0))

	_, err = it.Next()
	assert.Equal(io.EOF, err)
}

func TestCSVScanNullability(t *testing.T) {
	assert := assert.New(t)
	path := writeFile(t, "n.csv", "id,name\n1,\n,bob\n")
	schema := types.MustSchema(
		types.Field{Name: "id", Type: types.Int32, Nullable: false},
		types.Field{Name: "name", Type: types.String, Nullable: true},
	)

	{
		src, err := NewCSVWithSchema(path, schema, &CSVConfig{ChunkSize: 1})
		assert.Nil(err)
		it := src.Scan()

		b, err := it.Next()
		assert.Nil(err)
		assert.Equal(types.NullValue(types.String), b.Column(1).Value(0))

		_, err = it.Next()
		var e *types.DataSourceError
		assert.True(errors.As(err, &e))
		assert.Contains(err.Error(), "null value in non-nullable field")
		assert.Contains(err.Error(), `"id"`)

		_, err = it.Next()
		assert.Equal(io.EOF, err)
	}

	{
		// inferred schemas are always nullable
		src, err := NewCSV(path, nil)
		assert.Nil(err)
		batches, errs := drain(src.Scan())
		assert.Equal(0, len(errs))
		assert.Equal(types.NullValue(types.Int32), batches[0].Column(0).Value(1))
	}
}

func TestCSVScanOpenFailure(t *testing.T) {
	assert := assert.New(t)
	path := writeFile(t, "gone.csv", "a\n1\n")
	src, err := NewCSV(path, nil)
	assert.Nil(err)
	assert.Nil(os.Remove(path))

	it := src.Scan()
	_, err = it.Next()
	var e *types.DataSourceError
	assert.True(errors.As(err, &e))
	assert.True(errors.Is(err, os.ErrNotExist))

	_, err = it.Next()
	assert.Equal(io.EOF, err)
}

func TestCSVScanClose(t *testing.T) {
	assert := assert.New(t)
	src, err := NewCSV(writeFile(t, "students.csv", studentsCSV), &CSVConfig{ChunkSize: 1})
	assert.Nil(err)

	it := src.Scan()
	_, err = it.Next()
	assert.Nil(err)
	assert.Nil(it.Close())
	_, err = it.Next()
	assert.Equal(io.EOF, err)
}

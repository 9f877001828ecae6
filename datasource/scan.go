package datasource

import (
	"io"
	"os"
	"strings"

	"github.com/dianpeng/vektur/types"
)

// csvIterator pulls ChunkSize lines per Next call and converts them into one
// record batch. It opens the file on the first pull.
type csvIterator struct {
	path      string
	schema    types.Schema
	chunkSize int

	file    *os.File
	reader  *lineReader
	started bool // header skipped, or open failure already reported
	done    bool
}

func newCSVIterator(
	path string,
	schema types.Schema,
	chunkSize int,
) *csvIterator {
	if chunkSize <= 0 {
		chunkSize = defChunkSize
	}
	return &csvIterator{
		path:      path,
		schema:    schema,
		chunkSize: chunkSize,
	}
}

func (self *csvIterator) Close() error {
	self.done = true
	if self.file == nil {
		return nil
	}
	err := self.file.Close()
	self.file = nil
	self.reader = nil
	return err
}

func (self *csvIterator) finish() (*types.RecordBatch, error) {
	self.Close()
	return nil, io.EOF
}

func (self *csvIterator) start() error {
	self.started = true

	file, err := os.Open(self.path)
	if err != nil {
		self.done = true
		return types.WrapDataSourceError(err, "cannot open %q", self.path)
	}
	self.file = file
	self.reader = newLineReader(file)

	if _, err := self.reader.next(); err != nil && err != io.EOF {
		return types.WrapDataSourceError(err, "cannot read header of %q", self.path)
	}
	return nil
}

func (self *csvIterator) Next() (*types.RecordBatch, error) {
	if self.done {
		return nil, io.EOF
	}
	if !self.started {
		if err := self.start(); err != nil {
			return nil, err
		}
	}

	type row struct {
		line  int
		cells []string
	}
	rows := make([]row, 0, self.chunkSize)

	for len(rows) < self.chunkSize {
		l, err := self.reader.next()
		if err == io.EOF {
			self.done = true
			break
		}
		if err != nil {
			self.Close()
			return nil, types.WrapDataSourceError(err, "cannot read %q", self.path)
		}
		if strings.TrimSpace(l) == "" {
			continue
		}
		rows = append(rows, row{line: self.reader.line, cells: splitLine(l)})
	}

	if len(rows) == 0 {
		return self.finish()
	}
	if self.done {
		self.Close()
	}

	columns := make([]types.ColumnVector, self.schema.Len())
	for cidx := range columns {
		columns[cidx].Values = make([]types.ScalarValue, 0, len(rows))
	}

	for _, r := range rows {
		for cidx := 0; cidx < self.schema.Len(); cidx++ {
			field := self.schema.Field(cidx)
			if cidx >= len(r.cells) {
				return nil, types.DataSourceErrorf(
					"line %d: field not found: %q (column %d)",
					r.line,
					field.Name,
					cidx,
				)
			}
			v, err := parseCell(r.cells[cidx], field, r.line)
			if err != nil {
				return nil, err
			}
			columns[cidx].Values = append(columns[cidx].Values, v)
		}
	}

	return types.NewRecordBatch(self.schema, columns)
}

func parseCell(
	cell string,
	field types.Field,
	line int,
) (types.ScalarValue, error) {
	if cell == "" {
		if field.Nullable {
			return types.NullValue(field.Type), nil
		}
		return types.ScalarValue{}, types.DataSourceErrorf(
			"line %d: null value in non-nullable field %q",
			line,
			field.Name,
		)
	}

	v, ok := types.ParseScalar(cell, field.Type)
	if !ok {
		return types.ScalarValue{}, &types.TypeMismatchError{
			Column:   field.Name,
			Expected: field.Type.String(),
			Actual:   cell,
		}
	}
	return v, nil
}

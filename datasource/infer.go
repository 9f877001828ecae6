package datasource

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/dianpeng/vektur/types"
)

// lineReader hands out one line at a time, without the line terminator.
// A zero byte read is the end of input.
type lineReader struct {
	r    *bufio.Reader
	line int // number of lines handed out so far
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (self *lineReader) next() (string, error) {
	data, err := self.r.ReadString('\n')
	if len(data) == 0 {
		if err == nil {
			err = io.EOF
		}
		return "", err
	}
	if err != nil && err != io.EOF {
		return "", err
	}
	self.line++
	return strings.TrimRight(data, "\r\n"), nil
}

// InferSchema derives the schema from the header and at most sampleSize data
// lines of the file. Every inferred field is nullable.
func InferSchema(path string, sampleSize int) (types.Schema, error) {
	if sampleSize <= 0 {
		sampleSize = defSampleSize
	}

	file, err := os.Open(path)
	if err != nil {
		return types.Schema{}, types.WrapDataSourceError(err, "cannot open %q", path)
	}
	defer file.Close()

	reader := newLineReader(file)
	lines := []string{}

	for len(lines) < sampleSize+1 {
		l, err := reader.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.Schema{}, types.WrapDataSourceError(err, "cannot read %q", path)
		}
		lines = append(lines, l)
	}

	if len(lines) == 0 {
		return types.Schema{}, types.DataSourceErrorf("%q is empty, a header line is required", path)
	}

	header := splitLine(lines[0])
	var colTypes []types.DataType

	if len(lines) < 2 {
		colTypes = make([]types.DataType, len(header))
		for idx := range colTypes {
			colTypes[idx] = types.String
		}
	} else {
		colTypes = DetectTypes(len(header), lines[1:])
	}

	fields := make([]types.Field, 0, len(header))
	for idx, name := range header {
		fields = append(fields, types.Field{
			Name:     name,
			Type:     colTypes[idx],
			Nullable: true,
		})
	}

	schema, err := types.NewSchema(fields...)
	if err != nil {
		return types.Schema{}, types.WrapDataSourceError(err, "invalid header in %q", path)
	}
	return schema, nil
}

// DetectTypes picks a type for each of the columns from the sampled data
// lines. The first type, in the order Int32, Float64, Bool, that accepts
// every non-empty cell wins; String otherwise, including all-empty columns.
func DetectTypes(columns int, lines []string) []types.DataType {
	buckets := make([][]string, columns)

	for _, l := range lines {
		cells := splitLine(l)
		for idx := 0; idx < columns; idx++ {
			if idx < len(cells) {
				buckets[idx] = append(buckets[idx], cells[idx])
			} else {
				buckets[idx] = append(buckets[idx], "")
			}
		}
	}

	out := make([]types.DataType, columns)
	for idx, b := range buckets {
		out[idx] = detectColumnType(b)
	}
	return out
}

func detectColumnType(cells []string) types.DataType {
	nonEmpty := 0
	isInt, isFloat, isBool := true, true, true

	for _, c := range cells {
		if c == "" {
			continue
		}
		nonEmpty++
		if isInt {
			_, isInt = types.ParseInt32(c)
		}
		if isFloat {
			_, isFloat = types.ParseFloat64(c)
		}
		if isBool {
			_, isBool = types.ParseBool(c)
		}
	}

	switch {
	case nonEmpty == 0:
		return types.String
	case isInt:
		return types.Int32
	case isFloat:
		return types.Float64
	case isBool:
		return types.Bool
	default:
		return types.String
	}
}

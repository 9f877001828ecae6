package datasource

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dianpeng/vektur/types"
)

const (
	defChunkSize  = 16
	defSampleSize = 100
)

// CSVConfig tunes the CSV data source. A nil config, or any non-positive
// field, means the default.
type CSVConfig struct {
	ChunkSize  int // lines per record batch during scan
	SampleSize int // data lines sampled during type detection
}

func DefaultCSVConfig() CSVConfig {
	return CSVConfig{
		ChunkSize:  defChunkSize,
		SampleSize: defSampleSize,
	}
}

func (self *CSVConfig) normalize() CSVConfig {
	out := DefaultCSVConfig()
	if self == nil {
		return out
	}
	if self.ChunkSize > 0 {
		out.ChunkSize = self.ChunkSize
	}
	if self.SampleSize > 0 {
		out.SampleSize = self.SampleSize
	}
	return out
}

// CSV is a data source over a comma delimited file whose first line is a
// header. Quoting and escaping are not supported.
type CSV struct {
	path   string
	schema types.Schema
	config CSVConfig
}

// NewCSV validates the path and infers the schema from the head of the file.
// Nothing is returned unless both succeed.
func NewCSV(path string, config *CSVConfig) (*CSV, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	cfg := config.normalize()

	schema, err := InferSchema(path, cfg.SampleSize)
	if err != nil {
		return nil, err
	}

	return &CSV{
		path:   path,
		schema: schema,
		config: cfg,
	}, nil
}

// NewCSVWithSchema skips inference and trusts the given schema, which is the
// only way to get non-nullable fields.
func NewCSVWithSchema(
	path string,
	schema types.Schema,
	config *CSVConfig,
) (*CSV, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	return &CSV{
		path:   path,
		schema: schema,
		config: config.normalize(),
	}, nil
}

func (self *CSV) Path() string { return self.path }

func (self *CSV) Config() CSVConfig { return self.config }

func (self *CSV) Schema() types.Schema { return self.schema }

func (self *CSV) Scan() BatchIterator {
	return newCSVIterator(self.path, self.schema, self.config.ChunkSize)
}

func validatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.DataSourceErrorf("file %q does not exist", path)
		}
		return types.WrapDataSourceError(err, "cannot stat %q", path)
	}
	if !info.Mode().IsRegular() {
		return types.DataSourceErrorf("%q is not a regular file", path)
	}

	ext := filepath.Ext(path)
	if ext == "" {
		return types.DataSourceErrorf("%q has no file extension", path)
	}
	if !strings.EqualFold(ext[1:], "csv") {
		return types.DataSourceErrorf("%q is not a csv file", path)
	}
	return nil
}

// splitLine breaks a line on commas and trims every cell.
func splitLine(line string) []string {
	cells := strings.Split(line, ",")
	for idx, c := range cells {
		cells[idx] = strings.TrimSpace(c)
	}
	return cells
}

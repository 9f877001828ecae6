package plan

import (
	"sort"

	"github.com/dianpeng/vektur/datasource"
	"github.com/dianpeng/vektur/types"
)

// Catalog maps table names to data sources. It only grows, and is not safe
// for concurrent registration.
type Catalog struct {
	tables map[string]datasource.DataSource
}

func NewCatalog() *Catalog {
	return &Catalog{
		tables: make(map[string]datasource.DataSource),
	}
}

func (self *Catalog) Register(name string, source datasource.DataSource) error {
	if name == "" {
		return types.ValidationErrorf("table name is empty")
	}
	if source == nil {
		return types.ValidationErrorf("table %q has no data source", name)
	}
	if _, ok := self.tables[name]; ok {
		return types.ValidationErrorf("table %q already registered", name)
	}
	self.tables[name] = source
	return nil
}

func (self *Catalog) Source(name string) (datasource.DataSource, bool) {
	s, ok := self.tables[name]
	return s, ok
}

func (self *Catalog) Schema(name string) (types.Schema, bool) {
	s, ok := self.tables[name]
	if !ok {
		return types.Schema{}, false
	}
	return s.Schema(), true
}

func (self *Catalog) Tables() []string {
	out := make([]string, 0, len(self.tables))
	for n := range self.tables {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

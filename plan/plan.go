package plan

import (
	"fmt"
	"strings"

	"github.com/dianpeng/vektur/types"
)

const (
	PlanScan = iota
	PlanFilter
	PlanProjection
)

// LogicalPlan is a node of the plan tree. Every node owns its input subtree,
// nothing is shared, and nodes are not mutated after construction.
type LogicalPlan interface {
	Type() int
	Schema() types.Schema
	Inputs() []LogicalPlan
	String() string
}

// Scan reads a registered table. Projection always lists the selected field
// names explicitly, a full scan lists all of them in schema order.
type Scan struct {
	Table      string       // catalog name
	Path       string       // file behind the table, empty if not file backed
	Source     types.Schema // schema of the data source
	Projection []string
}

type Filter struct {
	Input     LogicalPlan
	Predicate Expr
}

type Projection struct {
	Input   LogicalPlan
	Columns []Expr
	schema  types.Schema
}

func (self *Scan) Type() int       { return PlanScan }
func (self *Filter) Type() int     { return PlanFilter }
func (self *Projection) Type() int { return PlanProjection }

func (self *Scan) Inputs() []LogicalPlan       { return nil }
func (self *Filter) Inputs() []LogicalPlan     { return []LogicalPlan{self.Input} }
func (self *Projection) Inputs() []LogicalPlan { return []LogicalPlan{self.Input} }

// Schema of a scan keeps the source's nullability, it only narrows and
// reorders the fields. Unknown names are skipped, a repeated name keeps its
// first position.
func (self *Scan) Schema() types.Schema {
	fields := make([]types.Field, 0, len(self.Projection))
	seen := map[string]bool{}
	for _, n := range self.Projection {
		if seen[n] {
			continue
		}
		if f, ok := self.Source.Lookup(n); ok {
			seen[n] = true
			fields = append(fields, f)
		}
	}
	return types.MustSchema(fields...)
}

func (self *Filter) Schema() types.Schema { return self.Input.Schema() }

func (self *Projection) Schema() types.Schema { return self.schema }

// IsFullScan is true when the scan selects every source field in order.
func (self *Scan) IsFullScan() bool {
	if len(self.Projection) != self.Source.Len() {
		return false
	}
	for idx, n := range self.Projection {
		if self.Source.Field(idx).Name != n {
			return false
		}
	}
	return true
}

func (self *Scan) String() string {
	if self.IsFullScan() {
		return fmt.Sprintf("Scan[%s]", self.Table)
	}
	return fmt.Sprintf("Scan[%s: %s]", self.Table, strings.Join(self.Projection, ", "))
}

func (self *Filter) String() string {
	return fmt.Sprintf("Filter[%s]", self.Predicate)
}

func (self *Projection) String() string {
	l := make([]string, 0, len(self.Columns))
	for _, c := range self.Columns {
		l = append(l, c.String())
	}
	return fmt.Sprintf("Projection[%s]", strings.Join(l, ", "))
}

// projectionField names the output field of a projected expression.
func projectionField(e Expr, schema types.Schema) (types.Field, error) {
	ty, err := e.DataType(schema)
	if err != nil {
		return types.Field{}, err
	}
	return types.Field{
		Name:     e.String(),
		Type:     ty,
		Nullable: true,
	}, nil
}

// newProjection validates every column against the input schema and derives
// the output schema.
func newProjection(input LogicalPlan, columns []Expr) (*Projection, error) {
	schema := input.Schema()
	fields := make([]types.Field, 0, len(columns))

	for _, c := range columns {
		if err := c.Validate(schema); err != nil {
			return nil, err
		}
		f, err := projectionField(c, schema)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	out, err := types.NewSchema(fields...)
	if err != nil {
		return nil, err
	}
	return &Projection{
		Input:   input,
		Columns: columns,
		schema:  out,
	}, nil
}

// Walk visits the plan tree root first. The depth of the root is 0.
func Walk(p LogicalPlan, fn func(LogicalPlan, int)) {
	walk(p, 0, fn)
}

func walk(p LogicalPlan, depth int, fn func(LogicalPlan, int)) {
	fn(p, depth)
	for _, in := range p.Inputs() {
		walk(in, depth+1, fn)
	}
}

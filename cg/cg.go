package cg

import (
	"fmt"

	gawkp "github.com/benhoyt/goawk/parser"
	"github.com/dianpeng/vektur/plan"
	"github.com/dianpeng/vektur/types"
)

const defOutputSeparator = ","

type Config struct {
	OutputSeparator string // separator between output columns, default ","
	Header          bool   // print the output column names first
}

// Generate turns a plan into an AWK program that reads the scanned CSV file
// and prints the rows the plan selects. The returned program has been parsed
// by goawk, running it is up to the caller.
func Generate(p plan.LogicalPlan, config *Config) (string, error) {
	g := &queryCodeGen{
		OutputSeparator: defOutputSeparator,
		query:           p,
	}
	if config != nil {
		if config.OutputSeparator != "" {
			g.OutputSeparator = config.OutputSeparator
		}
		g.header = config.Header
	}
	return g.Gen()
}

// column is how a named column of the current level reads in AWK: its value
// and a condition that is true when the column is NULL.
type column struct {
	ty   types.DataType
	code string
	null string
}

type env map[string]column

// queryCodeGen walks the plan from the scan up. Each level rebinds the
// column names to AWK code, so a filter above a projection sees the
// projected expressions and not the raw fields.
type queryCodeGen struct {
	OutputSeparator string
	query           plan.LogicalPlan
	header          bool

	scan    *plan.Scan
	filter  []string
	columns env
	schema  types.Schema
}

func (self *queryCodeGen) Gen() (string, error) {
	if self.query == nil {
		return "", fmt.Errorf("stage(plan): empty plan")
	}
	if err := self.genNode(self.query); err != nil {
		return "", err
	}

	code, err := self.genTableScan()
	if err != nil {
		return "", err
	}

	if _, err := gawkp.ParseProgram([]byte(code), nil); err != nil {
		return "", fmt.Errorf("stage(validate): %s", err)
	}
	return code, nil
}

func (self *queryCodeGen) genNode(p plan.LogicalPlan) error {
	switch p.Type() {
	case plan.PlanScan:
		return self.genScan(p.(*plan.Scan))

	case plan.PlanFilter:
		f := p.(*plan.Filter)
		if err := self.genNode(f.Input); err != nil {
			return err
		}
		pred, err := self.genPredicate(f.Predicate)
		if err != nil {
			return fmt.Errorf("stage(filter): %s", err)
		}
		self.filter = append(self.filter, pred)
		return nil

	case plan.PlanProjection:
		x := p.(*plan.Projection)
		if err := self.genNode(x.Input); err != nil {
			return err
		}
		return self.genProjection(x)

	default:
		return fmt.Errorf("stage(plan): unknown plan node %s", p)
	}
}

func (self *queryCodeGen) genScan(s *plan.Scan) error {
	if s.Path == "" {
		return fmt.Errorf("stage(scan): table %q is not backed by a file", s.Table)
	}
	self.scan = s
	self.columns = make(env)

	for _, name := range s.Projection {
		idx := s.Source.IndexOf(name)
		if idx < 0 {
			return fmt.Errorf("stage(scan): column %q not in table %q", name, s.Table)
		}
		self.columns[name] = fieldColumn(idx+1, s.Source.Field(idx).Type)
	}
	self.schema = s.Schema()
	return nil
}

func (self *queryCodeGen) genProjection(p *plan.Projection) error {
	next := make(env)
	schema := p.Schema()

	for idx, e := range p.Columns {
		c, err := self.genColumn(e)
		if err != nil {
			return fmt.Errorf("stage(projection): %s", err)
		}
		next[schema.Field(idx).Name] = c
	}
	self.columns = next
	self.schema = schema
	return nil
}

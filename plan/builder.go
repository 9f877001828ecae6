package plan

import (
	"github.com/dianpeng/vektur/types"
)

// PlanBuilder builds a validated plan one step at a time. Every step returns
// a new builder, a failed step returns the receiver unchanged along with the
// error, so the caller can report it and carry on from the previous state.
//
//	p, err := NewPlanBuilder(catalog).Scan("students")
//	p, err = p.Filter(NewBinary(NewColumn("IsVerified", types.Bool), OpEq, ...))
//	p, err = p.Project("Name", "Email")
//	plan, err := p.Build()
type PlanBuilder struct {
	catalog *Catalog
	plan    LogicalPlan
	schema  types.Schema
}

func NewPlanBuilder(catalog *Catalog) PlanBuilder {
	return PlanBuilder{
		catalog: catalog,
	}
}

// pathSource is implemented by file backed data sources.
type pathSource interface {
	Path() string
}

func (self PlanBuilder) Scan(table string) (PlanBuilder, error) {
	if self.catalog == nil {
		return self, types.ValidationErrorf("table not found: %q", table)
	}
	source, ok := self.catalog.Source(table)
	if !ok {
		return self, types.ValidationErrorf("table not found: %q", table)
	}

	schema := source.Schema()
	scan := &Scan{
		Table:      table,
		Source:     schema,
		Projection: schema.Names(),
	}
	if ps, ok := source.(pathSource); ok {
		scan.Path = ps.Path()
	}

	return PlanBuilder{
		catalog: self.catalog,
		plan:    scan,
		schema:  schema,
	}, nil
}

func (self PlanBuilder) Filter(predicate Expr) (PlanBuilder, error) {
	if self.plan == nil {
		return self, types.ValidationErrorf("no current plan")
	}
	if predicate == nil {
		return self, types.ValidationErrorf("unsupported expression type: empty predicate")
	}
	if err := predicate.Validate(self.schema); err != nil {
		return self, err
	}

	switch predicate.Type() {
	case ExprBinary, ExprUnary:
		break
	default:
		return self, types.ValidationErrorf(
			"unsupported expression type: %s cannot be used as a predicate",
			predicate,
		)
	}

	ty, err := predicate.DataType(self.schema)
	if err != nil {
		return self, err
	}
	if ty != types.Bool {
		return self, types.ValidationErrorf(
			"predicate %s has type %s, expected Bool",
			predicate,
			ty,
		)
	}

	return PlanBuilder{
		catalog: self.catalog,
		plan: &Filter{
			Input:     self.plan,
			Predicate: predicate,
		},
		schema: self.schema,
	}, nil
}

// Project narrows the current plan to the named columns.
func (self PlanBuilder) Project(names ...string) (PlanBuilder, error) {
	if self.plan == nil {
		return self, types.ValidationErrorf("no current plan")
	}

	columns := make([]Expr, 0, len(names))
	for _, n := range names {
		f, ok := self.schema.Lookup(n)
		if !ok {
			return self, types.ValidationErrorf("column not found: %q", n)
		}
		columns = append(columns, NewColumn(f.Name, f.Type))
	}
	return self.project(columns)
}

// ProjectExprs wraps the current plan with arbitrary expressions. A column
// keeps its name in the output schema, any other expression is named by its
// printed form.
func (self PlanBuilder) ProjectExprs(exprs ...Expr) (PlanBuilder, error) {
	if self.plan == nil {
		return self, types.ValidationErrorf("no current plan")
	}
	return self.project(exprs)
}

func (self PlanBuilder) project(columns []Expr) (PlanBuilder, error) {
	p, err := newProjection(self.plan, columns)
	if err != nil {
		return self, err
	}
	return PlanBuilder{
		catalog: self.catalog,
		plan:    p,
		schema:  p.Schema(),
	}, nil
}

func (self PlanBuilder) Build() (LogicalPlan, error) {
	if self.plan == nil {
		return nil, types.ValidationErrorf("failed to build logical plan: no current plan")
	}
	return self.plan, nil
}

func (self PlanBuilder) Schema() types.Schema { return self.schema }

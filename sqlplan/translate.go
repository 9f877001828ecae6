package sqlplan

import (
	"strconv"
	"strings"

	"github.com/dianpeng/vektur/plan"
	"github.com/dianpeng/vektur/types"
	"github.com/xwb1989/sqlparser"
)

// PlanSQL parses the script and plans every statement in it.
func PlanSQL(text string, catalog *plan.Catalog) ([]plan.LogicalPlan, error) {
	stmts, err := Parse(text)
	if err != nil {
		return nil, err
	}
	out := make([]plan.LogicalPlan, 0, len(stmts))
	for _, s := range stmts {
		p, err := PlanStatement(s, catalog)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// PlanStatement translates a parsed statement of the form
//
//	SELECT <list> FROM <table> [WHERE <predicate>]
//
// into a logical plan, through the PlanBuilder so that the result has passed
// exactly the checks a hand built plan does.
func PlanStatement(
	stmt sqlparser.Statement,
	catalog *plan.Catalog,
) (plan.LogicalPlan, error) {
	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, types.ValidationErrorf(
			"unsupported statement: %s",
			sqlparser.String(stmt),
		)
	}
	if err := checkSelect(sel); err != nil {
		return nil, err
	}

	table, alias, err := tableName(sel.From)
	if err != nil {
		return nil, err
	}

	builder, err := plan.NewPlanBuilder(catalog).Scan(table)
	if err != nil {
		return nil, err
	}

	t := &translator{
		table:  table,
		alias:  alias,
		schema: builder.Schema(),
	}

	if sel.Where != nil && sel.Where.Expr != nil {
		pred, err := t.expr(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		if builder, err = builder.Filter(pred); err != nil {
			return nil, err
		}
	}

	columns, err := t.selectList(sel.SelectExprs)
	if err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		if builder, err = builder.ProjectExprs(columns...); err != nil {
			return nil, err
		}
	}

	return builder.Build()
}

func checkSelect(sel *sqlparser.Select) error {
	unsupported := func(clause string) error {
		return types.ValidationErrorf("unsupported statement: %s is not supported", clause)
	}
	switch {
	case sel.Distinct != "":
		return unsupported("DISTINCT")
	case len(sel.GroupBy) > 0:
		return unsupported("GROUP BY")
	case sel.Having != nil && sel.Having.Expr != nil:
		return unsupported("HAVING")
	case len(sel.OrderBy) > 0:
		return unsupported("ORDER BY")
	case sel.Limit != nil:
		return unsupported("LIMIT")
	case sel.Lock != "":
		return unsupported("locking read")
	}
	return nil
}

func onlySimpleTables() error {
	return types.ValidationErrorf("only simple table references supported")
}

// tableName returns the table of the FROM clause and its alias, if any.
func tableName(from sqlparser.TableExprs) (string, string, error) {
	if len(from) != 1 {
		return "", "", onlySimpleTables()
	}
	aliased, ok := from[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", "", onlySimpleTables()
	}
	name, ok := aliased.Expr.(sqlparser.TableName)
	if !ok || !name.Qualifier.IsEmpty() {
		return "", "", onlySimpleTables()
	}
	return strings.Trim(name.Name.String(), "`\"'"), aliased.As.String(), nil
}

type translator struct {
	table  string
	alias  string
	schema types.Schema
}

func (self *translator) selectList(list sqlparser.SelectExprs) ([]plan.Expr, error) {
	out := []plan.Expr{}
	for _, item := range list {
		switch v := item.(type) {
		case *sqlparser.StarExpr:
			if err := self.checkQualifier(v.TableName); err != nil {
				return nil, err
			}
			for _, f := range self.schema.Fields() {
				out = append(out, plan.NewColumn(f.Name, f.Type))
			}
			break

		case *sqlparser.AliasedExpr:
			e, err := self.expr(v.Expr)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
			break

		default:
			return nil, types.ValidationErrorf(
				"unsupported expression type: %s",
				sqlparser.String(item),
			)
		}
	}
	return out, nil
}

func (self *translator) checkQualifier(q sqlparser.TableName) error {
	if q.IsEmpty() {
		return nil
	}
	// an aliased table is only known by its alias
	visible := self.table
	if self.alias != "" {
		visible = self.alias
	}
	if !q.Qualifier.IsEmpty() || q.Name.String() != visible {
		return types.ValidationErrorf("unknown table qualifier %q", sqlparser.String(q))
	}
	return nil
}

func unsupportedExpr(e sqlparser.SQLNode) error {
	return types.ValidationErrorf("unsupported expression type: %s", sqlparser.String(e))
}

func (self *translator) expr(e sqlparser.Expr) (plan.Expr, error) {
	switch v := e.(type) {
	case *sqlparser.ParenExpr:
		return self.expr(v.Expr)

	case *sqlparser.ColName:
		if err := self.checkQualifier(v.Qualifier); err != nil {
			return nil, err
		}
		name := v.Name.String()
		f, ok := self.schema.Lookup(name)
		if !ok {
			return nil, types.ValidationErrorf("column not found: %q", name)
		}
		return plan.NewColumn(f.Name, f.Type), nil

	case *sqlparser.SQLVal:
		return literal(v)

	case sqlparser.BoolVal:
		return plan.NewLiteral(types.BoolValue(bool(v))), nil

	case *sqlparser.NullVal:
		return plan.NewLiteral(types.NullValue(types.String)), nil

	case *sqlparser.ComparisonExpr:
		op, ok := comparisonOp(v.Operator)
		if !ok {
			return nil, unsupportedExpr(v)
		}
		return self.binary(v.Left, op, v.Right)

	case *sqlparser.BinaryExpr:
		op, ok := arithmeticOp(v.Operator)
		if !ok {
			return nil, unsupportedExpr(v)
		}
		return self.binary(v.Left, op, v.Right)

	case *sqlparser.AndExpr:
		return self.binary(v.Left, plan.OpAnd, v.Right)

	case *sqlparser.OrExpr:
		return self.binary(v.Left, plan.OpOr, v.Right)

	case *sqlparser.NotExpr:
		return self.unary(plan.OpNot, v.Expr)

	case *sqlparser.UnaryExpr:
		switch v.Operator {
		case sqlparser.UMinusStr, sqlparser.UPlusStr:
			return self.unary(plan.OpNegate, v.Expr)
		case sqlparser.BangStr:
			return self.unary(plan.OpNot, v.Expr)
		}
		return nil, unsupportedExpr(v)

	case *sqlparser.IsExpr:
		switch v.Operator {
		case sqlparser.IsNullStr:
			return self.unary(plan.OpIsNull, v.Expr)
		case sqlparser.IsNotNullStr:
			return self.unary(plan.OpIsNotNull, v.Expr)
		}
		return nil, unsupportedExpr(v)

	default:
		return nil, unsupportedExpr(e)
	}
}

func (self *translator) unary(op plan.UnaryOperator, operand sqlparser.Expr) (plan.Expr, error) {
	x, err := self.expr(operand)
	if err != nil {
		return nil, err
	}
	return plan.NewUnary(op, x), nil
}

func (self *translator) binary(
	left sqlparser.Expr,
	op plan.Operator,
	right sqlparser.Expr,
) (plan.Expr, error) {
	l, err := self.expr(left)
	if err != nil {
		return nil, err
	}
	r, err := self.expr(right)
	if err != nil {
		return nil, err
	}
	l, r = self.retypeNull(l, r)
	return plan.NewBinary(l, op, r), nil
}

// retypeNull gives a NULL literal operand the type of the other operand, so
// that `Score = NULL` compares Float64 to Float64. Two NULLs stay String.
func (self *translator) retypeNull(l, r plan.Expr) (plan.Expr, plan.Expr) {
	lnull, rnull := isNullLiteral(l), isNullLiteral(r)
	switch {
	case lnull && !rnull:
		if ty, err := r.DataType(self.schema); err == nil {
			l = plan.NewLiteral(types.NullValue(ty))
		}
	case rnull && !lnull:
		if ty, err := l.DataType(self.schema); err == nil {
			r = plan.NewLiteral(types.NullValue(ty))
		}
	}
	return l, r
}

func isNullLiteral(e plan.Expr) bool {
	if e.Type() != plan.ExprLiteral {
		return false
	}
	return e.(*plan.Literal).Value.IsNull()
}

func literal(v *sqlparser.SQLVal) (plan.Expr, error) {
	text := string(v.Val)
	switch v.Type {
	case sqlparser.StrVal:
		return plan.NewLiteral(types.StringValue(text)), nil

	case sqlparser.IntVal, sqlparser.FloatVal:
		if v.Type == sqlparser.IntVal {
			if i, err := strconv.ParseInt(text, 10, 32); err == nil {
				return plan.NewLiteral(types.Int32Value(int32(i))), nil
			}
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return plan.NewLiteral(types.Float64Value(f)), nil
		}
		return nil, types.ValidationErrorf("invalid number: %s", text)

	default:
		return nil, unsupportedExpr(v)
	}
}

func comparisonOp(op string) (plan.Operator, bool) {
	switch op {
	case sqlparser.GreaterThanStr:
		return plan.OpGt, true
	case sqlparser.GreaterEqualStr:
		return plan.OpGtEq, true
	case sqlparser.LessThanStr:
		return plan.OpLt, true
	case sqlparser.LessEqualStr:
		return plan.OpLtEq, true
	case sqlparser.EqualStr:
		return plan.OpEq, true
	case sqlparser.NotEqualStr:
		return plan.OpNotEq, true
	default:
		return 0, false
	}
}

func arithmeticOp(op string) (plan.Operator, bool) {
	switch op {
	case sqlparser.PlusStr:
		return plan.OpAdd, true
	case sqlparser.MinusStr:
		return plan.OpSubtract, true
	case sqlparser.MultStr:
		return plan.OpMultiply, true
	case sqlparser.DivStr:
		return plan.OpDivide, true
	default:
		return 0, false
	}
}

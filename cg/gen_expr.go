package cg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dianpeng/vektur/plan"
	"github.com/dianpeng/vektur/types"
)

const (
	awkTrue  = "1"
	awkFalse = "0"
)

// fieldColumn reads field idx (1 based) of the current record. Cells are
// trimmed, an empty cell is NULL.
func fieldColumn(idx int, ty types.DataType) column {
	cell := fmt.Sprintf("trim($%d)", idx)
	c := column{
		ty:   ty,
		null: fmt.Sprintf("(%s == \"\")", cell),
	}
	switch ty {
	case types.Int32, types.Float64:
		c.code = fmt.Sprintf("(%s + 0)", cell)
		break
	case types.Bool:
		c.code = fmt.Sprintf("(tolower(%s) == \"true\")", cell)
		break
	default:
		c.code = cell
		break
	}
	return c
}

func awkString(s string) string {
	buf := strings.Builder{}
	buf.WriteString("\"")
	for _, r := range s {
		switch r {
		case '\\':
			buf.WriteString("\\\\")
		case '"':
			buf.WriteString("\\\"")
		case '\n':
			buf.WriteString("\\n")
		case '\t':
			buf.WriteString("\\t")
		case '\r':
			buf.WriteString("\\r")
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteString("\"")
	return buf.String()
}

func genConst(v types.ScalarValue) column {
	c := column{ty: v.Ty, null: awkFalse}
	if v.IsNull() {
		c.null = awkTrue
		if v.Ty == types.String {
			c.code = "\"\""
		} else {
			c.code = "0"
		}
		return c
	}

	switch v.Ty {
	case types.Int32:
		c.code = strconv.FormatInt(int64(v.Int), 10)
		break
	case types.Float64:
		c.code = strconv.FormatFloat(v.Real, 'g', -1, 64)
		break
	case types.Bool:
		if v.Bool {
			c.code = awkTrue
		} else {
			c.code = awkFalse
		}
		break
	default:
		c.code = awkString(v.Str)
		break
	}
	return c
}

func binaryOp(op plan.Operator) string {
	switch op {
	case plan.OpGt:
		return ">"
	case plan.OpGtEq:
		return ">="
	case plan.OpLt:
		return "<"
	case plan.OpLtEq:
		return "<="
	case plan.OpEq:
		return "=="
	case plan.OpNotEq:
		return "!="
	case plan.OpAdd:
		return "+"
	case plan.OpSubtract:
		return "-"
	case plan.OpMultiply:
		return "*"
	case plan.OpDivide:
		return "/"
	case plan.OpAnd:
		return "&&"
	case plan.OpOr:
		return "||"
	default:
		panic("unknown binary operator")
	}
}

// orNull joins two NULL conditions, folding the constant ones.
func orNull(l, r string) string {
	switch {
	case l == awkTrue || r == awkTrue:
		return awkTrue
	case l == awkFalse:
		return r
	case r == awkFalse:
		return l
	default:
		return fmt.Sprintf("(%s || %s)", l, r)
	}
}

func (self *queryCodeGen) genColumn(e plan.Expr) (column, error) {
	ty, err := e.DataType(self.schema)
	if err != nil {
		return column{}, err
	}

	switch e.Type() {
	case plan.ExprColumn:
		x := e.(*plan.Column)
		c, ok := self.columns[x.Name]
		if !ok {
			return column{}, fmt.Errorf("column %q is not visible here", x.Name)
		}
		return c, nil

	case plan.ExprLiteral:
		return genConst(e.(*plan.Literal).Value), nil

	case plan.ExprBinary:
		return self.genBinary(e.(*plan.Binary), ty)

	case plan.ExprUnary:
		return self.genUnary(e.(*plan.Unary), ty)

	default:
		return column{}, fmt.Errorf("unknown expression %s", e)
	}
}

// knownTrue holds when the Bool column is not NULL and true.
func knownTrue(c column) string {
	switch c.null {
	case awkFalse:
		return c.code
	case awkTrue:
		return awkFalse
	default:
		return fmt.Sprintf("(!%s && %s)", c.null, c.code)
	}
}

// knownFalse holds when the Bool column is not NULL and false.
func knownFalse(c column) string {
	switch c.null {
	case awkFalse:
		return fmt.Sprintf("(!%s)", c.code)
	case awkTrue:
		return awkFalse
	default:
		return fmt.Sprintf("(!%s && !%s)", c.null, c.code)
	}
}

// zeroDivisor is the NULL condition a divisor adds, folded for literals.
func zeroDivisor(r column) string {
	if r.null == awkFalse {
		if v, err := strconv.ParseFloat(r.code, 64); err == nil {
			if v == 0 {
				return awkTrue
			}
			return awkFalse
		}
	}
	return fmt.Sprintf("(%s == 0)", r.code)
}

func (self *queryCodeGen) genBinary(b *plan.Binary, ty types.DataType) (column, error) {
	l, err := self.genColumn(b.L)
	if err != nil {
		return column{}, err
	}
	r, err := self.genColumn(b.R)
	if err != nil {
		return column{}, err
	}

	out := column{ty: ty, null: orNull(l.null, r.null)}

	switch {
	case b.Op == plan.OpDivide:
		// x / 0 is NULL
		zero := zeroDivisor(r)
		out.null = orNull(out.null, zero)
		div := fmt.Sprintf("%s / %s", l.code, r.code)
		if ty == types.Int32 {
			div = fmt.Sprintf("int(%s)", div)
		}
		switch zero {
		case awkFalse:
			out.code = fmt.Sprintf("(%s)", div)
		case awkTrue:
			out.code = "0"
		default:
			out.code = fmt.Sprintf("(%s ? 0 : %s)", zero, div)
		}
		break

	case b.Op == plan.OpAnd:
		// false wins over NULL, NULL wins over true
		out.code = fmt.Sprintf("(%s && %s)", knownTrue(l), knownTrue(r))
		if out.null != awkFalse {
			out.null = fmt.Sprintf("(!(%s || %s) && %s)", knownFalse(l), knownFalse(r), out.null)
		}
		break

	case b.Op == plan.OpOr:
		// true wins over NULL, NULL wins over false
		out.code = fmt.Sprintf("(%s || %s)", knownTrue(l), knownTrue(r))
		if out.null != awkFalse {
			out.null = fmt.Sprintf("(!%s && %s)", out.code, out.null)
		}
		break

	default:
		out.code = fmt.Sprintf("(%s %s %s)", l.code, binaryOp(b.Op), r.code)
		break
	}
	return out, nil
}

func (self *queryCodeGen) genUnary(u *plan.Unary, ty types.DataType) (column, error) {
	x, err := self.genColumn(u.Operand)
	if err != nil {
		return column{}, err
	}

	out := column{ty: ty, null: awkFalse}
	switch u.Op {
	case plan.OpNot:
		out.code = fmt.Sprintf("(!%s)", x.code)
		out.null = x.null
		break
	case plan.OpIsNull:
		out.code = x.null
		break
	case plan.OpIsNotNull:
		out.code = fmt.Sprintf("(!%s)", x.null)
		break
	case plan.OpNegate:
		out.code = fmt.Sprintf("(-%s)", x.code)
		out.null = x.null
		break
	default:
		return column{}, fmt.Errorf("unknown unary operator %s", u.Op)
	}
	return out, nil
}

// genPredicate keeps a row only when the predicate is true, a NULL result
// drops it like false does.
func (self *queryCodeGen) genPredicate(e plan.Expr) (string, error) {
	c, err := self.genColumn(e)
	if err != nil {
		return "", err
	}
	return knownTrue(c), nil
}

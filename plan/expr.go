package plan

import (
	"fmt"

	"github.com/dianpeng/vektur/types"
)

const (
	ExprColumn = iota
	ExprLiteral
	ExprBinary
	ExprUnary
)

type Operator int

const (
	OpGt Operator = iota
	OpGtEq
	OpLt
	OpLtEq
	OpEq
	OpNotEq
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpAnd
	OpOr
)

func (self Operator) String() string {
	switch self {
	case OpGt:
		return ">"
	case OpGtEq:
		return ">="
	case OpLt:
		return "<"
	case OpLtEq:
		return "<="
	case OpEq:
		return "="
	case OpNotEq:
		return "!="
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return fmt.Sprintf("Operator(%d)", int(self))
	}
}

func (self Operator) IsComparison() bool {
	return self >= OpGt && self <= OpNotEq
}

// IsOrdering is true for the comparisons that need an order, not just
// equality.
func (self Operator) IsOrdering() bool {
	return self >= OpGt && self <= OpLtEq
}

func (self Operator) IsArithmetic() bool {
	return self >= OpAdd && self <= OpDivide
}

func (self Operator) IsLogical() bool {
	return self == OpAnd || self == OpOr
}

type UnaryOperator int

const (
	OpNot UnaryOperator = iota
	OpIsNull
	OpIsNotNull
	OpNegate
)

func (self UnaryOperator) String() string {
	switch self {
	case OpNot:
		return "NOT"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	case OpNegate:
		return "-"
	default:
		return fmt.Sprintf("UnaryOperator(%d)", int(self))
	}
}

// Expr is a typed expression tree used by filters and projections. Every
// node owns its children.
type Expr interface {
	Type() int

	// DataType computes the result type. A Column reports its own declared
	// type without consulting the schema; Validate is what cross checks it.
	DataType(schema types.Schema) (types.DataType, error)

	// Validate checks the whole tree against the schema.
	Validate(schema types.Schema) error

	String() string
}

type Column struct {
	Name string
	Ty   types.DataType
}

type Literal struct {
	Value types.ScalarValue
}

type Binary struct {
	L  Expr
	R  Expr
	Op Operator
}

type Unary struct {
	Operand Expr
	Op      UnaryOperator
}

func NewColumn(name string, ty types.DataType) *Column {
	return &Column{Name: name, Ty: ty}
}

func NewLiteral(v types.ScalarValue) *Literal {
	return &Literal{Value: v}
}

func NewBinary(l Expr, op Operator, r Expr) *Binary {
	return &Binary{L: l, R: r, Op: op}
}

func NewUnary(op UnaryOperator, operand Expr) *Unary {
	return &Unary{Operand: operand, Op: op}
}

func (self *Column) Type() int  { return ExprColumn }
func (self *Literal) Type() int { return ExprLiteral }
func (self *Binary) Type() int  { return ExprBinary }
func (self *Unary) Type() int   { return ExprUnary }

// ----------------------------------------------------------------------------
// Type checking
// ----------------------------------------------------------------------------

func (self *Column) DataType(_ types.Schema) (types.DataType, error) {
	return self.Ty, nil
}

func (self *Literal) DataType(_ types.Schema) (types.DataType, error) {
	return self.Value.Ty, nil
}

func (self *Binary) DataType(schema types.Schema) (types.DataType, error) {
	l, err := self.L.DataType(schema)
	if err != nil {
		return 0, err
	}
	r, err := self.R.DataType(schema)
	if err != nil {
		return 0, err
	}
	return binaryResultType(self.Op, l, r)
}

func (self *Unary) DataType(schema types.Schema) (types.DataType, error) {
	t, err := self.Operand.DataType(schema)
	if err != nil {
		return 0, err
	}
	return unaryResultType(self.Op, t)
}

func operatorMismatch(op fmt.Stringer, l, r types.DataType) error {
	return types.ValidationErrorf(
		"type mismatch: operator '%s' cannot be applied to %s and %s",
		op,
		l,
		r,
	)
}

// comparableTypes reports whether two types may be compared with op: any mix of
// numeric types, or two identical non-numeric types. Bool has no order, so
// only equality applies to it.
func comparableTypes(op Operator, l, r types.DataType) bool {
	if l.IsNumeric() && r.IsNumeric() {
		return true
	}
	if l != r {
		return false
	}
	if l == types.Bool && op.IsOrdering() {
		return false
	}
	return l == types.String || l == types.Bool
}

func binaryResultType(op Operator, l, r types.DataType) (types.DataType, error) {
	switch {
	case op.IsComparison():
		if !comparableTypes(op, l, r) {
			return 0, operatorMismatch(op, l, r)
		}
		return types.Bool, nil

	case op.IsArithmetic():
		if !l.IsNumeric() || !r.IsNumeric() {
			return 0, operatorMismatch(op, l, r)
		}
		if l == types.Float64 || r == types.Float64 {
			return types.Float64, nil
		}
		return types.Int32, nil

	case op.IsLogical():
		if l != types.Bool || r != types.Bool {
			return 0, operatorMismatch(op, l, r)
		}
		return types.Bool, nil

	default:
		return 0, types.ValidationErrorf("unknown operator %s", op)
	}
}

func unaryResultType(op UnaryOperator, t types.DataType) (types.DataType, error) {
	switch op {
	case OpNot:
		if t != types.Bool {
			return 0, types.ValidationErrorf(
				"type mismatch: operator '%s' requires Bool, got %s", op, t,
			)
		}
		return types.Bool, nil

	case OpIsNull, OpIsNotNull:
		return types.Bool, nil

	case OpNegate:
		if !t.IsNumeric() {
			return 0, types.ValidationErrorf(
				"type mismatch: operator '%s' requires a numeric operand, got %s", op, t,
			)
		}
		return t, nil

	default:
		return 0, types.ValidationErrorf("unknown unary operator %s", op)
	}
}

// ----------------------------------------------------------------------------
// Validation
// ----------------------------------------------------------------------------

func (self *Column) Validate(schema types.Schema) error {
	f, ok := schema.Lookup(self.Name)
	if !ok {
		return types.ValidationErrorf("column not found: %q", self.Name)
	}
	if f.Type != self.Ty {
		return &types.TypeMismatchError{
			Column:   self.Name,
			Expected: f.Type.String(),
			Actual:   self.Ty.String(),
		}
	}
	return nil
}

func (self *Literal) Validate(_ types.Schema) error { return nil }

func (self *Binary) Validate(schema types.Schema) error {
	if err := self.L.Validate(schema); err != nil {
		return err
	}
	if err := self.R.Validate(schema); err != nil {
		return err
	}
	_, err := self.DataType(schema)
	return err
}

func (self *Unary) Validate(schema types.Schema) error {
	if err := self.Operand.Validate(schema); err != nil {
		return err
	}
	_, err := self.DataType(schema)
	return err
}

// ----------------------------------------------------------------------------
// Printing
// ----------------------------------------------------------------------------

func (self *Column) String() string  { return self.Name }
func (self *Literal) String() string { return self.Value.String() }

// operand wraps nested operator nodes in parenthesis so the printed form
// keeps the tree's grouping.
func operand(e Expr) string {
	switch e.Type() {
	case ExprBinary:
		return "(" + e.String() + ")"
	case ExprUnary:
		if e.(*Unary).Op != OpNegate {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}

func (self *Binary) String() string {
	return fmt.Sprintf("%s %s %s", operand(self.L), self.Op, operand(self.R))
}

func (self *Unary) String() string {
	switch self.Op {
	case OpNot:
		return "NOT " + operand(self.Operand)
	case OpIsNull, OpIsNotNull:
		return operand(self.Operand) + " " + self.Op.String()
	default:
		return "-" + operand(self.Operand)
	}
}

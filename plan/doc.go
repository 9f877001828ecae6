package plan

// The following documentation describes how a query is represented once it
// has been planned.
//
// A plan is a tree, every node owns its input and nothing is shared. Only
// three kinds of node exist, and they always stack in the same direction,
// leaf first:
//
// 1) Scan
//    Reads a table registered in the Catalog. It carries the schema of the
//    data source and the list of field names it selects. A full scan lists
//    every field, in schema order, there is no separate "all columns" form.
//
// 2) Filter
//    Keeps the rows whose predicate evaluates to true. The predicate has to
//    be an operator node, a bare column or literal is rejected, and it has to
//    type check to Bool against the input schema. The output schema is the
//    input schema.
//
// 3) Projection
//    Computes the output columns. Each column is an expression validated
//    against the input schema, the output field is named after the column
//    or, for a computed expression, after its printed form. Every projected
//    field is nullable.
//
// Example, the query
//
//   SELECT Name, Email FROM students WHERE IsVerified = true
//
// is planned as
//
//   Projection[Name, Email]
//     Filter[IsVerified = true]
//       Scan[students]
//
// Plans are only ever produced by the PlanBuilder, either directly or
// through the SQL translator which drives the very same builder, so any plan
// in hand has already been type checked.
//
// Expression typing
//
//   - a column reports the type it was declared with, Validate is what
//     checks that declaration against the schema
//   - comparison needs two numeric operands, or two operands of the same
//     non numeric type, and yields Bool. Bool has no order, only = and !=
//   - arithmetic needs two numeric operands and yields Float64 if either
//     side is Float64, Int32 otherwise
//   - AND, OR and NOT need Bool, IS [NOT] NULL takes anything, negation
//     keeps the numeric type of its operand

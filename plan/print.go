package plan

import (
	"fmt"
	"strings"

	"github.com/dianpeng/vektur/types"
	"github.com/fatih/color"
)

// Printing the plan out, for testing, debugging, explain output etc ...

const printIndent = "  "

// Print renders the tree root first, one node per line, each level indented
// by two more spaces than its parent.
func Print(p LogicalPlan) string {
	return printTree(p, func(n LogicalPlan) string { return n.String() })
}

func nodeColor(ty int) color.Attribute {
	switch ty {
	case PlanScan:
		return color.FgCyan
	case PlanFilter:
		return color.FgYellow
	case PlanProjection:
		return color.FgGreen
	default:
		return color.Reset
	}
}

func nodeName(ty int) string {
	switch ty {
	case PlanScan:
		return "Scan"
	case PlanFilter:
		return "Filter"
	case PlanProjection:
		return "Projection"
	default:
		return "Unknown"
	}
}

// PrintColor is Print with the node kinds highlighted. It prints plain text
// when color.NoColor is set.
func PrintColor(p LogicalPlan) string {
	return printTree(
		p,
		func(n LogicalPlan) string {
			name := nodeName(n.Type())
			cobj := color.New(nodeColor(n.Type()), color.Bold)
			return cobj.Sprint(name) + strings.TrimPrefix(n.String(), name)
		},
	)
}

func printTree(
	p LogicalPlan,
	label func(LogicalPlan) string,
) string {
	buf := &strings.Builder{}
	Walk(
		p,
		func(n LogicalPlan, depth int) {
			buf.WriteString(strings.Repeat(printIndent, depth))
			buf.WriteString(label(n))
			buf.WriteString("\n")
		},
	)
	return buf.String()
}

// PrintSchema renders one field per line, with its position.
func PrintSchema(s types.Schema) string {
	buf := &strings.Builder{}
	for idx, f := range s.Fields() {
		buf.WriteString(fmt.Sprintf("%d. %s\n", idx, f))
	}
	return buf.String()
}

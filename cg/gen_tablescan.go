package cg

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/dianpeng/vektur/types"
)

const tableScanTemplate = `# table {{.Table}}
{{.Builtin}}
BEGIN {
  FS = ","
  OFS = {{.OFS}}
  # the file can still be given on the command line
  if (ARGC < 2) {
    ARGV[1] = {{.Filename}}
    ARGC = 2
  }
{{- if .Header}}
  print {{.Header}}
{{- end}}
}

# header line of every input file
FNR == 1 {
  next
}

trim($0) == "" {
  next
}

{
{{- range .Filter}}
  if (!({{.}})) next
{{- end}}
{{- range $idx, $v := .Output}}
  out_{{$idx}} = {{$v}}
{{- end}}
  print {{.Print}}
}
`

func newtemplate(
	xx string,
) (*template.Template, error) {
	return template.New("[template]").Parse(xx)
}

// outputValue prints a column, NULL as an empty cell and Bool as true/false.
func outputValue(c column) string {
	value := c.code
	if c.ty == types.Bool {
		value = fmt.Sprintf("(%s ? \"true\" : \"false\")", c.code)
	}
	switch c.null {
	case awkFalse:
		return value
	case awkTrue:
		return "\"\""
	default:
		return fmt.Sprintf("(%s ? \"\" : %s)", c.null, value)
	}
}

// genOutput assigns every output column to its own variable first, which
// keeps comparisons out of the print statement where '>' is a redirection.
func (self *queryCodeGen) genOutput() ([]string, string) {
	value := []string{}
	vars := []string{}
	for idx, name := range self.schema.Names() {
		value = append(value, outputValue(self.columns[name]))
		vars = append(vars, fmt.Sprintf("out_%d", idx))
	}
	return value, strings.Join(vars, ", ")
}

func (self *queryCodeGen) genHeader() string {
	if !self.header {
		return ""
	}
	l := []string{}
	for _, name := range self.schema.Names() {
		l = append(l, awkString(name))
	}
	return strings.Join(l, ", ")
}

func (self *queryCodeGen) genTableScan() (string, error) {
	if self.scan == nil {
		return "", fmt.Errorf("stage(scan): plan has no scan")
	}
	if self.schema.Len() == 0 {
		return "", fmt.Errorf("stage(output): plan has no output column")
	}

	t, err := newtemplate(
		tableScanTemplate,
	)
	if err != nil {
		panic("codegen(TableScan): invalid template?")
	}

	value, vars := self.genOutput()
	out := &strings.Builder{}
	if err := t.Execute(out, map[string]interface{}{
		"Table":    self.scan.Table,
		"Builtin":  builtinAWK,
		"Filename": awkString(self.scan.Path),
		"OFS":      awkString(self.OutputSeparator),
		"Header":   self.genHeader(),
		"Filter":   self.filter,
		"Output":   value,
		"Print":    vars,
	}); err != nil {
		return "", fmt.Errorf("stage(scan): %s", err)
	}
	return out.String(), nil
}

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dianpeng/vektur/cg"
	"github.com/dianpeng/vektur/datasource"
	"github.com/dianpeng/vektur/plan"
	"github.com/dianpeng/vektur/sqlplan"
	"github.com/dianpeng/vektur/types"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var fFile = flag.String(
	"file",
	"",
	"path of the CSV file to load, required",
)

var fTable = flag.String(
	"table",
	"",
	"table name of the CSV file, default is the file name without extension",
)

var fQuery = flag.String(
	"query",
	"",
	"path of the SQL file, default read SQL from STDIN",
)

var fMode = flag.String(
	"mode",
	"explain",
	"what to do, one of explain|scan|awk|schema",
)

var fColor = flag.Bool(
	"color",
	false,
	"highlight the explain output",
)

var fChunk = flag.Int(
	"chunk",
	0,
	"lines per record batch when scanning, default 16",
)

var fSample = flag.Int(
	"sample",
	0,
	"data lines sampled for schema inference, default 100",
)

var fOutput = flag.String(
	"output",
	"",
	"specify path to save output file, default write to STDOUT",
)

var fVerbose = flag.Bool(
	"v",
	false,
	"print debug logs to STDERR",
)

func oops(stage string, err error) {
	fmt.Fprintf(os.Stderr, "ERROR [%s]]] %s\n", stage, err)
	os.Exit(-1)
}

func readQuery() string {
	var data []byte
	var err error
	if *fQuery == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*fQuery)
	}
	if err != nil {
		oops("read sql", err)
	}
	return string(data)
}

func tableName() string {
	if *fTable != "" {
		return *fTable
	}
	base := filepath.Base(*fFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if *fVerbose {
		level = slog.LevelDebug
	}
	return slog.New(
		slog.NewTextHandler(
			os.Stderr,
			&slog.HandlerOptions{Level: level},
		),
	)
}

func planQuery(catalog *plan.Catalog, log *slog.Logger) []plan.LogicalPlan {
	text := readQuery()
	stmts, err := sqlplan.Parse(text)
	if err != nil {
		oops("parse", err)
	}
	log.Debug("parsed", "statements", len(stmts))

	out := []plan.LogicalPlan{}
	for idx, s := range stmts {
		p, err := sqlplan.PlanStatement(s, catalog)
		if err != nil {
			oops(fmt.Sprintf("plan #%d", idx+1), err)
		}
		out = append(out, p)
	}
	return out
}

func explain(w io.Writer, plans []plan.LogicalPlan) {
	if *fColor {
		color.NoColor = false
	}
	for idx, p := range plans {
		if idx > 0 {
			fmt.Fprintln(w)
		}
		if *fColor {
			fmt.Fprint(w, plan.PrintColor(p))
		} else {
			fmt.Fprint(w, plan.Print(p))
		}
	}
}

func awk(w io.Writer, plans []plan.LogicalPlan) {
	for idx, p := range plans {
		code, err := cg.Generate(
			p,
			&cg.Config{
				OutputSeparator: ",",
				Header:          true,
			},
		)
		if err != nil {
			oops(fmt.Sprintf("code-gen #%d", idx+1), err)
		}
		fmt.Fprintf(w, "%s\n", code)
	}
}

// scan dumps the table batch by batch. A bad batch is reported and skipped.
func scan(w io.Writer, source datasource.DataSource, log *slog.Logger) {
	schema := source.Schema()
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(schema.Names())

	it := source.Scan()
	defer it.Close()

	batches, rows, failed := 0, 0, 0
	for {
		b, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			failed++
			log.Warn("skip batch", "error", err)
			continue
		}
		batches++
		rows += b.NumRows()
		for r := 0; r < b.NumRows(); r++ {
			table.Append(rowText(b.Row(r)))
		}
	}
	table.Render()
	log.Info("scan done", "batches", batches, "rows", rows, "failed", failed)
}

func rowText(row []types.ScalarValue) []string {
	out := make([]string, 0, len(row))
	for _, v := range row {
		if v.IsNull() {
			out = append(out, "NULL")
		} else {
			out = append(out, v.Text())
		}
	}
	return out
}

func main() {
	flag.Parse()
	log := newLogger()

	if *fFile == "" {
		oops("flag", fmt.Errorf("-file is required"))
	}

	source, err := datasource.NewCSV(
		*fFile,
		&datasource.CSVConfig{
			ChunkSize:  *fChunk,
			SampleSize: *fSample,
		},
	)
	if err != nil {
		oops("load", err)
	}
	log.Debug("loaded", "file", *fFile, "schema", source.Schema().String())

	catalog := plan.NewCatalog()
	if err := catalog.Register(tableName(), source); err != nil {
		oops("register", err)
	}

	out := &strings.Builder{}
	var w io.Writer = os.Stdout
	if *fOutput != "" {
		w = out
	}

	switch *fMode {
	case "schema":
		fmt.Fprint(w, plan.PrintSchema(source.Schema()))
		break
	case "scan":
		scan(w, source, log)
		break
	case "explain":
		explain(w, planQuery(catalog, log))
		break
	case "awk":
		awk(w, planQuery(catalog, log))
		break
	default:
		oops("flag", fmt.Errorf("unknown mode %q", *fMode))
		break
	}

	if *fOutput != "" {
		if err := os.WriteFile(
			*fOutput,
			[]byte(out.String()),
			0644,
		); err != nil {
			oops("save", err)
		}
	}
	os.Exit(0)
}

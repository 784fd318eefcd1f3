package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(result Result) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	// headers are printed as scraped, not upper cased
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row(result.Header()))
	for _, row := range result.Body() {
		t.AppendRow(table.Row(row))
	}
	return t
}

type prettyOutput struct {
	out io.Writer
}

func (o prettyOutput) Write(_ string, result Result) error {
	t := newTable(result)
	t.SetOutputMirror(o.out)
	t.Render()
	return nil
}

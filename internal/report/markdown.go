package report

import (
	"io"

	"github.com/nao1215/markdown"
)

type markdownOutput struct {
	out io.Writer
}

func (o markdownOutput) Write(_ string, result Result) error {
	rows := make([][]string, len(result.Body()))
	for i, row := range result.Body() {
		rows[i] = row.Strings()
	}

	md := markdown.NewMarkdown(o.out)
	md.Table(markdown.TableSet{
		Header: result.Header().Strings(),
		Rows:   rows,
	})
	return md.Build()
}

package report

import (
	"fmt"
	"io"
	"strings"
)

// defaultOutput prints each row, header included, with cells separated by
// a space.
type defaultOutput struct {
	out io.Writer
}

func (o defaultOutput) Write(_ string, result Result) error {
	for _, row := range result {
		_, err := fmt.Fprintln(o.out, strings.Join(row.Strings(), " "))
		if err != nil {
			return err
		}
	}
	return nil
}

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"docsparser/internal/components/chrono"
	"docsparser/internal/components/telemetry"
)

// fileOutput writes the result as csv into `<dir>/<mode>_<timestamp>.csv`.
type fileOutput struct {
	dir  string
	time chrono.API
	tel  telemetry.API
}

func (o fileOutput) Write(parserMode string, result Result) error {
	err := os.MkdirAll(o.dir, 0755)
	if err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	path := filepath.Join(o.dir, fileName(parserMode, o.time.Now()))
	csv := newTable(result).RenderCSV()
	err = os.WriteFile(path, []byte(csv+"\n"), 0644)
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	o.tel.ReportInfo("results saved", path)
	return nil
}

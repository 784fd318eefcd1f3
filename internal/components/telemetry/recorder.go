package telemetry

import (
	"strings"
	"sync"
)

// Level is the kind of report a Recorder has captured.
type Level int

const (
	LevelBroken Level = iota
	LevelWarning
	LevelInfo
	LevelDebug
	LevelCount
)

// Report is a single call made against a Recorder.
type Report struct {
	Level  Level
	ID     string
	Params []any
	Count  int64
}

// Recorder implements API by keeping every report in memory, it is meant to
// be used in tests to assert that a component reports what it should.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) push(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push(Report{Level: LevelBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push(Report{Level: LevelWarning, ID: id, Params: params})
}

func (r *Recorder) ReportInfo(msg string, params ...any) {
	r.push(Report{Level: LevelInfo, ID: msg, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push(Report{Level: LevelDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push(Report{Level: LevelCount, ID: id, Count: count})
}

// Reports returns a copy of every report captured so far.
func (r *Recorder) Reports() []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Filter returns the reports of the given level whose id contains `id`.
func (r *Recorder) Filter(level Level, id string) []Report {
	var out []Report
	for _, report := range r.Reports() {
		if report.Level == level && strings.Contains(report.ID, id) {
			out = append(out, report)
		}
	}
	return out
}

package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// API is the interface long running loops report their progress through.
type API interface {
	// Start begins tracking a loop of `total` steps.
	Start(description string, total int) Tracker
}

// Tracker follows a single loop started with API.Start.
type Tracker interface {
	Step()
	Done()
}

// NoopImpl discards all progress.
type NoopImpl struct{}

func NewNoopImpl() NoopImpl {
	return NoopImpl{}
}

func (NoopImpl) Start(string, int) Tracker {
	return noopTracker{}
}

type noopTracker struct{}

func (noopTracker) Step() {}
func (noopTracker) Done() {}

// BarImpl draws a progress bar on a terminal.
type BarImpl struct {
	out io.Writer
}

func NewBarImpl(out io.Writer) BarImpl {
	return BarImpl{out: out}
}

func (b BarImpl) Start(description string, total int) Tracker {
	if total <= 0 {
		return noopTracker{}
	}
	return barTracker{bar: progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)}
}

type barTracker struct {
	bar *progressbar.ProgressBar
}

func (t barTracker) Step() {
	_ = t.bar.Add(1)
}

func (t barTracker) Done() {
	_ = t.bar.Finish()
}

package progress

import "sync"

// Loop is a loop seen by Recorder.
type Loop struct {
	Description string
	Total       int
	Steps       int
	Done        bool
}

// Recorder keeps every loop it was asked to track, for use in tests.
type Recorder struct {
	mu    sync.Mutex
	loops []*Loop
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Start(description string, total int) Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	loop := &Loop{Description: description, Total: total}
	r.loops = append(r.loops, loop)
	return recordedTracker{r: r, loop: loop}
}

// Loops returns a copy of the loops started so far.
func (r *Recorder) Loops() []Loop {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Loop, len(r.loops))
	for i, loop := range r.loops {
		out[i] = *loop
	}
	return out
}

type recordedTracker struct {
	r    *Recorder
	loop *Loop
}

func (t recordedTracker) Step() {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	t.loop.Steps++
}

func (t recordedTracker) Done() {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	t.loop.Done = true
}

package chrono

import "time"

// API is the interface that anything depending on the system clock should use.
type API interface {
	Now() time.Time
}

// StandardImpl is the implementation of API using the standard library.
type StandardImpl struct{}

func NewStandardImpl() StandardImpl {
	return StandardImpl{}
}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

// FixedImpl always returns the time it holds, Advance moves it forward.
type FixedImpl struct {
	now *time.Time
}

func NewFixedImpl(now time.Time) FixedImpl {
	return FixedImpl{now: &now}
}

func (f FixedImpl) Now() time.Time {
	return *f.now
}

func (f FixedImpl) Advance(d time.Duration) {
	*f.now = f.now.Add(d)
}

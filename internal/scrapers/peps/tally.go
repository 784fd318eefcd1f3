package peps

// Tally counts occurrences of strings, remembering the order in which each
// string was first seen.
type Tally struct {
	order  []string
	counts map[string]int
}

func NewTally() *Tally {
	return &Tally{counts: map[string]int{}}
}

func (t *Tally) Add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

func (t *Tally) Count(key string) int {
	return t.counts[key]
}

// Keys returns every key in first-seen order.
func (t *Tally) Keys() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Sum returns the total of all counts.
func (t *Tally) Sum() int {
	sum := 0
	for _, n := range t.counts {
		sum += n
	}
	return sum
}

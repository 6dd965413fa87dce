package logstream

import (
	"sync"

	"github.com/antifuchs/o"
)

const DefaultCapacity = 5000

// Buffer holds the most recent log lines up to a fixed capacity.
// Older lines are evicted once it is full.
type Buffer struct {
	mu      sync.RWMutex
	ring    o.Ring
	lines   []string
	dropped int
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		ring:  o.NewRing(uint(capacity)),
		lines: make([]string, capacity),
	}
}

// Append adds lines at the end, evicting the oldest when full.
func (b *Buffer) Append(lines ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range lines {
		b.pushLocked(line)
	}
}

// Replace swaps the whole content in one step.
func (b *Buffer) Replace(lines []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
	for _, line := range lines {
		b.pushLocked(line)
	}
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
}

// Lines returns a copy of the content, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, b.ring.Size())
	scanner := o.ScanFIFO(b.ring)
	for scanner.Next() {
		out = append(out, b.lines[scanner.Value()])
	}
	return out
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int(b.ring.Size())
}

// Dropped returns how many lines were evicted since the last clear.
func (b *Buffer) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

func (b *Buffer) Capacity() int {
	return int(b.ring.Capacity())
}

func (b *Buffer) pushLocked(line string) {
	if b.ring.Full() {
		if i, err := b.ring.Shift(); err == nil {
			b.lines[i] = ""
			b.dropped++
		}
	}
	i, err := b.ring.Push()
	if err != nil {
		return
	}
	b.lines[i] = line
}

func (b *Buffer) clearLocked() {
	for {
		i, err := b.ring.Shift()
		if err != nil {
			break
		}
		b.lines[i] = ""
	}
	b.dropped = 0
}

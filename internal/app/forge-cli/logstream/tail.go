package logstream

import (
	"strconv"
	"strings"
)

// TailInput is a tail size field whose edits only take effect on Commit.
type TailInput struct {
	committed int
	draft     string
}

func NewTailInput(n int) *TailInput {
	if n <= 0 {
		n = DefaultTail
	}
	return &TailInput{committed: n, draft: strconv.Itoa(n)}
}

// Edit replaces the draft text.
func (t *TailInput) Edit(text string) {
	t.draft = text
}

func (t *TailInput) Draft() string {
	return t.draft
}

// Value returns the last committed tail size.
func (t *TailInput) Value() int {
	return t.committed
}

// Commit applies the draft. Invalid or non-positive drafts revert to the committed value.
// changed is true only when a new valid value was committed.
func (t *TailInput) Commit() (value int, changed bool) {
	n, err := strconv.Atoi(strings.TrimSpace(t.draft))
	if err != nil || n <= 0 {
		t.draft = strconv.Itoa(t.committed)
		return t.committed, false
	}
	t.draft = strconv.Itoa(n)
	if n == t.committed {
		return n, false
	}
	t.committed = n
	return n, true
}

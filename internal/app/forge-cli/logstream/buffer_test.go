package logstream_test

import (
	"fmt"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/logstream"
)

func TestBufferEvictsOldest(t *testing.T) {
	buffer := logstream.NewBuffer(3)
	for i := range 5 {
		buffer.Append(fmt.Sprintf("line %d", i))
	}
	assert.DeepEqual(t, []string{"line 2", "line 3", "line 4"}, buffer.Lines())
	assert.Equal(t, 3, buffer.Len())
	assert.Equal(t, 2, buffer.Dropped())
}

func TestBufferReplaceAndClear(t *testing.T) {
	buffer := logstream.NewBuffer(10)
	buffer.Append("old 1", "old 2")

	buffer.Replace([]string{"new 1", "new 2", "new 3"})
	assert.DeepEqual(t, []string{"new 1", "new 2", "new 3"}, buffer.Lines())

	buffer.Clear()
	assert.Check(t, is.Len(buffer.Lines(), 0))
	assert.Equal(t, 0, buffer.Dropped())

	buffer.Append("after clear")
	assert.DeepEqual(t, []string{"after clear"}, buffer.Lines())
}

func TestBufferReplaceKeepsNewestWhenOverCapacity(t *testing.T) {
	buffer := logstream.NewBuffer(2)
	buffer.Replace([]string{"a", "b", "c"})
	assert.DeepEqual(t, []string{"b", "c"}, buffer.Lines())
}

func TestBufferDefaultCapacity(t *testing.T) {
	assert.Equal(t, logstream.DefaultCapacity, logstream.NewBuffer(0).Capacity())
}

package logstream_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/logstream"
)

func TestParserSplitAcrossChunks(t *testing.T) {
	t.Parallel()
	stream := "data: hello\ndata: world\n"
	for split := 1; split < len(stream); split++ {
		var parser logstream.Parser
		var got []string
		got = append(got, parser.Feed([]byte(stream[:split]))...)
		got = append(got, parser.Feed([]byte(stream[split:]))...)
		got = append(got, parser.Flush()...)
		assert.Equal(t, []string{"hello", "world"}, got, "split at %d", split)
	}
}

func TestParserByteAtATime(t *testing.T) {
	t.Parallel()
	lines, err := logstream.ReadAll(iotest.OneByteReader(strings.NewReader("data: héllo wörld\r\ndata: 🚀\n")))
	require.NoError(t, err)
	assert.Equal(t, []string{"héllo wörld", "🚀"}, lines)
}

func TestParseLine(t *testing.T) {
	t.Parallel()
	cases := []struct {
		line     string
		expected string
		ok       bool
	}{
		{"data: hello", "hello", true},
		{"data: hello\r", "hello", true},
		{"data:   indented", "  indented", true},
		{"data: ", "", false},
		{"data:    ", "", false},
		{"data:no-space", "", false},
		{"event: log", "", false},
		{"id: 42", "", false},
		{": keepalive", "", false},
		{"", "", false},
		{"  data: leading space", "", false},
	}
	for _, tc := range cases {
		got, ok := logstream.ParseLine(tc.line)
		assert.Equal(t, tc.ok, ok, "line %q", tc.line)
		assert.Equal(t, tc.expected, got, "line %q", tc.line)
	}
}

func TestParserTrailingLineAtEOF(t *testing.T) {
	t.Parallel()
	lines, err := logstream.ReadAll(strings.NewReader("data: one\n\ndata: two"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)
}

func TestParserReset(t *testing.T) {
	t.Parallel()
	var parser logstream.Parser
	assert.Empty(t, parser.Feed([]byte("data: partial")))
	parser.Reset()
	assert.Equal(t, []string{"fresh"}, parser.Feed([]byte("data: fresh\n")))
	assert.Empty(t, parser.Flush())
}

func TestRecordsStopsOnReadError(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("data: before\n"), iotest.ErrReader(boom))

	var lines []string
	var gotErr error
	for line, err := range logstream.Records(r) {
		if err != nil {
			gotErr = err
			continue
		}
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"before"}, lines)
	require.ErrorIs(t, gotErr, boom)

	_, err := logstream.ReadAll(io.MultiReader(strings.NewReader("data: x\n"), iotest.ErrReader(boom)))
	require.ErrorIs(t, err, boom)
}

func TestRecordsEarlyBreak(t *testing.T) {
	t.Parallel()
	var first string
	for line := range logstream.Records(strings.NewReader("data: a\ndata: b\ndata: c\n")) {
		first = line
		break
	}
	assert.Equal(t, "a", first)
}

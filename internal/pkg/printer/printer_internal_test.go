package printer

import (
	"bytes"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestTrimAndCountTrailingNewlines(t *testing.T) {
	cases := []struct {
		in    string
		out   string
		count int
	}{
		{"", "", 0},
		{"hello", "hello", 0},
		{"hello\n", "hello", 1},
		{"hello\n\n\n", "hello", 3},
		{"\n", "", 1},
	}
	for _, tc := range cases {
		got, count := trimAndCountTrailingNewlines(tc.in)
		assert.Equal(t, tc.out, got)
		assert.Equal(t, tc.count, count)
	}
}

func TestSetOutputRedirectsAndRestores(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	Infoln("deployments")
	Infof("%d groups\n", 2)
	SectionDivider("-", 3)
	restore()

	assert.Check(t, is.Contains(buf.String(), "deployments\n"))
	assert.Check(t, is.Contains(buf.String(), "2 groups\n"))
	assert.Check(t, is.Contains(buf.String(), "---\n"))
}

func TestSuccessfKeepsTrailingNewlines(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutput(&buf)()

	Successf("stopped %s\n\n", "dep-1")
	assert.Check(t, is.Contains(buf.String(), "stopped dep-1"))
	assert.Check(t, bytes.HasSuffix(buf.Bytes(), []byte("\n\n")))
}

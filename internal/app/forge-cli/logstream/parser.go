package logstream

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"
)

const (
	dataPrefix = "data: "
	readSize   = 4096
)

// Parser turns chunks of an event stream into log records. Only single-line "data: " frames
// are records; every other line is ignored. Partial lines are kept until their newline arrives.
type Parser struct {
	pending []byte
}

// Feed consumes a chunk and returns the records completed by it.
func (p *Parser) Feed(chunk []byte) []string {
	p.pending = append(p.pending, chunk...)
	var records []string
	for {
		i := bytes.IndexByte(p.pending, '\n')
		if i < 0 {
			break
		}
		if record, ok := ParseLine(string(p.pending[:i])); ok {
			records = append(records, record)
		}
		p.pending = p.pending[i+1:]
	}
	// keep the partial line in a fresh slice so the consumed prefix can be collected
	if len(p.pending) == 0 {
		p.pending = nil
	} else {
		p.pending = append([]byte(nil), p.pending...)
	}
	return records
}

// Flush parses a trailing unterminated line at end of stream.
func (p *Parser) Flush() []string {
	defer p.Reset()
	if len(p.pending) == 0 {
		return nil
	}
	if record, ok := ParseLine(string(p.pending)); ok {
		return []string{record}
	}
	return nil
}

// Reset drops any partial line.
func (p *Parser) Reset() {
	p.pending = nil
}

// ParseLine extracts the payload of a "data: " line. Blank payloads are not records.
func ParseLine(line string) (string, bool) {
	line = strings.TrimSuffix(line, "\r")
	payload, ok := strings.CutPrefix(line, dataPrefix)
	if !ok || strings.TrimSpace(payload) == "" {
		return "", false
	}
	return payload, true
}

// Records yields the records of r until it ends. A read error other than io.EOF is yielded
// once and ends the sequence. The sequence can be restarted on a new reader.
func Records(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var parser Parser
		buf := make([]byte, readSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				for _, record := range parser.Feed(buf[:n]) {
					if !yield(record, nil) {
						return
					}
				}
			}
			if errors.Is(err, io.EOF) {
				for _, record := range parser.Flush() {
					if !yield(record, nil) {
						return
					}
				}
				return
			}
			if err != nil {
				yield("", err)
				return
			}
		}
	}
}

// ReadAll drains r and returns every record.
func ReadAll(r io.Reader) ([]string, error) {
	lines := []string{}
	for line, err := range Records(r) {
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

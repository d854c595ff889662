package lex

import (
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stream is one entry in the tokenizer's input-stream stack (§4.9). Content
// is NFC-normalized once at push time so that match offsets and fullword
// boundary checks are stable regardless of how the source bytes were
// composed.
type stream struct {
	name    string
	content string
	pos     int
}

func newStream(name string, r io.Reader) (*stream, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &stream{name: name, content: norm.NFC.String(string(raw))}, nil
}

func (s *stream) atEnd() bool {
	return s.pos >= len(s.content)
}

func (s *stream) remaining() string {
	return s.content[s.pos:]
}

// lineCol computes the 1-indexed line and column of the stream's current
// position, for error reporting. It is O(pos) and only ever called on the
// error path.
func (s *stream) lineCol() (line, col int) {
	consumed := s.content[:s.pos]
	line = 1 + strings.Count(consumed, "\n")
	if idx := strings.LastIndexByte(consumed, '\n'); idx >= 0 {
		col = len(consumed) - idx
	} else {
		col = len(consumed) + 1
	}
	return line, col
}

package decode

import (
	"bufio"
	"fmt"
	"io"
)

// Token is one (tag, value) pair read from an EDIGEO thematic file.
//
// Value aliases the Scanner's internal buffer and is only valid until the
// next call to Next; callers that need to retain it must copy.
type Token struct {
	Tag   string
	Value []byte
}

// Scanner tokenizes an EDIGEO thematic file (THF/SCD/GEO/QAL/VEC) into a
// lazy sequence of (tag, value) records.
//
// Record framing (this package's own convention, not a byte-for-byte
// rendering of AFNOR NF Z 52000): each line opens with a 3-letter tag
// followed by a 4-digit decimal length, then exactly that many value
// bytes, then a line terminator. The scanner tolerates CRLF and bare LF,
// trailing whitespace around the value, and zero-length values.
type Scanner struct {
	r   *bufio.Reader
	buf []byte
	err error
}

// NewScanner wraps r for tokenization. r is read in full via a buffered
// reader; NewScanner does not take ownership of closing the underlying
// stream.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		r:   bufio.NewReaderSize(r, 4096),
		buf: make([]byte, 0, 512),
	}
}

// Next advances to the next record. It returns ok=false at clean EOF or
// once an error has been recorded (retrievable via Err).
func (s *Scanner) Next() (Token, bool, error) {
	if s.err != nil {
		return Token{}, false, nil
	}

	header := make([]byte, 7)
	n, err := io.ReadFull(s.r, header)
	if err == io.EOF && n == 0 {
		return Token{}, false, nil
	}
	if err != nil {
		s.err = fmt.Errorf("read record header: %w", err)
		return Token{}, false, s.err
	}

	tag := string(header[0:3])
	length, err := parseDecimal(header[3:7])
	if err != nil {
		s.err = fmt.Errorf("parse length for tag %q: %w", tag, err)
		return Token{}, false, s.err
	}

	s.buf = growBuf(s.buf, length)
	if length > 0 {
		if _, err := io.ReadFull(s.r, s.buf); err != nil {
			s.err = fmt.Errorf("read value for tag %q (len %d): %w", tag, length, err)
			return Token{}, false, s.err
		}
	}

	if err := s.consumeTerminator(); err != nil {
		s.err = err
		return Token{}, false, s.err
	}

	return Token{Tag: tag, Value: s.buf}, true, nil
}

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// consumeTerminator skips a trailing CR and/or LF, tolerating lines with
// neither (last record in a file) and pure whitespace padding.
func (s *Scanner) consumeTerminator() error {
	for {
		b, err := s.r.Peek(1)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("peek terminator: %w", err)
		}
		switch b[0] {
		case '\r', '\n', ' ', '\t':
			if _, err := s.r.Discard(1); err != nil {
				return fmt.Errorf("discard terminator byte: %w", err)
			}
		default:
			return nil
		}
	}
}

func growBuf(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

func parseDecimal(digits []byte) (int, error) {
	n := 0
	for _, d := range digits {
		if d == ' ' {
			continue
		}
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("invalid decimal digit %q", d)
		}
		n = n*10 + int(d-'0')
	}
	return n, nil
}

// Package source provides line sources for the slicing pipeline: plain or
// gzipped files, and external retrieval or filtering subprocesses.
package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineSource is an ordered, finite sequence of text lines scoped to a
// genomic region or whole file. Next returns io.EOF after the last line.
// Close must be safe to call mid-stream; the pipeline closes the source on
// every exit path, including early termination.
type LineSource interface {
	Next() (string, error)
	Close() error
}

// UnavailableError indicates the external retrieval or filter process could
// not be started or exited abnormally before producing its terminator.
type UnavailableError struct {
	Cmd string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Cmd, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ReaderSource adapts any io.Reader (stdin, a test buffer) to a LineSource.
type ReaderSource struct {
	reader *bufio.Reader
	closer io.Closer
}

// FromReader wraps r in a LineSource. If r implements io.Closer it is closed
// by Close.
func FromReader(r io.Reader) *ReaderSource {
	s := &ReaderSource{reader: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next returns the next line without its trailing newline.
func (s *ReaderSource) Next() (string, error) {
	return readLine(s.reader)
}

// Close closes the underlying reader if it is closable.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// readLine reads one line, stripping the line terminator. A final line
// without a newline is still returned; io.EOF follows on the next call.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line != "" {
				return strings.TrimRight(line, "\r\n"), nil
			}
			return "", io.EOF
		}
		return "", fmt.Errorf("read line: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

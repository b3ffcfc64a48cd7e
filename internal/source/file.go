package source

import (
	"bufio"
	"fmt"
	"os"

	"github.com/klauspost/compress/gzip"
)

// FileSource reads lines from a plain or gzipped file. Gzip is detected by
// magic bytes rather than extension; the multistream reader also handles
// block-gzipped (bgzip) files when the whole file is being decompressed.
type FileSource struct {
	file       *os.File
	gzipReader *gzip.Reader
	reader     *bufio.Reader
}

// Open opens the file at path. "-" means stdin.
func Open(path string) (LineSource, error) {
	if path == "-" {
		return FromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}

	s := &FileSource{file: file}

	// Check for gzip magic bytes, then seek back.
	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil {
		file.Close()
		return nil, fmt.Errorf("read source file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek source file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		s.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		s.reader = bufio.NewReader(s.gzipReader)
	} else {
		s.reader = bufio.NewReader(file)
	}

	return s, nil
}

// Next returns the next line without its trailing newline.
func (s *FileSource) Next() (string, error) {
	return readLine(s.reader)
}

// Close closes the gzip reader (if any) and the underlying file.
func (s *FileSource) Close() error {
	if s.gzipReader != nil {
		s.gzipReader.Close()
	}
	return s.file.Close()
}

package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// Default binaries for the external collaborators; overridable through
// configuration.
const (
	DefaultIndexBin  = "tabix"
	DefaultFilterBin = "filter_vep"
)

// execSource streams the stdout of an external process line by line. The
// process is reaped on normal EOF; Close kills it first, which makes
// mid-stream termination safe.
type execSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader
	stderr *bytes.Buffer
	name   string
	waited bool
	werr   error
}

// NewCommand starts bin with args and streams its stdout.
func NewCommand(ctx context.Context, bin string, args ...string) (LineSource, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &UnavailableError{Cmd: bin, Err: err}
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, &UnavailableError{Cmd: bin, Err: err}
	}

	return &execSource{
		cmd:    cmd,
		stdout: stdout,
		reader: bufio.NewReader(stdout),
		stderr: stderr,
		name:   bin,
	}, nil
}

// NewIndexed streams a region-scoped slice of an indexed compressed file
// through a tabix-style binary. Header comment lines are included.
func NewIndexed(ctx context.Context, bin, path, region string) (LineSource, error) {
	if bin == "" {
		bin = DefaultIndexBin
	}
	return NewCommand(ctx, bin, "-h", path, region)
}

// NewFilter streams the file through an external predicate program. The
// filter process is contracted to apply the same 1-based [from,to] data-row
// window the in-process gate would, so the pipeline bypasses its own gate
// when a filter is active.
func NewFilter(ctx context.Context, bin, path, filter string, from, to int64) (LineSource, error) {
	if bin == "" {
		bin = DefaultFilterBin
	}
	args := []string{"-i", path, "--filter", filter, "-o", "STDOUT", "--force_overwrite"}
	if from > 0 {
		args = append(args, "--start", strconv.FormatInt(from, 10))
	}
	if to > 0 {
		args = append(args, "--limit", strconv.FormatInt(to, 10))
	}
	return NewCommand(ctx, bin, args...)
}

// Next returns the next line of process output. At end of output the process
// is reaped; an abnormal exit surfaces as an UnavailableError.
func (s *execSource) Next() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line != "" {
				return strings.TrimRight(line, "\r\n"), nil
			}
			if werr := s.wait(); werr != nil {
				return "", werr
			}
			return "", io.EOF
		}
		return "", &UnavailableError{Cmd: s.name, Err: err}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close terminates the process if it is still running and reaps it.
func (s *execSource) Close() error {
	if s.waited {
		return nil
	}
	s.stdout.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.waited = true
	s.cmd.Wait()
	return nil
}

// wait reaps the process once and caches the result.
func (s *execSource) wait() error {
	if s.waited {
		return s.werr
	}
	s.waited = true
	if err := s.cmd.Wait(); err != nil {
		msg := strings.TrimSpace(s.stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		s.werr = &UnavailableError{Cmd: s.name, Err: err}
	}
	return s.werr
}

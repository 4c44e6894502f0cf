package console

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// LineReader reads one line of user input after showing prompt
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ScannerReader reads lines from a plain stream such as a pipe or a file
type ScannerReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewScannerReader reads lines from in and writes prompts to out
func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{sc: bufio.NewScanner(in), out: out}
}

// ReadLine returns io.EOF once in is exhausted
func (r *ScannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

// TerminalReader provides line editing and history on an interactive
// terminal. It also serves as the shell's output so that newlines are
// translated while the terminal is in raw mode.
type TerminalReader struct {
	fd    int
	state *term.State
	t     *term.Terminal
}

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewTerminalReader switches in to raw mode. Close restores it.
func NewTerminalReader(in *os.File, out io.Writer) (*TerminalReader, error) {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}

	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	return &TerminalReader{fd: fd, state: state, t: term.NewTerminal(rw, "")}, nil
}

// ReadLine returns io.EOF on Ctrl+D
func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	r.t.SetPrompt(prompt)
	return r.t.ReadLine()
}

func (r *TerminalReader) Write(p []byte) (int, error) {
	return r.t.Write(p)
}

// Close restores the terminal state
func (r *TerminalReader) Close() error {
	return term.Restore(r.fd, r.state)
}

package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio reads from a file, usually os.Stdin, and prompts to out
type Stdio struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewStdio creates an IO over in; prompts are written to out
func NewStdio(in *os.File, out io.Writer) *Stdio {
	return &Stdio{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// IsTerminal reports whether input comes from an interactive terminal
func (s *Stdio) IsTerminal() bool {
	return term.IsTerminal(int(s.in.Fd()))
}

// ReadInput читает строку
func (s *Stdio) ReadInput(prompt string) (string, error) {
	if s.IsTerminal() {
		_, _ = fmt.Fprint(s.out, prompt)
	}

	input, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadSecret reads a value without echo on a terminal. Piped input is read
// as a plain line, so a token can be passed with echo or a file.
func (s *Stdio) ReadSecret(prompt string) (string, error) {
	if !s.IsTerminal() {
		return s.ReadInput(prompt)
	}

	_, _ = fmt.Fprint(s.out, prompt)
	secret, err := term.ReadPassword(int(s.in.Fd()))
	_, _ = fmt.Fprintln(s.out) // перевод строки после скрытого ввода
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

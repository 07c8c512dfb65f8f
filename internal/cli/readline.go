// FILE: internal/cli/readline.go
package cli

import (
	"io"

	"github.com/chzyer/readline"
)

// ReadlineReader is a LineReader with line editing and history for
// interactive terminals. Ctrl-C and Ctrl-D both end input with io.EOF.
type ReadlineReader struct {
	rl *readline.Instance
}

// NewReadlineReader starts readline; historyFile may be empty
func NewReadlineReader(historyFile string) (*ReadlineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, err
	}
	return &ReadlineReader{rl: rl}, nil
}

func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	return line, err
}

func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}

// StdinReader picks readline when stdin is a terminal and a plain scanner
// otherwise. The returned close function is never nil.
func StdinReader(historyFile string, isTerminal bool, stdin io.Reader, stdout io.Writer) (LineReader, func() error, error) {
	if !isTerminal {
		return NewScannerReader(stdin, stdout), func() error { return nil }, nil
	}
	rl, err := NewReadlineReader(historyFile)
	if err != nil {
		return nil, nil, err
	}
	return rl, rl.Close, nil
}

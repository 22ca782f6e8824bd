package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Validator is implemented by input types that check themselves after
// decoding.
type Validator interface {
	Validate() error
}

// FileReader decodes a JSON value of type T from a --file flag or, when
// the flag is unset, from piped stdin. Reading from an interactive
// terminal is refused so a bare invocation fails fast instead of hanging.
type FileReader[T any] struct {
	path string
}

// Flag returns the --file flag wired to this reader. Register it on the
// command that calls Read.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		Destination: &fr.path,
	}
}

// Read decodes the input and, when T implements Validator, validates it.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	var r io.Reader
	switch {
	case fr.path != "":
		f, err := os.Open(fr.path)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	case term.IsTerminal(int(os.Stdin.Fd())):
		return input, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
	default:
		r = os.Stdin
	}

	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	if v, ok := any(input).(Validator); ok {
		if err := v.Validate(); err != nil {
			return input, err
		}
	}
	return input, nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// readCredentials returns the raw credential list from a file, the
// positional arguments, or stdin when the only argument is "-".
func readCredentials(file string, args []string, stdin io.Reader) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("use either --file or arguments, not both")
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read credentials: %w", err)
		}
		return string(b), nil
	case len(args) == 1 && args[0] == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read credentials from stdin: %w", err)
		}
		return string(b), nil
	case len(args) > 0:
		return strings.Join(args, "\n"), nil
	default:
		return "", errors.New("no credentials given: pass arguments, --file, or - for stdin")
	}
}

package console

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam; in tests replace it with a stub.
var readPassword = term.ReadPassword

// promptLine prints label and returns the next trimmed input line.
func (a *App) promptLine(label string) (string, error) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", errors.New("input closed")
	}
	return strings.TrimSpace(a.in.Text()), nil
}

// promptPassword reads a password without echo.
func (a *App) promptPassword(label string) (string, error) {
	fmt.Fprint(a.out, label)
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetTextOrDefault is GetSimpleText where an empty answer keeps current.
func GetTextOrDefault(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	v, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

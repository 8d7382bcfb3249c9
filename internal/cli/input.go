package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword so tests never touch a
// real terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single trimmed line. If EOF
// occurs after some input was read, the partial line is returned.
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

// GetOptionalDate reads a "YYYY-MM-DD" date, returning nil on empty input.
func GetOptionalDate(reader *bufio.Reader, prompt string, w io.Writer) (*time.Time, error) {
	text, err := GetSimpleText(reader, prompt+" (YYYY-MM-DD, empty to skip)", w)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", text)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", text, err)
	}
	return &d, nil
}

// GetFloat reads a decimal number.
func GetFloat(reader *bufio.Reader, prompt string, w io.Writer) (float64, error) {
	text, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", text, err)
	}
	return v, nil
}

// GetYesNo reads a y/n answer; empty input means no.
func GetYesNo(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	text, err := GetSimpleText(reader, prompt+" (y/N)", w)
	if err != nil {
		return false, err
	}
	text = strings.ToLower(text)
	return text == "y" || text == "yes", nil
}

// GetToken reads the verification token from the terminal without echo.
// Tokens come from the authority's web flow and are secret enough to keep
// out of scrollback.
func GetToken(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Paste verification token: "); err != nil {
		return "", err
	}
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

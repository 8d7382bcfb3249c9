package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	calls []string
}

func (s *stubExec) destination() string { return "TH" }

func (s *stubExec) Passport(ctx context.Context) error {
	s.calls = append(s.calls, "passport")
	return nil
}

func (s *stubExec) Profile(ctx context.Context) error {
	s.calls = append(s.calls, "profile")
	return nil
}

func (s *stubExec) Trip(ctx context.Context) error {
	s.calls = append(s.calls, "trip")
	return nil
}

func (s *stubExec) Funds(ctx context.Context, args []string) error {
	s.calls = append(s.calls, "funds "+strings.Join(args, " "))
	return nil
}

func (s *stubExec) Status(ctx context.Context) error {
	s.calls = append(s.calls, "status")
	return nil
}

func (s *stubExec) Submit(ctx context.Context) error {
	s.calls = append(s.calls, "submit")
	return nil
}

func (s *stubExec) History(ctx context.Context) error {
	s.calls = append(s.calls, "history")
	return nil
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	t.Cleanup(func() { printlnFn = orig })

	var lines []string
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	return &lines
}

func runScript(t *testing.T, script string) (*stubExec, *[]string) {
	t.Helper()
	out := captureOutput(t)
	stub := &stubExec{}
	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), stub, func() string { return "(0% incomplete)" }, scanner)
	return stub, out
}

func TestREPL_DispatchesCommands(t *testing.T) {
	stub, _ := runScript(t, "passport\nprofile\ntrip\nfunds link 2\nstatus\nsubmit\nhistory\nexit\n")
	assert.Equal(t, []string{
		"passport", "profile", "trip", "funds link 2", "status", "submit", "history",
	}, stub.calls)
}

func TestREPL_StatusAlias(t *testing.T) {
	stub, _ := runScript(t, "s\nquit\n")
	assert.Equal(t, []string{"status"}, stub.calls)
}

func TestREPL_UnknownAndEmptyLines(t *testing.T) {
	stub, out := runScript(t, "\n\nfrobnicate\nexit\n")
	assert.Empty(t, stub.calls)

	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "Unknown command: frobnicate")
	assert.Contains(t, joined, "Bye!")
}

func TestREPL_HelpListsCommands(t *testing.T) {
	_, out := runScript(t, "help\nexit\n")
	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "passport")
	assert.Contains(t, joined, "submit")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	stub, _ := runScript(t, "status\n") // no exit, scanner hits EOF
	assert.Equal(t, []string{"status"}, stub.calls)
}

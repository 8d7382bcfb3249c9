package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL needs. The real App
// satisfies it; tests provide a stub.
type execIface interface {
	destination() string
	Passport(ctx context.Context) error
	Profile(ctx context.Context) error
	Trip(ctx context.Context) error
	Funds(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	Submit(ctx context.Context) error
	History(ctx context.Context) error
}

// runREPL reads a line, dispatches the first token as a command, and loops
// until EOF or exit/quit. Command handlers report their own errors; the
// loop only announces unknown commands.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ep:%s %s> ", a.destination(), statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: passport, profile, trip, funds [add|list|link|unlink|backup], status, submit, history, exit")

		case "passport":
			_ = a.Passport(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "trip":
			_ = a.Trip(ctx)

		case "funds":
			_ = a.Funds(ctx, args)

		case "s", "status":
			_ = a.Status(ctx)

		case "submit":
			_ = a.Submit(ctx)

		case "history":
			_ = a.History(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

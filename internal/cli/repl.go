package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/logging"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Report(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Browse(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	DeleteAccount(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader until EOF or "exit"/"quit".
//
//	Not logged in:
//	  signup | login | list <lost|found> | search <lost|found> [text]
//	  browse <lost|found> | show <lost|found> <id> | exit
//
//	Logged in, additionally:
//	  report <lost|found> | delete-account | logout
//
// Command errors are reported by the handlers themselves; the loop keeps going.
// Each command runs with its own trace id.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("lofs (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]
		cctx := logging.EnsureTraceID(ctx)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: report, (l)ist, search, browse, show, delete-account, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, (l)ist, search, browse, show, exit")
			}

		case "signup", "register":
			_ = a.Signup(cctx)

		case "login":
			_ = a.Login(cctx)

		case "report":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			_ = a.Report(cctx, args)

		case "l", "list":
			_ = a.List(cctx, args)

		case "search":
			_ = a.Search(cctx, args)

		case "browse":
			_ = a.Browse(cctx, args)

		case "show":
			_ = a.Show(cctx, args)

		case "delete-account":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			_ = a.DeleteAccount(cctx)

		case "logout":
			_ = a.Logout(cctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

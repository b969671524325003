package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

var errLoginRequired = errors.New("please log in first")

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Overview(ctx context.Context) error
	Wallet(ctx context.Context) error
	History(ctx context.Context, args []string) error
	Goals(ctx context.Context) error
	Verify(ctx context.Context, args []string) error
	Analyze(ctx context.Context, args []string) error
	Status(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: overview, wallet, history [category|all], goals, " +
		"verify <bvn>, analyze <file.pdf>, status, logout, exit"
)

// runREPL reads commands from scanner and dispatches them to a until EOF or
// exit/quit. Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("flexrent %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "logout", "overview", "wallet", "history", "goals", "verify", "analyze", "status":
			if !a.isLoggedIn() {
				err = errLoginRequired
				break
			}
			err = dispatch(ctx, a, cmd, args)
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "overview":
		return a.Overview(ctx)
	case "wallet":
		return a.Wallet(ctx)
	case "history":
		return a.History(ctx, args)
	case "goals":
		return a.Goals(ctx)
	case "verify":
		return a.Verify(ctx, args)
	case "analyze":
		return a.Analyze(ctx, args)
	case "status":
		return a.Status(ctx)
	}
	return nil
}

func (a *App) getStatus() string {
	s := ""
	if email := a.authService.Email(); email != "" {
		s = email + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	s = strings.TrimSpace(s)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root prints the banner, resumes the saved session, starts the connectivity
// watcher and blocks in the REPL.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.printf("Welcome to FlexRent CLI (type 'help' for commands)\n")
	a.resume(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/oddsup/internal/client/session"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	BioLogin(ctx context.Context) error
	Bio(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	Refresh(ctx context.Context) error
	Friends(ctx context.Context) error
	AddFriend(ctx context.Context, args []string) error
	Accept(ctx context.Context, args []string) error
	Decline(ctx context.Context, args []string) error
	Unfriend(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Leaderboard(ctx context.Context, args []string) error
	Notifications(ctx context.Context) error
	Read(ctx context.Context, args []string) error
	Markets(ctx context.Context, args []string) error
	Bet(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, signup, biologin, exit"
	helpSignedIn  = "Available commands: profile, refresh, friends, addfriend, accept, decline, unfriend, " +
		"search, leaderboard, notifications, read, markets, bet, stats, bio on|off, logout, exit"
)

// usageError is returned for malformed command arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// runREPL reads one command per line from reader until EOF, exit or quit.
// Command errors are printed and never stop the loop.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(promptFn())
		line, err := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmdErr := dispatch(ctx, a, cmd, args); cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
		if err != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpSignedIn)
		} else {
			printlnFn(helpSignedOut)
		}
		return nil
	case "login":
		return a.Login(ctx)
	case "signup", "register":
		return a.Signup(ctx)
	case "biologin":
		return a.BioLogin(ctx)
	}

	if !a.isLoggedIn() {
		switch cmd {
		case "bio", "profile", "refresh", "friends", "addfriend", "accept", "decline", "unfriend",
			"search", "leaderboard", "notifications", "read", "markets", "bet", "stats", "logout":
			printlnFn("Please log in first.")
			return nil
		}
	}

	switch cmd {
	case "bio":
		return a.Bio(ctx, args)
	case "profile", "p":
		return a.Profile(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "friends":
		return a.Friends(ctx)
	case "addfriend":
		return a.AddFriend(ctx, args)
	case "accept":
		return a.Accept(ctx, args)
	case "decline":
		return a.Decline(ctx, args)
	case "unfriend":
		return a.Unfriend(ctx, args)
	case "search":
		return a.Search(ctx, args)
	case "leaderboard", "lb":
		return a.Leaderboard(ctx, args)
	case "notifications", "n":
		return a.Notifications(ctx)
	case "read":
		return a.Read(ctx, args)
	case "markets", "m":
		return a.Markets(ctx, args)
	case "bet":
		return a.Bet(ctx, args)
	case "stats":
		return a.Stats(ctx, args)
	case "logout":
		return a.Logout(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	var se *session.Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
